package fetcher

import (
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/apimprep"
	"github.com/erraggy/apimprep/oaserrors"
)

// MaxSourceSize is the maximum size (in bytes) allowed for a fetched
// specification. This prevents resource exhaustion from arbitrarily large
// responses. 50MB accommodates the largest published gateway specs.
const MaxSourceSize = 50 * 1024 * 1024

// defaultTimeout bounds the blocking network fetch when no client is provided.
const defaultTimeout = 30 * time.Second

// Fetcher retrieves raw specification bytes from a URL or local file path.
type Fetcher struct {
	// UserAgent is the User-Agent string used when fetching URLs.
	// Defaults to apimprep.UserAgent() if not set.
	UserAgent string
	// HTTPClient is the HTTP client used for fetching URLs.
	// If nil, a default client with 30-second timeout is created.
	// When set, InsecureSkipVerify is ignored (configure TLS on your client's transport).
	HTTPClient *http.Client
	// InsecureSkipVerify disables TLS certificate verification.
	// Use with caution - only enable for testing or internal servers with self-signed certs
	InsecureSkipVerify bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
}

// New creates a new Fetcher with default settings
func New() *Fetcher {
	return &Fetcher{
		UserAgent: apimprep.UserAgent(),
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (f *Fetcher) log() Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return NopLogger{}
}

// Result contains the fetched bytes and metadata about the retrieval.
type Result struct {
	// Source is the URL or file path the bytes were retrieved from
	Source string
	// Data contains the raw specification bytes
	Data []byte
	// ContentType is the Content-Type response header ("" for file sources)
	ContentType string
	// Format is the detected source format (JSON or YAML)
	Format SourceFormat
	// Size is the size of the fetched data in bytes
	Size int64
	// LoadTime is the time taken to retrieve the data
	LoadTime time.Duration
}

// Save persists the raw fetched bytes to the given path. This is the
// optional intermediate artifact a user can retain for inspection.
func (r *Result) Save(path string) error {
	if err := os.WriteFile(path, r.Data, 0o600); err != nil {
		return &oaserrors.WriteError{Path: path, Message: "saving raw specification", Cause: err}
	}
	return nil
}

// Fetch retrieves specification bytes from a URL or local file path.
// HTTP(S) sources are fetched with a GET request; anything else is read
// from disk. Failures are reported as *oaserrors.FetchError.
func (f *Fetcher) Fetch(source string) (*Result, error) {
	start := time.Now()

	var (
		data        []byte
		contentType string
		err         error
	)
	if IsURL(source) {
		data, contentType, err = f.fetchURL(source)
	} else {
		data, err = f.fetchFile(source)
	}
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > MaxSourceSize {
		return nil, &oaserrors.FetchError{
			Source:  source,
			Message: "specification exceeds maximum size limit",
		}
	}

	format := f.detectFormat(source, contentType, data)
	result := &Result{
		Source:      source,
		Data:        data,
		ContentType: contentType,
		Format:      format,
		Size:        int64(len(data)),
		LoadTime:    time.Since(start),
	}
	f.log().Debug("fetched specification",
		"source", source, "size", result.Size, "format", format, "loadTime", result.LoadTime)
	return result, nil
}

// fetchFile reads specification bytes from a local path.
func (f *Fetcher) fetchFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.FetchError{Source: path, Cause: err}
	}
	return data, nil
}

// fetchURL fetches content from a URL and returns the bytes and Content-Type header
func (f *Fetcher) fetchURL(urlStr string) ([]byte, string, error) {
	var client *http.Client
	switch {
	case f.HTTPClient != nil:
		client = f.HTTPClient
		if f.InsecureSkipVerify {
			f.log().Warn("InsecureSkipVerify ignored when HTTPClient provided; configure TLS on your client's transport")
		}
	case f.InsecureSkipVerify:
		transport := &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // User explicitly requested insecure mode
				MinVersion:         tls.VersionTLS12,
			},
		}
		client = &http.Client{
			Timeout:   defaultTimeout,
			Transport: transport,
		}
	default:
		client = &http.Client{
			Timeout: defaultTimeout,
		}
	}

	req, err := http.NewRequest(http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, "", &oaserrors.FetchError{Source: urlStr, Message: "creating request", Cause: err}
	}

	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = apimprep.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req) //nolint:gosec // G704 - URL is user-provided input (CLI tool)
	if err != nil {
		return nil, "", &oaserrors.FetchError{Source: urlStr, Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &oaserrors.FetchError{
			Source:     urlStr,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &oaserrors.FetchError{Source: urlStr, Message: "reading response body", Cause: err}
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// detectFormat determines the source format from the path or URL, falling
// back to content sniffing when neither is conclusive.
func (f *Fetcher) detectFormat(source, contentType string, data []byte) SourceFormat {
	var format SourceFormat
	if IsURL(source) {
		format = detectFormatFromURL(source, contentType)
	} else {
		format = detectFormatFromPath(source)
	}
	if format == SourceFormatUnknown {
		format = detectFormatFromContent(data)
	}
	return format
}
