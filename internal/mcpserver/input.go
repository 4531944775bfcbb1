package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimprep/bundler"
	"github.com/erraggy/apimprep/fetcher"
)

// specInput represents the three ways a spec can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a specification file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a specification from"`
	Content string `json:"content,omitempty" jsonschema:"Inline specification content (JSON or YAML)"`
}

// validate checks that exactly one input mode is set and enforces the inline
// content size limit.
func (s specInput) validate() error {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set APIMPREP_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// source returns the file path or URL for tools that need a fetchable
// source, erroring on inline content.
func (s specInput) source() (string, error) {
	switch {
	case s.File != "":
		return s.File, nil
	case s.URL != "":
		return s.URL, nil
	default:
		return "", fmt.Errorf("this tool requires a file or url input")
	}
}

// newFetcher builds the fetcher used for tool runs, honoring the configured
// User-Agent override. URL fetches go through the SSRF-guarded client since
// both the source URL and any URL $refs inside it come from the agent.
func newFetcher() *fetcher.Fetcher {
	f := fetcher.New()
	f.HTTPClient = newSafeHTTPClient()
	if cfg.UserAgent != "" {
		f.UserAgent = cfg.UserAgent
	}
	return f
}

// loadDocument parses the specification from whichever input was provided into the
// document tree, returning the tree and a resolver for its external
// references. Inline content resolves relative references against the
// process working directory.
func (s specInput) loadDocument() (map[string]any, *bundler.Resolver, error) {
	if err := s.validate(); err != nil {
		return nil, nil, err
	}

	f := newFetcher()

	var (
		data     []byte
		resolver *bundler.Resolver
	)
	switch {
	case s.URL != "":
		fetched, err := f.Fetch(s.URL)
		if err != nil {
			return nil, nil, err
		}
		data = fetched.Data
		resolver = bundler.NewWithHTTP(s.URL, func(url string) ([]byte, string, error) {
			r, err := f.Fetch(url)
			if err != nil {
				return nil, "", err
			}
			return r.Data, r.ContentType, nil
		})
	case s.File != "":
		fetched, err := f.Fetch(s.File)
		if err != nil {
			return nil, nil, err
		}
		data = fetched.Data
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving spec path: %w", err)
		}
		resolver = bundler.New(filepath.Dir(abs))
	default:
		data = []byte(s.Content)
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("resolving working directory: %w", err)
		}
		resolver = bundler.New(wd)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing specification: %w", err)
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("specification root must be a mapping")
	}
	return doc, resolver, nil
}
