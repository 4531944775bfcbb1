package prep

import (
	"net/http"

	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/normalizer"
	"github.com/erraggy/apimprep/oaserrors"
)

// Option is a function that configures a prepare operation
type Option func(*prepConfig) error

// prepConfig holds configuration for a prepare operation
type prepConfig struct {
	source          string
	output          string
	rawPath         string
	keepRaw         bool
	checkOutput     bool
	userAgent       string
	httpClient      *http.Client
	logger          fetcher.Logger
	enabledRewrites []normalizer.RewriteType
}

// applyOptions applies option functions and fills in defaults
func applyOptions(opts ...Option) (*prepConfig, error) {
	cfg := &prepConfig{
		source:  DefaultSourceURL,
		output:  DefaultOutputPath,
		rawPath: DefaultRawPath,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.source == cfg.output {
		return nil, &oaserrors.ConfigError{
			Option:  "output",
			Value:   cfg.output,
			Message: "output path would overwrite the source",
		}
	}
	return cfg, nil
}

// WithSource sets the specification source, either a URL or a local file
// path. Defaults to the Azure OpenAI inference specification URL.
func WithSource(source string) Option {
	return func(cfg *prepConfig) error {
		if source == "" {
			return &oaserrors.ConfigError{
				Option:  "source",
				Message: "source cannot be empty",
			}
		}
		cfg.source = source
		return nil
	}
}

// WithOutput sets the output file path for the prepared specification.
func WithOutput(path string) Option {
	return func(cfg *prepConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{
				Option:  "output",
				Message: "output path cannot be empty",
			}
		}
		cfg.output = path
		return nil
	}
}

// WithKeepRaw retains the downloaded raw specification file instead of
// deleting it after a successful run.
func WithKeepRaw(keep bool) Option {
	return func(cfg *prepConfig) error {
		cfg.keepRaw = keep
		return nil
	}
}

// WithRawPath sets where the downloaded raw specification is saved before
// processing.
func WithRawPath(path string) Option {
	return func(cfg *prepConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{
				Option:  "raw-path",
				Message: "raw path cannot be empty",
			}
		}
		cfg.rawPath = path
		return nil
	}
}

// WithCheckOutput enables a structural sanity check of the written output.
func WithCheckOutput(check bool) Option {
	return func(cfg *prepConfig) error {
		cfg.checkOutput = check
		return nil
	}
}

// WithUserAgent sets the User-Agent string for HTTP requests
func WithUserAgent(userAgent string) Option {
	return func(cfg *prepConfig) error {
		cfg.userAgent = userAgent
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for all network fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *prepConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithLogger sets the structured logger for pipeline progress output.
func WithLogger(logger fetcher.Logger) Option {
	return func(cfg *prepConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithEnabledRewrites restricts which normalizer rewrites are applied.
// By default all rewrites run.
func WithEnabledRewrites(rewrites ...normalizer.RewriteType) Option {
	return func(cfg *prepConfig) error {
		cfg.enabledRewrites = rewrites
		return nil
	}
}
