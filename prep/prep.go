package prep

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimprep/bundler"
	"github.com/erraggy/apimprep/checker"
	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/normalizer"
	"github.com/erraggy/apimprep/oaserrors"
	"github.com/erraggy/apimprep/writer"
)

const (
	// DefaultSourceURL is the Azure OpenAI inference specification the tool
	// was originally built to prepare.
	DefaultSourceURL = "https://raw.githubusercontent.com/Azure/azure-rest-api-specs/main/" +
		"specification/cognitiveservices/data-plane/AzureOpenAI/inference/" +
		"preview/2025-04-01-preview/inference.json"
	// DefaultOutputPath is where the prepared specification is written.
	DefaultOutputPath = "inference_fixed.json"
	// DefaultRawPath is where the downloaded raw specification is saved
	// during processing.
	DefaultRawPath = "inference_downloaded.json"
)

// Result contains the results of a prepare operation
type Result struct {
	// Source is the URL or file path the specification was read from
	Source string
	// SourceFormat is the detected format of the source (JSON or YAML)
	SourceFormat fetcher.SourceFormat
	// OutputPath is where the prepared specification was written
	OutputPath string
	// RawPath is where the raw download was retained ("" if not kept)
	RawPath string
	// ResolvedRefs is the number of external references inlined
	ResolvedRefs int
	// Documents lists the external documents that were loaded
	Documents []string
	// Rewrites contains all normalization rewrites applied
	Rewrites []normalizer.Rewrite
	// RewriteCount is the total number of rewrites applied
	RewriteCount int
	// SourceSize is the size of the fetched specification in bytes
	SourceSize int64
	// OutputSize is the size of the written output in bytes
	OutputSize int64
	// LoadTime is the time taken to fetch the source
	LoadTime time.Duration
	// TotalTime is the time taken by the whole pipeline
	TotalTime time.Duration
}

// PrepareWithOptions runs the preparation pipeline using functional options.
// With no options it downloads the Azure OpenAI inference specification and
// writes inference_fixed.json.
func PrepareWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}
	return run(ctx, cfg)
}

func run(ctx context.Context, cfg *prepConfig) (*Result, error) {
	start := time.Now()
	log := cfg.log()

	f := fetcher.New()
	if cfg.userAgent != "" {
		f.UserAgent = cfg.userAgent
	}
	f.HTTPClient = cfg.httpClient
	f.Logger = cfg.logger

	log.Info("fetching specification", "source", cfg.source)
	fetched, err := f.Fetch(cfg.source)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:       cfg.source,
		SourceFormat: fetched.Format,
		OutputPath:   cfg.output,
		SourceSize:   fetched.Size,
		LoadTime:     fetched.LoadTime,
	}

	// URL sources keep a raw artifact on disk during processing, the same
	// file a user can retain for inspection with keep-raw.
	isRemote := fetcher.IsURL(cfg.source)
	if isRemote {
		if err := fetched.Save(cfg.rawPath); err != nil {
			return nil, err
		}
		log.Debug("saved raw specification", "path", cfg.rawPath)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(fetched.Data, &doc); err != nil {
		return nil, &oaserrors.ParseError{
			Path:    cfg.source,
			Message: "specification is not valid JSON or YAML",
			Cause:   err,
		}
	}
	if doc == nil {
		return nil, &oaserrors.ParseError{
			Path:    cfg.source,
			Message: "specification root must be a mapping",
		}
	}

	log.Info("bundling external references")
	resolver, err := newResolver(cfg, f, isRemote)
	if err != nil {
		return nil, err
	}
	bundled, err := resolver.Bundle(doc)
	if err != nil {
		return nil, err
	}
	result.ResolvedRefs = bundled.ResolvedRefs
	result.Documents = bundled.Documents
	log.Info("bundled external references",
		"resolvedRefs", bundled.ResolvedRefs, "documents", len(bundled.Documents))

	log.Info("normalizing for gateway import")
	n := normalizer.New()
	n.EnabledRewrites = cfg.enabledRewrites
	normalized, err := n.Normalize(doc)
	if err != nil {
		return nil, err
	}
	result.Rewrites = normalized.Rewrites
	result.RewriteCount = normalized.RewriteCount
	log.Info("normalized document", "rewrites", normalized.RewriteCount)

	data, err := writer.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteBytes(data, cfg.output); err != nil {
		return nil, err
	}
	result.OutputSize = int64(len(data))
	log.Info("wrote prepared specification", "path", cfg.output, "size", result.OutputSize)

	if cfg.checkOutput {
		if err := checker.Check(ctx, data); err != nil {
			return nil, err
		}
		log.Debug("output passed structural check")
	}

	if isRemote {
		if cfg.keepRaw {
			result.RawPath = cfg.rawPath
		} else if err := os.Remove(cfg.rawPath); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove raw specification", "path", cfg.rawPath, "error", err)
		}
	}

	result.TotalTime = time.Since(start)
	return result, nil
}

// newResolver builds the reference resolver appropriate for the source:
// URL sources resolve relative references over HTTP, file sources against
// the source's directory.
func newResolver(cfg *prepConfig, f *fetcher.Fetcher, isRemote bool) (*bundler.Resolver, error) {
	var r *bundler.Resolver
	if isRemote {
		r = bundler.NewWithHTTP(cfg.source, func(url string) ([]byte, string, error) {
			fetched, err := f.Fetch(url)
			if err != nil {
				return nil, "", err
			}
			return fetched.Data, fetched.ContentType, nil
		})
	} else {
		abs, err := filepath.Abs(cfg.source)
		if err != nil {
			return nil, &oaserrors.ConfigError{
				Option:  "source",
				Value:   cfg.source,
				Message: "cannot resolve source path",
				Cause:   err,
			}
		}
		r = bundler.New(filepath.Dir(abs))
	}
	r.Logger = cfg.logger
	return r, nil
}

// log returns the configured logger, or a no-op logger if none is set.
func (cfg *prepConfig) log() fetcher.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return fetcher.NopLogger{}
}
