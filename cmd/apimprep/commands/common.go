// Package commands provides CLI command handlers for apimprep.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/normalizer"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if fetcher.IsURL(inputPath) {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	// Existing output files are overwritten, with a warning.
	if _, err := os.Stat(outputPath); err == nil {
		Writef(os.Stderr, "Warning: output file %s already exists and will be overwritten\n", outputPath)
	}

	return nil
}

// ParseRewriteTypes parses a comma-separated rewrite type list.
// An empty string enables all rewrites.
func ParseRewriteTypes(value string) ([]normalizer.RewriteType, error) {
	if value == "" {
		return nil, nil
	}

	valid := map[normalizer.RewriteType]bool{
		normalizer.RewriteTypeDiscriminatorRequired: true,
		normalizer.RewriteTypeFlattenedDescription:  true,
		normalizer.RewriteTypeRemovedKeyword:        true,
	}

	var rewrites []normalizer.RewriteType
	for _, part := range strings.Split(value, ",") {
		rt := normalizer.RewriteType(strings.TrimSpace(part))
		if !valid[rt] {
			return nil, fmt.Errorf("invalid rewrite type %q. Valid types: %s, %s, %s", rt,
				normalizer.RewriteTypeDiscriminatorRequired,
				normalizer.RewriteTypeFlattenedDescription,
				normalizer.RewriteTypeRemovedKeyword)
		}
		rewrites = append(rewrites, rt)
	}
	return rewrites, nil
}

// NewLogger builds the structured logger for a command run. Verbose enables
// debug output, quiet disables logging entirely.
func NewLogger(verbose, quiet bool) fetcher.Logger {
	if quiet {
		return fetcher.NopLogger{}
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return fetcher.NewSlogAdapter(slog.New(handler))
}
