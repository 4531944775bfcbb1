package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimprep/bundler"
	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/writer"
)

// BundleFlags contains flags for the bundle command
type BundleFlags struct {
	Output  string
	Quiet   bool
	Verbose bool
}

// SetupBundleFlags creates and configures a FlagSet for the bundle command.
func SetupBundleFlags() (*flag.FlagSet, *BundleFlags) {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)
	flags := &BundleFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug output")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apimprep bundle [flags] <file|url>\n\n")
		Writef(fs.Output(), "Inline all external $ref targets, producing a self-contained document.\n")
		Writef(fs.Output(), "References internal to the input document (#/...) are preserved; references\n")
		Writef(fs.Output(), "internal to external documents are inlined. No normalization is applied.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apimprep bundle openapi.yaml\n")
		Writef(fs.Output(), "  apimprep bundle -o bundled.json https://example.com/openapi.json\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Bundling completed successfully\n")
		Writef(fs.Output(), "  1    Fetch failed, a reference was unresolvable, or a cycle was found\n")
	}

	return fs, flags
}

// HandleBundle executes the bundle command
func HandleBundle(args []string) error {
	fs, flags := SetupBundleFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("bundle command requires exactly one file path or URL")
	}

	source := fs.Arg(0)
	log := NewLogger(flags.Verbose, flags.Quiet)

	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{source}); err != nil {
			return err
		}
	}

	f := fetcher.New()
	f.Logger = log
	fetched, err := f.Fetch(source)
	if err != nil {
		return fmt.Errorf("fetching specification: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(fetched.Data, &doc); err != nil {
		return fmt.Errorf("parsing specification: %w", err)
	}

	resolver := newResolver(source, f)
	resolver.Logger = log
	result, err := resolver.Bundle(doc)
	if err != nil {
		return fmt.Errorf("bundling references: %w", err)
	}

	if flags.Output != "" {
		if err := writer.WriteFile(doc, flags.Output); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	} else if err := writer.Write(doc, os.Stdout); err != nil {
		return fmt.Errorf("writing document to stdout: %w", err)
	}

	if !flags.Quiet {
		Writef(os.Stderr, "\nResolved Refs: %d\n", result.ResolvedRefs)
		Writef(os.Stderr, "External Documents: %d\n", len(result.Documents))
		for _, target := range result.Documents {
			Writef(os.Stderr, "  - %s\n", target)
		}
	}

	return nil
}

// newResolver builds a Resolver matching the source kind: relative
// references in URL sources resolve over HTTP, file sources against the
// source's directory.
func newResolver(source string, f *fetcher.Fetcher) *bundler.Resolver {
	if fetcher.IsURL(source) {
		return bundler.NewWithHTTP(source, func(url string) ([]byte, string, error) {
			fetched, err := f.Fetch(url)
			if err != nil {
				return nil, "", err
			}
			return fetched.Data, fetched.ContentType, nil
		})
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	return bundler.New(filepath.Dir(abs))
}
