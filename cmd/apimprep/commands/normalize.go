package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/normalizer"
	"github.com/erraggy/apimprep/writer"
)

// NormalizeFlags contains flags for the normalize command
type NormalizeFlags struct {
	Output   string
	Rewrites string
	Quiet    bool
	Verbose  bool
}

// SetupNormalizeFlags creates and configures a FlagSet for the normalize command.
func SetupNormalizeFlags() (*flag.FlagSet, *NormalizeFlags) {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	flags := &NormalizeFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Rewrites, "rewrites", "", "comma-separated rewrite types to apply (default: all)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug output")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apimprep normalize [flags] <file|url>\n\n")
		Writef(fs.Output(), "Apply gateway compatibility rewrites to an already-bundled document.\n\n")
		Writef(fs.Output(), "Rewrite Types:\n")
		Writef(fs.Output(), "  %-26s Add discriminator properties to required lists\n", normalizer.RewriteTypeDiscriminatorRequired)
		Writef(fs.Output(), "  %-26s Serialize structured description values to JSON strings\n", normalizer.RewriteTypeFlattenedDescription)
		Writef(fs.Output(), "  %-26s Delete $recursiveRef, $recursiveAnchor, and propertyNames\n", normalizer.RewriteTypeRemovedKeyword)
		Writef(fs.Output(), "\nFlags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apimprep normalize bundled.json\n")
		Writef(fs.Output(), "  apimprep normalize -o clean.json --rewrites removed-keyword bundled.json\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Normalization completed successfully\n")
		Writef(fs.Output(), "  1    Fetch, parse, or write failed\n")
	}

	return fs, flags
}

// HandleNormalize executes the normalize command
func HandleNormalize(args []string) error {
	fs, flags := SetupNormalizeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("normalize command requires exactly one file path or URL")
	}

	source := fs.Arg(0)

	rewrites, err := ParseRewriteTypes(flags.Rewrites)
	if err != nil {
		return err
	}

	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{source}); err != nil {
			return err
		}
	}

	f := fetcher.New()
	f.Logger = NewLogger(flags.Verbose, flags.Quiet)
	fetched, err := f.Fetch(source)
	if err != nil {
		return fmt.Errorf("fetching specification: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(fetched.Data, &doc); err != nil {
		return fmt.Errorf("parsing specification: %w", err)
	}

	n := normalizer.New()
	n.EnabledRewrites = rewrites
	result, err := n.Normalize(doc)
	if err != nil {
		return fmt.Errorf("normalizing document: %w", err)
	}

	if flags.Output != "" {
		if err := writer.WriteFile(doc, flags.Output); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	} else if err := writer.Write(doc, os.Stdout); err != nil {
		return fmt.Errorf("writing document to stdout: %w", err)
	}

	if !flags.Quiet {
		Writef(os.Stderr, "\nRewrites Applied: %d\n", result.RewriteCount)
		for _, rw := range result.Rewrites {
			Writef(os.Stderr, "  [%s] %s: %s\n", rw.Type, rw.Path, rw.Description)
		}
	}

	return nil
}
