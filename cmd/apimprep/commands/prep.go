package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/apimprep"
	"github.com/erraggy/apimprep/fetcher"
	"github.com/erraggy/apimprep/prep"
)

// PrepFlags contains flags for the prep command
type PrepFlags struct {
	URL      string
	Output   string
	RawPath  string
	KeepRaw  bool
	Check    bool
	Rewrites string
	Quiet    bool
	Verbose  bool
}

// SetupPrepFlags creates and configures a FlagSet for the prep command.
// Returns the FlagSet and a PrepFlags struct with bound flag variables.
func SetupPrepFlags() (*flag.FlagSet, *PrepFlags) {
	fs := flag.NewFlagSet("prep", flag.ContinueOnError)
	flags := &PrepFlags{}

	fs.StringVar(&flags.URL, "u", "", "specification URL to download")
	fs.StringVar(&flags.URL, "url", "", "specification URL to download")
	fs.StringVar(&flags.Output, "o", prep.DefaultOutputPath, "output file path")
	fs.StringVar(&flags.Output, "output", prep.DefaultOutputPath, "output file path")
	fs.StringVar(&flags.RawPath, "raw-path", prep.DefaultRawPath, "path for the downloaded raw specification")
	fs.BoolVar(&flags.KeepRaw, "k", false, "keep the downloaded raw specification file")
	fs.BoolVar(&flags.KeepRaw, "keep-downloaded", false, "keep the downloaded raw specification file")
	fs.BoolVar(&flags.Check, "check", false, "verify the output still parses as an OpenAPI document")
	fs.StringVar(&flags.Rewrites, "rewrites", "", "comma-separated rewrite types to apply (default: all)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: suppress progress output")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: suppress progress output")
	fs.BoolVar(&flags.Verbose, "v", false, "enable debug output")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable debug output")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apimprep prep [flags] [file|url]\n\n")
		Writef(fs.Output(), "Fetch a specification, bundle its external references, normalize it for\n")
		Writef(fs.Output(), "gateway import, and write a self-contained JSON file.\n\n")
		Writef(fs.Output(), "With no source argument, downloads the Azure OpenAI inference specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  apimprep prep\n")
		Writef(fs.Output(), "  apimprep prep -o prepared.json openapi.yaml\n")
		Writef(fs.Output(), "  apimprep prep -k --check -u https://example.com/openapi.json\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Preparation completed successfully\n")
		Writef(fs.Output(), "  1    Fetch, bundling, normalization, or write failed\n")
	}

	return fs, flags
}

// HandlePrep executes the prep command
func HandlePrep(args []string) error {
	fs, flags := SetupPrepFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("prep command takes at most one file path or URL")
	}

	source := prep.DefaultSourceURL
	switch {
	case flags.URL != "" && fs.NArg() == 1:
		return fmt.Errorf("cannot combine --url with a positional source argument")
	case flags.URL != "":
		source = flags.URL
	case fs.NArg() == 1:
		source = fs.Arg(0)
	}

	rewrites, err := ParseRewriteTypes(flags.Rewrites)
	if err != nil {
		return err
	}

	if err := ValidateOutputPath(flags.Output, []string{source}); err != nil {
		return err
	}

	opts := []prep.Option{
		prep.WithSource(source),
		prep.WithOutput(flags.Output),
		prep.WithRawPath(flags.RawPath),
		prep.WithKeepRaw(flags.KeepRaw),
		prep.WithCheckOutput(flags.Check),
		prep.WithLogger(NewLogger(flags.Verbose, flags.Quiet)),
	}
	if len(rewrites) > 0 {
		opts = append(opts, prep.WithEnabledRewrites(rewrites...))
	}

	result, err := prep.PrepareWithOptions(context.Background(), opts...)
	if err != nil {
		return fmt.Errorf("preparing specification: %w", err)
	}

	if flags.Quiet {
		return nil
	}

	Writef(os.Stderr, "apimprep version: %s\n", apimprep.Version())
	Writef(os.Stderr, "Source: %s\n", result.Source)
	Writef(os.Stderr, "Source Size: %s\n", fetcher.FormatBytes(result.SourceSize))
	Writef(os.Stderr, "Resolved Refs: %d\n", result.ResolvedRefs)
	Writef(os.Stderr, "External Documents: %d\n", len(result.Documents))
	Writef(os.Stderr, "Rewrites: %d\n", result.RewriteCount)
	Writef(os.Stderr, "Output: %s (%s)\n", result.OutputPath, fetcher.FormatBytes(result.OutputSize))
	if result.RawPath != "" {
		Writef(os.Stderr, "Raw Download: %s\n", result.RawPath)
	}
	Writef(os.Stderr, "Load Time: %v\n", result.LoadTime)
	Writef(os.Stderr, "Total Time: %v\n", result.TotalTime)
	Writef(os.Stderr, "\n✓ Specification ready for gateway import\n")

	return nil
}
