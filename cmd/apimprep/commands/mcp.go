package commands

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/apimprep/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: apimprep mcp\n\n")
		Writef(fs.Output(), "Run the MCP (Model Context Protocol) server over stdio, exposing the\n")
		Writef(fs.Output(), "prep, bundle, and normalize tools to MCP clients.\n\n")
		Writef(fs.Output(), "Configuration is read from APIMPREP_* environment variables:\n")
		Writef(fs.Output(), "  APIMPREP_MAX_INLINE_SIZE   max bytes of inline spec content (default 10485760)\n")
		Writef(fs.Output(), "  APIMPREP_REWRITE_LIMIT     default pagination limit for rewrites (default 100)\n")
		Writef(fs.Output(), "  APIMPREP_CHECK_OUTPUT      run the output check by default (default false)\n")
		Writef(fs.Output(), "  APIMPREP_USER_AGENT        override the User-Agent for HTTP fetches\n")
	}

	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx)
}
