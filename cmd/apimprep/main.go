package main

import (
	"fmt"
	"os"

	"github.com/erraggy/apimprep"
	"github.com/erraggy/apimprep/cmd/apimprep/commands"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("apimprep v%s\n", apimprep.Version())
	case "help", "-h", "--help":
		printUsage()
	case "prep":
		if err := commands.HandlePrep(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "bundle":
		if err := commands.HandleBundle(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "normalize":
		if err := commands.HandleNormalize(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := commands.HandleMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`apimprep - OpenAPI gateway import preparation

Usage:
  apimprep <command> [options]

Commands:
  prep        Fetch, bundle, and normalize a specification for gateway import
  bundle      Inline external $refs, preserving internal references
  normalize   Apply gateway compatibility rewrites to a bundled document
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  apimprep prep
  apimprep prep -o prepared.json openapi.yaml
  apimprep bundle -o bundled.json https://example.com/openapi.json
  apimprep normalize --rewrites removed-keyword bundled.json

Run 'apimprep <command> --help' for more information on a command.`)
}
