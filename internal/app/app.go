package app

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// stdout receives command results; diagnostics go to stderr.
var stdout io.Writer = os.Stdout

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "serve":
		return runServe(args[1:])
	case "translate":
		return runTranslate(args[1:])
	case "search":
		return runSearch(args[1:])
	case "fetch":
		return runFetch(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "ansa CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ansa <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  serve      Start Echo API server")
	fmt.Fprintln(os.Stderr, "  translate  Translate an HTML body between English and Italian")
	fmt.Fprintln(os.Stderr, "  search     Search the ANSA photo archive")
	fmt.Fprintln(os.Stderr, "  fetch      Fetch one photo and store its original rendition")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"ansa <command> -h\" for command-specific flags.")
}
