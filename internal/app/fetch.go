package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/ansa/internal/ansa"
	"horse.fit/ansa/internal/cli"
	"horse.fit/ansa/internal/search"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	provider := fs.String("provider", ansa.ProviderName, "Search provider name")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		fmt.Fprintln(os.Stderr, "fetch requires exactly one guid argument")
		return 2
	}
	guid := strings.TrimSpace(fs.Arg(0))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rt, err := loadRuntime(ctx, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	p, err := rt.providers.Provider(*provider)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	it, err := p.Fetch(ctx, guid)
	if err != nil {
		if errors.Is(err, search.ErrItemNotFound) {
			fmt.Fprintf(os.Stderr, "No item with guid %s\n", guid)
			return 1
		}
		rt.logger.Error().Err(err).Str("guid", guid).Msg("fetch failed")
		fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
		return 1
	}

	if err := writeJSON(it); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}
