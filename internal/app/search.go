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

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", time.Minute, "Command timeout")
	provider := fs.String("provider", ansa.ProviderName, "Search provider name")
	from := fs.Int("from", 0, "Result offset")
	size := fs.Int("size", search.DefaultPageSize, "Page size")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *from < 0 {
		fmt.Fprintln(os.Stderr, "--from must be >= 0")
		return 2
	}
	if *size < 1 {
		fmt.Fprintln(os.Stderr, "--size must be >= 1")
		return 2
	}

	query := search.Query{
		Text: strings.TrimSpace(strings.Join(fs.Args(), " ")),
		From: *from,
		Size: *size,
	}

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

	items, err := p.Find(ctx, query)
	if err != nil {
		rt.logger.Error().Err(err).Str("provider", *provider).Msg("search failed")
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		return 1
	}

	if err := writeJSON(map[string]any{
		"provider": *provider,
		"page":     query.Page(),
		"size":     query.PageSize(),
		"items":    items,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}
