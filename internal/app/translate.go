package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"horse.fit/ansa/internal/cli"
	"horse.fit/ansa/internal/htmltext"
	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/langdetect"
	"horse.fit/ansa/internal/language"
	"horse.fit/ansa/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env")
	timeout := fs.Duration("timeout", 5*time.Minute, "Command timeout")
	lang := fs.String("lang", "auto", "Source language of the body: en, it or auto")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "translate accepts at most one file argument (default: stdin)")
		return 2
	}

	sourceLang := strings.ToLower(strings.TrimSpace(*lang))
	if sourceLang != "auto" {
		sourceLang = language.Primary(sourceLang)
	}
	switch sourceLang {
	case translation.LangEnglish, translation.LangItalian, "auto":
	default:
		fmt.Fprintln(os.Stderr, "--lang must be one of: en, it, auto")
		return 2
	}

	body, err := readInput(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}
	if sourceLang == "auto" {
		sourceLang = detectBodyLanguage(body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rt, err := loadRuntime(ctx, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer rt.Close()

	it := &item.Item{Type: item.TypeText, Language: sourceLang, BodyHTML: body}
	out, err := rt.macros.Run(ctx, translation.MacroName, it)
	if err != nil {
		rt.logger.Error().Err(err).Str("lang", sourceLang).Msg("translate failed")
		fmt.Fprintf(os.Stderr, "Translate failed: %v\n", err)
		return 1
	}

	if _, err := io.WriteString(stdout, out.BodyHTML+"\n"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		return 1
	}
	return 0
}

func readInput(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		return string(raw), err
	}
	raw, err := os.ReadFile(path)
	return string(raw), err
}

// detectBodyLanguage returns "" when the body is too short to classify,
// which the macro treats as English.
func detectBodyLanguage(body string) string {
	texts, err := htmltext.TextNodes(body)
	if err != nil {
		return ""
	}
	return langdetect.Detect(strings.Join(texts, " "))
}
