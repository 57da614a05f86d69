package translation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/ansa/internal/htmltext"
	"horse.fit/ansa/internal/item"
	"horse.fit/ansa/internal/macro"
)

const MacroName = "Translate text"

// TextMacro translates an item's body between English and Italian. The
// provider is looked up in the registry on every run; an empty name means
// the registry default.
type TextMacro struct {
	registry *Registry
	provider string
	logger   zerolog.Logger
}

func NewTextMacro(registry *Registry, providerName string, logger zerolog.Logger) *TextMacro {
	return &TextMacro{registry: registry, provider: providerName, logger: logger}
}

// Macro returns the registry entry for the translation macro.
func (m *TextMacro) Macro() macro.Macro {
	return macro.Macro{
		Name:          MacroName,
		Label:         MacroName,
		AccessType:    macro.AccessFrontend,
		ActionType:    macro.ActionDirect,
		SimpleReplace: true,
		Callback:      m.Apply,
	}
}

// Apply rewrites it.BodyHTML node by node. Timed out nodes keep their
// original text; any other failure aborts and leaves the item untouched.
func (m *TextMacro) Apply(ctx context.Context, it *item.Item) (*item.Item, error) {
	if m == nil || m.registry == nil {
		return nil, fmt.Errorf("translation macro is not initialized")
	}
	if it == nil {
		return nil, fmt.Errorf("item is nil")
	}
	provider, err := m.registry.Provider(m.provider)
	if err != nil {
		return nil, err
	}

	lang, target := ResolvePair(it.Language)
	timedOut := 0
	translate := func(ctx context.Context, text string) (string, error) {
		res := provider.Translate(ctx, TranslateRequest{
			Text:       text,
			SourceLang: lang,
			TargetLang: target,
		})
		if res.Status == StatusTimedOut {
			timedOut++
		}
		return res.TextOrOriginal(text)
	}

	body, err := htmltext.Process(ctx, it.BodyHTML, translate)
	if err != nil {
		return nil, fmt.Errorf("translate body_html %s->%s: %w", lang, target, err)
	}

	it.BodyHTML = body
	m.logger.Info().
		Str("provider", provider.Name()).
		Str("lang", lang).
		Str("target", target).
		Int("timed_out_nodes", timedOut).
		Msg("translated item body")
	return it, nil
}
