package translation

import (
	"context"
	"errors"
	"fmt"
)

// ErrFailed marks a translation that neither succeeded nor timed out.
var ErrFailed = errors.New("translation failed")

// Provider translates free-form text between languages.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) Result
	Name() string
	SupportedLanguages() []string
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string // "en" or "it"
	TargetLang string
}

// Status classifies how a translation attempt ended.
type Status string

const (
	StatusOK       Status = "ok"
	StatusTimedOut Status = "timed_out"
	StatusFailed   Status = "failed"
)

// Result is the outcome of one provider call. Only the caller decides whether
// a timed out attempt falls back to the original text.
type Result struct {
	Status       Status
	Text         string
	Err          error
	ProviderName string
	LatencyMs    int64
}

func OK(text string) Result {
	return Result{Status: StatusOK, Text: text}
}

func TimedOut(original string, cause error) Result {
	return Result{Status: StatusTimedOut, Text: original, Err: cause}
}

func Failed(cause error) Result {
	return Result{Status: StatusFailed, Err: cause}
}

// TextOrOriginal resolves a result with the macro's policy: a timeout yields
// the original text, a failure is returned as an error.
func (r Result) TextOrOriginal(original string) (string, error) {
	switch r.Status {
	case StatusOK:
		return r.Text, nil
	case StatusTimedOut:
		return original, nil
	case StatusFailed:
		if r.Err == nil {
			return "", ErrFailed
		}
		return "", fmt.Errorf("%w: %w", ErrFailed, r.Err)
	default:
		return "", fmt.Errorf("unknown translation status %q", r.Status)
	}
}
