package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New logs to stderr so command output on stdout stays machine readable.
func New(environment, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, environment, level)
}

// NewWithWriter builds the service logger on top of an arbitrary writer.
func NewWithWriter(out io.Writer, environment, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL=%q: %w", level, err)
	}

	writer := out
	if strings.EqualFold(strings.TrimSpace(environment), "local") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "ansa").
		Logger()

	return logger, nil
}
