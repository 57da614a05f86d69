package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileVar names an environment variable that overrides the --env flag.
const EnvFileVar = "ANSA_ENV_FILE"

// ErrNoEnvFile is returned when neither the requested nor the default file exists.
var ErrNoEnvFile = errors.New("no env file found")

// EnvLoader loads a .env file chosen by flag or environment override.
type EnvLoader struct {
	value       *string
	defaultPath string
}

// AddEnvFlag registers an --env flag on fs and returns its loader.
func AddEnvFlag(fs *flag.FlagSet, defaultPath string) *EnvLoader {
	if fs == nil {
		fs = flag.CommandLine
	}
	if strings.TrimSpace(defaultPath) == "" {
		defaultPath = ".env"
	}
	return &EnvLoader{
		value:       fs.String("env", defaultPath, "Path to the .env file"),
		defaultPath: defaultPath,
	}
}

// Candidates lists the files Load tries, in order.
func (l *EnvLoader) Candidates() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, 3)
	seen := map[string]struct{}{}
	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	add(os.Getenv(EnvFileVar))
	if l.value != nil {
		add(*l.value)
	}
	add(l.defaultPath)
	return out
}

// Load overlays the first readable candidate onto the process environment.
// Values from the file win over values already exported.
func (l *EnvLoader) Load() (string, error) {
	if l == nil {
		return "", fmt.Errorf("env loader is nil")
	}
	candidates := l.Candidates()
	for _, path := range candidates {
		if err := godotenv.Overload(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoEnvFile, strings.Join(candidates, ", "))
}
