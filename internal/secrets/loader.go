// Package secrets resolves advisory API keys from files, the environment or inline config.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source lists where a secret may come from. The first non-empty source wins in the
// order File, Env, Value.
type Source struct {
	// Name is used in error messages, e.g. "gemini api key".
	Name  string
	File  string
	Env   string
	Value string
}

// Load returns the trimmed secret. A configured file must exist and be non-empty;
// it never falls through to the other sources.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		return fromFile(name, file)
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}

func fromFile(name, file string) (string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}
	return secret, nil
}
