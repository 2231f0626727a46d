package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when neither an inline value nor a file is set
var ErrNotConfigured = errors.New("secret is not configured")

// Source names a secret and where it may come from
type Source struct {
	// Name only appears in error messages
	Name string
	// Value is the inline value from configuration
	Value string
	// File holds the secret on disk and wins over Value when set
	File string
}

// Load resolves the secret, trimming surrounding whitespace. A configured
// file that is unreadable or empty is an error; so is a missing secret.
func Load(src Source) (string, error) {
	secret, err := resolve(src)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", fmt.Errorf("%s: %w", label(src), ErrNotConfigured)
	}
	return secret, nil
}

// LoadOptional is Load for secrets some deployments do without. It returns
// an empty string instead of ErrNotConfigured.
func LoadOptional(src Source) (string, error) {
	return resolve(src)
}

func resolve(src Source) (string, error) {
	file := strings.TrimSpace(src.File)
	if file == "" {
		return strings.TrimSpace(src.Value), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", label(src), file, err)
	}
	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", label(src), file)
	}
	return secret, nil
}

func label(src Source) string {
	if name := strings.TrimSpace(src.Name); name != "" {
		return name
	}
	return "secret"
}
