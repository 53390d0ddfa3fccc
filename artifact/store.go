package artifact

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Store persists artifacts by name. Save overwrites existing artifacts.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// Locator is implemented by stores that can describe where an artifact lives
// (a file path, an object URL).
type Locator interface {
	Location(name string) (string, error)
}

// LocationOf returns the store specific location of name, or the cleaned name
// itself when the store is not a Locator.
func LocationOf(s Store, name string) string {
	if l, ok := s.(Locator); ok {
		if loc, err := l.Location(name); err == nil {
			return loc
		}
	}
	if clean, err := CleanName(name); err == nil {
		return clean
	}
	return name
}

// CleanName validates a slash separated artifact name and returns its
// canonical form. Absolute names and names leaving the root are rejected.
func CleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the store root", ErrInvalidName, name)
	}
	return clean, nil
}
