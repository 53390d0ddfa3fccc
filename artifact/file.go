package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileStore keeps artifacts as files below a root directory. Names map to
// slash separated relative paths.
type FileStore struct {
	root string
}

// NewFileStore creates the root directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create %s: %w", abs, err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *FileStore) Root() string { return s.root }

// Path returns the file path an artifact name maps to.
func (s *FileStore) Path(name string) (string, error) {
	key, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Location implements Locator.
func (s *FileStore) Location(name string) (string, error) { return s.Path(name) }

// Save writes data verbatim, replacing an existing file.
func (s *FileStore) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("artifact: save %s: %w", name, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("artifact: save %s: %w", name, err)
	}
	return nil
}

// Get reads an artifact or returns ErrNotFound.
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("artifact: get %s: %w", name, err)
	}
	return data, nil
}

// List walks the root and returns all artifact names in lexical order.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("artifact: list: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an artifact or returns ErrNotFound.
func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("artifact: delete %s: %w", name, err)
	}
	return nil
}
