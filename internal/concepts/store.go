package concepts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store persists concept lists learned at runtime in a YAML file keyed by skill.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored concepts. A missing file is an empty store.
func (s *Store) Load() (map[string][]string, error) {
	if s == nil || s.path == "" {
		return map[string][]string{}, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading concept store %q: %w", s.path, err)
	}

	out := map[string][]string{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding concept store %q: %w", s.path, err)
	}

	return out, nil
}

// Save replaces the store content. The file is written next to its final location
// and renamed so readers never see a partial document.
func (s *Store) Save(concepts map[string][]string) error {
	if s == nil || s.path == "" {
		return nil
	}

	data, err := yaml.Marshal(concepts)
	if err != nil {
		return fmt.Errorf("encoding concept store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating concept store dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing concept store: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing concept store: %w", err)
	}

	return nil
}
