// Package pagestate persists per-element page state between sessions,
// currently the checked state of task-list checkboxes keyed by slug and
// element index.
package pagestate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"siteseek/internal/logging"
)

// Store holds per-slug element state. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	// slug -> element index (as string, TOML keys) -> checked
	checkboxes map[string]map[string]bool
}

// NewStore loads the store from path, starting empty when the file does not
// exist. A load error is logged and treated as empty rather than failing the
// session.
func NewStore(path string) *Store {
	s := &Store{
		path:       path,
		checkboxes: make(map[string]map[string]bool),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.Logger(logging.CompState).Warn("failed to read page state", "path", path, "error", err)
		}
		return s
	}

	var onDisk struct {
		Checkboxes map[string]map[string]bool `toml:"checkboxes"`
	}
	if err := toml.Unmarshal(data, &onDisk); err != nil {
		logging.Logger(logging.CompState).Warn("failed to parse page state", "path", path, "error", err)
		return s
	}
	if onDisk.Checkboxes != nil {
		s.checkboxes = onDisk.Checkboxes
	}
	return s
}

// Checkbox returns the persisted state for the idx-th checkbox on slug.
func (s *Store) Checkbox(slug string, idx int) (checked, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	boxes, found := s.checkboxes[slug]
	if !found {
		return false, false
	}
	checked, ok = boxes[strconv.Itoa(idx)]
	return checked, ok
}

// setCheckbox records the state for the idx-th checkbox on slug.
func (s *Store) setCheckbox(slug string, idx int, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkboxes[slug] == nil {
		s.checkboxes[slug] = make(map[string]bool)
	}
	s.checkboxes[slug][strconv.Itoa(idx)] = checked
}

// Save writes the store to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	onDisk := struct {
		Checkboxes map[string]map[string]bool `toml:"checkboxes"`
	}{Checkboxes: s.checkboxes}
	data, err := toml.Marshal(onDisk)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize page state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write page state: %w", err)
	}
	return nil
}
