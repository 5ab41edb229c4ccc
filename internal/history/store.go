package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-errors/errors"
)

// Store persists histories as JSON files named after the history, one per
// file under a directory.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a history store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the file backing the named history.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load replaces the contents of h with the saved lines for name.
// A missing file leaves h unchanged.
func (s *Store) Load(name string, h *History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			// No history saved yet
			return nil
		}
		return errors.Wrap(err, 0)
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return errors.WrapPrefix(err, "history "+name, 0)
	}
	h.Replace(lines)
	return nil
}

// Save writes the lines of h under name.
func (s *Store) Save(name string, h *History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrap(err, 0)
	}

	data, err := json.MarshalIndent(h.Entries(), "", "  ")
	if err != nil {
		return errors.Wrap(err, 0)
	}

	if err := os.WriteFile(s.Path(name), data, 0644); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
