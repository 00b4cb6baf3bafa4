package timestamp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/log"
)

// Store persists the full resource-identity → Record mapping as a single JSON
// document. The mapping is loaded wholesale at startup and flushed wholesale on
// every write; there are no concurrent writers within a process.
type Store struct {
	path string
}

// New returns a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the store file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the full mapping. It fails soft: a missing file yields an empty
// mapping and no error; a malformed file yields an empty mapping and a
// recoverable error the caller may report without aborting.
func (s *Store) Load() (map[string]*Record, error) {
	fs := filesystem.API()

	exists, err := fs.Exists(s.path)
	if err != nil || !exists {
		return make(map[string]*Record), nil
	}

	data, err := fs.ReadFile(s.path)
	if err != nil {
		return make(map[string]*Record), fmt.Errorf("read timestamp store: %w", err)
	}

	var records map[string]*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return make(map[string]*Record), fmt.Errorf("parse timestamp store %s: %w", s.path, err)
	}
	if records == nil {
		records = make(map[string]*Record)
	}

	log.Infof("loaded timestamps for %d resources", len(records))
	return records, nil
}

// Save writes the entire mapping through a temporary file followed by a rename,
// so readers only ever observe the previous or the new complete content.
func (s *Store) Save(records map[string]*Record) error {
	fs := filesystem.API()

	if err := fs.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return fmt.Errorf("prepare store directory: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timestamp store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temporary store: %w", err)
	}

	if err := fs.Rename(tmp, s.path); err != nil {
		// Some backends refuse to rename onto an existing file; the OS rename
		// used in production replaces atomically and never takes this path.
		_ = fs.Remove(s.path)
		if err = fs.Rename(tmp, s.path); err != nil {
			_ = fs.Remove(tmp)
			return fmt.Errorf("replace timestamp store: %w", err)
		}
	}

	log.Debugf("saved timestamps for %d resources", len(records))
	return nil
}
