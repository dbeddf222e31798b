package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/halverson/walletsync/internal/fileutil"
)

// Scratch is session-scoped key-value storage. It never outlives the
// logical session: it is cleared on disconnect and on close teardown.
type Scratch struct {
	path string
}

// NewScratch creates scratch storage rooted at dir.
func NewScratch(dir string) *Scratch {
	return &Scratch{path: filepath.Join(dir, ScratchFileName)}
}

// Put stores a value under key.
func (s *Scratch) Put(key, value string) error {
	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = value

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling scratch: %w", err)
	}

	if err := fileutil.WriteAtomic(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("writing scratch file: %w", err)
	}

	return nil
}

// Get retrieves the value for key. The second return is false when absent.
func (s *Scratch) Get(key string) (string, bool) {
	values, err := s.load()
	if err != nil {
		return "", false
	}

	v, ok := values[key]
	return v, ok
}

// Clear removes all scratch storage. Clearing absent storage is not an error.
func (s *Scratch) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing scratch file: %w", err)
	}
	return nil
}

// Path returns the scratch file path.
func (s *Scratch) Path() string {
	return s.path
}

// load reads the scratch map. A corrupt file is moved aside and treated
// as empty.
func (s *Scratch) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading scratch file: %w", err)
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		corruptPath := fmt.Sprintf("%s.corrupt.%d", s.path, time.Now().UTC().UnixNano())
		_ = os.Rename(s.path, corruptPath)
		return make(map[string]string), nil
	}

	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}
