package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/halverson/walletsync/internal/fileutil"
)

// flagRecord is the on-disk shape of the reconnect flag.
type flagRecord struct {
	Connected bool      `json:"connected"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlagStore persists the reconnect flag as a single file.
type FlagStore struct {
	path string
}

// NewFlagStore creates a flag store rooted at dir.
func NewFlagStore(dir string) *FlagStore {
	return &FlagStore{path: filepath.Join(dir, FlagFileName)}
}

// Set writes the flag, recording that a connection was approved.
func (s *FlagStore) Set() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(flagRecord{
		Connected: true,
		UpdatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling flag: %w", err)
	}

	if err := fileutil.WriteAtomic(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("writing flag file: %w", err)
	}

	return nil
}

// IsSet reports whether the flag is present and valid. A corrupt file is
// moved aside and treated as unset.
func (s *FlagStore) IsSet() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}

	var rec flagRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		corruptPath := fmt.Sprintf("%s.corrupt.%d", s.path, time.Now().UTC().UnixNano())
		_ = os.Rename(s.path, corruptPath)
		return false
	}

	return rec.Connected
}

// Clear removes the flag. Removing an absent flag is not an error.
func (s *FlagStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing flag file: %w", err)
	}
	return nil
}

// Path returns the flag file path.
func (s *FlagStore) Path() string {
	return s.path
}
