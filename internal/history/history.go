// Package history tracks recently viewed document locations.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// History is an ordered visit list, most recent first, capped at a
// fixed size. The zero value is not usable; call New.
type History struct {
	limit   int
	entries []string
}

// New returns an empty history holding at most limit entries.
func New(limit int) *History {
	if limit <= 0 {
		limit = 256
	}
	return &History{limit: limit}
}

// Add records a visit. A location already present moves to the front.
func (h *History) Add(location string) {
	if location == "" {
		return
	}
	for i, entry := range h.entries {
		if entry == location {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append([]string{location}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Entries returns the visits, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Load reads a history file into a new History; a missing file yields
// an empty history.
func Load(path string, limit int) (*History, error) {
	h := New(limit)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	if len(entries) > h.limit {
		entries = entries[:h.limit]
	}
	h.entries = entries
	return h, nil
}

// Save writes the history, creating parent directories.
func (h *History) Save(path string) error {
	data, err := json.MarshalIndent(h.entries, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write history %s: %w", path, err)
	}
	return nil
}
