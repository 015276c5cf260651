// Package bookmarks persists the user's saved document locations.
package bookmarks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Bookmark names one saved location, local path or URL.
type Bookmark struct {
	Title    string `json:"title"`
	Location string `json:"location"`
}

// Load reads the bookmark list; a missing file yields an empty list.
func Load(path string) ([]Bookmark, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bookmarks %s: %w", path, err)
	}
	var list []Bookmark
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse bookmarks %s: %w", path, err)
	}
	return list, nil
}

// Save writes the bookmark list, creating parent directories.
func Save(path string, list []Bookmark) error {
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bookmarks directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write bookmarks %s: %w", path, err)
	}
	return nil
}
