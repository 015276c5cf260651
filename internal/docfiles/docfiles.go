// Package docfiles answers "does this look like a Markdown document"
// and produces filtered directory listings for navigation.
package docfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// IsMarkdown reports whether the path carries one of the configured
// Markdown extensions.
func IsMarkdown(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

// Entry is one navigable item in a directory listing.
type Entry struct {
	Name string
	Path string
	Dir  bool
}

// ListDir lists dir: subdirectories first, then Markdown files, both
// sorted by name. Hidden entries are skipped.
func ListDir(dir string, extensions []string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}

	var dirs, files []Entry
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		entry := Entry{Name: name, Path: filepath.Join(dir, name), Dir: item.IsDir()}
		switch {
		case item.IsDir():
			dirs = append(dirs, entry)
		case IsMarkdown(name, extensions):
			files = append(files, entry)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(dirs, files...), nil
}
