package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SearchContent scans every markdown file in the vault for a
// case-insensitive substring match and returns the matching relative paths
// in lexical order. Unreadable files are skipped.
func (v *Vault) SearchContent(keyword string) ([]string, error) {
	needle := strings.ToLower(keyword)
	var matches []string

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), NoteExt) {
			return nil
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			return nil
		}
		if strings.Contains(strings.ToLower(string(data)), needle) {
			matches = append(matches, v.Rel(p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: search: %w", err)
	}
	return matches, nil
}

// ListFiles returns up to max markdown file paths from the vault,
// relative to the root. Used to suggest candidates when a read misses.
func (v *Vault) ListFiles(max int) []string {
	var files []string
	_ = filepath.WalkDir(v.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), NoteExt) {
			return nil
		}
		files = append(files, v.Rel(p))
		if len(files) >= max {
			return filepath.SkipAll
		}
		return nil
	})
	return files
}
