package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arlunn/munin/internal/apperr"
)

// ResolveDir maps a user-supplied, possibly nested folder path to an
// absolute directory inside the vault.
//
// The exact location under the root is tried first. When it does not exist,
// the last path component is matched case-insensitively as a substring
// against every directory name in the vault; the walk is depth-first in
// lexical order, so the first match is the lexicographically smallest
// candidate. Returns apperr.ErrFolderNotFound when nothing matches.
func (v *Vault) ResolveDir(folderPath string) (string, error) {
	candidate, err := v.safePath(folderPath)
	if err == nil {
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate, nil
		}
	}
	return v.findFolder(filepath.Base(filepath.Clean(folderPath)))
}

// findFolder searches the whole vault for a directory whose name contains
// name as a case-insensitive substring.
func (v *Vault) findFolder(name string) (string, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return "", apperr.ErrFolderNotFound
	}

	var found string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil // unreadable subtree, keep searching
		}
		if !d.IsDir() || p == v.root {
			return nil
		}
		if strings.Contains(strings.ToLower(d.Name()), target) {
			found = p
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", apperr.ErrFolderNotFound
	}
	return found, nil
}

// ResolveFilePath maps a filename that may carry a folder prefix to the
// absolute path where the file should be read or written.
//
// With no folder prefix the file lives at the vault root. With a prefix the
// exact directory is tried first, then the fuzzy ResolveDir search. Callers
// decide whether an ErrFolderNotFound falls back to the vault root.
func (v *Vault) ResolveFilePath(name string) (string, error) {
	name = filepath.ToSlash(strings.TrimSpace(name))
	folderPart := filepath.Dir(name)
	baseName := filepath.Base(name)

	if folderPart == "." || folderPart == "" {
		return v.safePath(baseName)
	}

	direct, err := v.safePath(folderPart)
	if err == nil {
		if info, statErr := os.Stat(direct); statErr == nil && info.IsDir() {
			return filepath.Join(direct, baseName), nil
		}
	}

	dir, err := v.ResolveDir(folderPart)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, baseName), nil
}
