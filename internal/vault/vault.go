// Package vault implements the markdown vault: traversal-safe file access,
// fuzzy folder resolution, unique filename generation, and the structure
// walker used by the vault browser.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NoteExt is the filename extension every note carries.
const NoteExt = ".md"

// Vault is a handle on the note vault rooted at a single directory.
//
// All mutations are direct blocking filesystem operations with no locking;
// two concurrent writers to the same path race and the last write wins.
type Vault struct {
	root string // absolute path to the vault directory
}

// New creates a Vault rooted at the given directory, which must exist.
func New(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root is not a directory: %s", abs)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root path.
func (v *Vault) Root() string {
	return v.root
}

// Rel converts an absolute path inside the vault to a slash-separated path
// relative to the root.
func (v *Vault) Rel(abs string) string {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// safePath resolves a relative path against the vault root and rejects any
// result that escapes it (directory traversal).
func (v *Vault) safePath(rel string) (string, error) {
	if rel == "" {
		return v.root, nil
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("vault: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(v.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("vault: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, v.root+string(os.PathSeparator)) && abs != v.root {
		return "", fmt.Errorf("vault: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// Read returns the raw bytes of the vault file at the relative path.
func (v *Vault) Read(rel string) ([]byte, error) {
	abs, err := v.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", rel, err)
	}
	return data, nil
}

// Write atomically writes content to the relative path: tmp file → fsync →
// rename. Parent directories are created as needed.
func (v *Vault) Write(rel string, content []byte) error {
	abs, err := v.safePath(rel)
	if err != nil {
		return err
	}
	return writeFileAtomic(abs, content)
}

// WriteAbs atomically writes content to an absolute path that is already
// known to live inside the vault (output of the resolver or the unique name
// generator).
func (v *Vault) WriteAbs(abs string, content []byte) error {
	return writeFileAtomic(abs, content)
}

// AppendAbs appends content to the file at an absolute vault path, creating
// the file when absent. Appends are plain O_APPEND writes: the linker's
// enrichment steps have no transactional guarantee with the primary write.
func (v *Vault) AppendAbs(abs string, content []byte) error {
	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("vault: open for append: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("vault: append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("vault: close after append: %w", err)
	}
	return nil
}

func writeFileAtomic(abs string, content []byte) error {
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("vault: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".munin-tmp-*")
	if err != nil {
		return fmt.Errorf("vault: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("vault: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("vault: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("vault: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("vault: rename: %w", err)
	}
	success = true
	return nil
}

// exists reports whether any file or directory is present at abs.
func exists(abs string) bool {
	_, err := os.Stat(abs)
	return err == nil
}

// EnsureExt appends the note extension to name when it is missing,
// case-insensitively.
func EnsureExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), NoteExt) {
		return name
	}
	return name + NoteExt
}

// StripExt removes a trailing note extension and surrounding whitespace.
func StripExt(name string) string {
	if strings.HasSuffix(strings.ToLower(name), NoteExt) {
		name = name[:len(name)-len(NoteExt)]
	}
	return strings.TrimSpace(name)
}
