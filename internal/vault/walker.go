package vault

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arlunn/munin/internal/models"
)

// Structure walks the vault and returns its folder tree restricted to
// markdown files. Hidden directories (name starting with ".") are skipped
// along with everything under them.
//
// The tree is built in two passes: first every directory becomes a node
// keyed by its relative path, then children are attached to their parents
// by key. Parent linkage therefore never depends on traversal order.
func (v *Vault) Structure() ([]*models.Folder, error) {
	nodes := make(map[string]*models.Folder)
	var order []string

	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := d.Name()
		if d.IsDir() && p != v.root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}

		rel := v.Rel(p)
		if rel == "." {
			rel = ""
		}

		if d.IsDir() {
			display := name
			if rel == "" {
				display = "Root"
			}
			nodes[rel] = &models.Folder{
				Path:    rel,
				Name:    display,
				Files:   []models.File{},
				Folders: []*models.Folder{},
			}
			order = append(order, rel)
			return nil
		}

		if !strings.HasSuffix(name, NoteExt) {
			return nil
		}
		parent := parentPath(rel)
		if node, ok := nodes[parent]; ok {
			node.Files = append(node.Files, models.File{Name: name, Path: rel})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: walk structure: %w", err)
	}

	// Second pass: attach children to parents.
	var top []*models.Folder
	for _, rel := range order {
		node := nodes[rel]
		if rel == "" {
			top = append(top, node)
			continue
		}
		if parent, ok := nodes[parentPath(rel)]; ok {
			parent.Folders = append(parent.Folders, node)
		} else {
			top = append(top, node)
		}
	}
	return top, nil
}

func parentPath(rel string) string {
	parent := filepath.ToSlash(filepath.Dir(rel))
	if parent == "." {
		return ""
	}
	return parent
}
