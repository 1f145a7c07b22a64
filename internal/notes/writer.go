package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arlunn/munin/internal/vault"
)

// Writer persists generated notes and performs the two optional enrichment
// steps: appending a backlink to the numerically preceding note, and
// creating a forward followup stub.
type Writer struct {
	vault *vault.Vault
}

// NewWriter creates a Writer over the given vault.
func NewWriter(v *vault.Vault) *Writer {
	return &Writer{vault: v}
}

// Save writes content under the resolved location with a unique name and
// returns a human-readable status string describing every step taken.
//
// The location must resolve to an existing folder; vault.ErrFolderNotFound
// style failures abort before anything is written. Linking failures after
// the primary write are reported in the status but never undo it.
func (w *Writer) Save(title, content, location, followup string) (string, error) {
	title = vault.EnsureExt(strings.TrimSpace(title))

	folder, err := w.vault.ResolveDir(location)
	if err != nil {
		return "", err
	}

	path := vault.UniquePath(folder, title)
	if err := w.vault.WriteAbs(path, []byte(content)); err != nil {
		return "", err
	}

	var status strings.Builder
	fmt.Fprintf(&status, "Note saved as %s.", w.vault.Rel(path))

	if num, ok := ParseNumbering(title); ok {
		status.WriteString(w.linkPrevious(folder, title, num))
	}

	if followup != "" {
		status.WriteString(w.createFollowup(folder, path, followup))
	}

	return status.String(), nil
}

// linkPrevious appends a wikilink to the newly written note at the end of
// the note whose filename starts with <major>.<minor-1>. The folder scan is
// non-recursive and uses lexical order, so ties resolve to the
// lexicographically smallest filename.
func (w *Writer) linkPrevious(folder, title string, num Numbering) string {
	prevMinor := num.Minor - 1
	if prevMinor < 0 {
		return " Invalid note numbering for linking."
	}

	prevPrefix := strings.ToLower(fmt.Sprintf("%s.%d", num.Major, prevMinor))
	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Sprintf(" Error linking note: %v.", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasPrefix(name, prevPrefix) || !strings.HasSuffix(name, vault.NoteExt) {
			continue
		}
		link := fmt.Sprintf("\n\n[[%s]]", vault.StripExt(title))
		if err := w.vault.AppendAbs(filepath.Join(folder, e.Name()), []byte(link)); err != nil {
			return fmt.Sprintf(" Error linking note: %v.", err)
		}
		return fmt.Sprintf(" Link added in %s to %s.", e.Name(), title)
	}
	return " No previous note found to link from."
}

// createFollowup writes a stub note for the followup title and links to it
// from the just-written current note.
func (w *Writer) createFollowup(folder, currentPath, followup string) string {
	title := vault.EnsureExt(stripWikiWrap(followup))

	path := vault.UniquePath(folder, title)
	stub := fmt.Sprintf("# %s\n\n", vault.StripExt(title))
	if err := w.vault.WriteAbs(path, []byte(stub)); err != nil {
		return fmt.Sprintf(" Error creating followup note: %v.", err)
	}

	link := fmt.Sprintf("\n\n[[%s]]", vault.StripExt(title))
	if err := w.vault.AppendAbs(currentPath, []byte(link)); err != nil {
		return fmt.Sprintf(" Error creating followup note: %v.", err)
	}

	return fmt.Sprintf(" Followup note created as %s.", w.vault.Rel(path))
}
