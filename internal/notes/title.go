// Package notes persists generated notes into the vault and maintains the
// numeric-prefix links between them.
package notes

import (
	"regexp"
	"strings"
)

// numberingRe matches a leading <major>.<minor> numeric prefix in a note
// title, e.g. "8.2 Selection Sort.md".
var numberingRe = regexp.MustCompile(`^(\d+)\.(\d+)`)

// Numbering is the parsed numeric prefix of a note title.
type Numbering struct {
	Major string
	Minor int
}

// ParseNumbering extracts the numeric prefix from a title. ok is false when
// the title carries no prefix.
func ParseNumbering(title string) (Numbering, bool) {
	m := numberingRe.FindStringSubmatch(title)
	if m == nil {
		return Numbering{}, false
	}
	minor := 0
	for _, r := range m[2] {
		minor = minor*10 + int(r-'0')
	}
	return Numbering{Major: m[1], Minor: minor}, true
}

// stripWikiWrap removes one layer of enclosing [[...]] from a followup
// title, as interpreters sometimes echo the link syntax back.
func stripWikiWrap(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[[") && strings.HasSuffix(s, "]]") {
		s = strings.TrimSpace(s[2 : len(s)-2])
	}
	return s
}
