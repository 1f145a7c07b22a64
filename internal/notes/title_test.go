package notes

import "testing"

func TestParseNumbering(t *testing.T) {
	cases := []struct {
		in    string
		major string
		minor int
		ok    bool
	}{
		{"8.2 Selection Sort.md", "8", 2, true},
		{"8.10 Heapsort.md", "8", 10, true},
		{"12.0 Intro.md", "12", 0, true},
		{"Plain Title.md", "", 0, false},
		{"v8.2 release notes.md", "", 0, false},
		{"8. Incomplete.md", "", 0, false},
	}
	for _, c := range cases {
		num, ok := ParseNumbering(c.in)
		if ok != c.ok {
			t.Errorf("ParseNumbering(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if !ok {
			continue
		}
		if num.Major != c.major || num.Minor != c.minor {
			t.Errorf("ParseNumbering(%q) = %+v, want {%s %d}", c.in, num, c.major, c.minor)
		}
	}
}

func TestStripWikiWrap(t *testing.T) {
	cases := []struct{ in, want string }{
		{"[[Next Steps]]", "Next Steps"},
		{"Next Steps", "Next Steps"},
		{"  [[ Spaced ]]  ", "Spaced"},
		{"[[unclosed", "[[unclosed"},
	}
	for _, c := range cases {
		if got := stripWikiWrap(c.in); got != c.want {
			t.Errorf("stripWikiWrap(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
