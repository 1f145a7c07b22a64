package vault

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UniquePath returns a path inside dir for baseName that does not collide
// with an existing file. When the direct path is taken, name_1.ext,
// name_2.ext, … are probed until a free slot is found.
//
// The probe is check-then-write with no locking: two concurrent callers can
// both observe the same path as free. Accepted for a single-user local
// vault.
func UniquePath(dir, baseName string) string {
	direct := filepath.Join(dir, baseName)
	if !exists(direct) {
		return direct
	}

	ext := filepath.Ext(baseName)
	name := strings.TrimSuffix(baseName, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, i, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}
