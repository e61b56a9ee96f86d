// Package relpath derives directory-relative links between two files of the
// same output tree without knowing where the tree is mounted.
package relpath

import (
	"path/filepath"
	"strings"
)

// Resolve returns the link from the file at from to target.
//
// Both paths are split on "/" and compared position by position: a segment
// is shared when the other path holds the same value at the same index.
// The number of ".." climbs is the count of unshared segments of from minus
// one (the file itself), and the unshared segments of target follow.
// Inputs are expected to be clean absolute paths.
func Resolve(target, from string) string {
	targetSegs := strings.Split(filepath.ToSlash(target), "/")
	fromSegs := strings.Split(filepath.ToSlash(from), "/")

	fromRest := unshared(fromSegs, targetSegs)
	targetRest := unshared(targetSegs, fromSegs)

	if len(fromRest) == 0 {
		// Same file: link to itself from its own directory.
		return "./" + targetSegs[len(targetSegs)-1]
	}

	return strings.Join(append([]string{climb(len(fromRest) - 1)}, targetRest...), "/")
}

func unshared(segs, other []string) []string {
	out := make([]string, 0, len(segs))
	for i, s := range segs {
		if i < len(other) && other[i] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

func climb(n int) string {
	if n <= 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", n), "/")
}
