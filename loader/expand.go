package loader

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// ErrNoMatches is returned by Expand when the patterns match no files.
var ErrNoMatches = errors.New("no files matched")

// Expand expands each pattern independently, in the order given, and returns
// the union of the matched files. Patterns support "**". Duplicates keep
// their first position.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "expand %q", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			key := filepath.Clean(m)
			if seen[key] {
				continue
			}
			seen[key] = true
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoMatches, "patterns [%s]", strings.Join(patterns, ", "))
	}
	return files, nil
}

// SearchDir returns the deepest directory containing every file.
func SearchDir(files []string) (string, error) {
	var dir string
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return "", errors.Wrapf(err, "resolve %s", f)
		}
		d := filepath.Dir(abs)
		if i == 0 {
			dir = d
			continue
		}
		for !within(dir, d) {
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return dir, nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
