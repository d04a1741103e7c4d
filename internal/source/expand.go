package source

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches the step logs inside an unpacked Actions log archive
const DefaultPattern = "**/*.txt"

// Expand resolves a path argument into the log files to read. A file is
// returned as is; a directory is searched with a doublestar pattern and the
// matches are ordered the way the runner numbers steps, so "2_build.txt"
// sorts before "10_test.txt".
func Expand(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s in %s: %w", pattern, root, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files matching %q in %s", pattern, root)
	}

	slices.SortFunc(matches, compareStepPaths)

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(root, filepath.FromSlash(m))
	}
	return paths, nil
}

// compareStepPaths orders slash-separated paths element by element, using
// the numeric prefix of each element when both have one
func compareStepPaths(a, b string) int {
	as, bs := strings.Split(a, "/"), strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareStepNames(as[i], bs[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(as), len(bs))
}

func compareStepNames(a, b string) int {
	an, aok := stepNumber(a)
	bn, bok := stepNumber(b)
	if aok && bok && an != bn {
		return cmp.Compare(an, bn)
	}
	return strings.Compare(a, b)
}

// stepNumber parses the leading "<n>_" of a runner step file name
func stepNumber(name string) (int, bool) {
	prefix, _, found := strings.Cut(name, "_")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return n, true
}
