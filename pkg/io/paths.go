package io

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NextVersionedPath returns the first path of the form dir/name_N.ext, with
// N counting from 0, that does not exist yet. For base "out/family_tree.gv"
// it returns "out/family_tree_0.gv", then "out/family_tree_1.gv", and so on.
func NextVersionedPath(base string) (string, error) {
	dir := filepath.Dir(base)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(filepath.Base(base), ext)

	for n := 0; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, n, ext))
		_, err := os.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
}
