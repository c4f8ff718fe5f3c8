package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Safe makes text usable as a file name: letters, digits, spaces,
// underscores and dashes pass through, everything else becomes an
// underscore.
func Safe(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.TrimSpace(b.String())
}

// ListStems returns the extension-less base names of all regular files
// under dir.
func ListStems(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		out = append(out, strings.TrimSuffix(name, filepath.Ext(name)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
