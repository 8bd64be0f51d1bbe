package source

import (
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\xEF\xBB\xBF"

func removeBOM(content string) (string, bool) {
	if strings.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], true
	}
	return content, false
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// RelativePath returns target relative to base. Paths that escape base are
// returned absolute so diagnostics never show long ../.. chains.
func RelativePath(target, base string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return filepath.ToSlash(absTarget), nil
	}
	return filepath.ToSlash(rel), nil
}
