package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Extension is the suffix collected when a directory is walked.
const Extension = ".abc"

// CollectFiles expands paths: files are taken as given, directories are
// walked recursively for *.abc files, skipping hidden directories. The
// result is deduplicated and sorted.
func CollectFiles(ctx context.Context, paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			// отсутствующий файл попадёт в отчёт как диагностика загрузки
			add(root)
			continue
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), Extension) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("driver: walk %s: %w", root, err)
		}
	}
	slices.Sort(files)
	return files, nil
}
