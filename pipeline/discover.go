package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

const inputPattern = "*.json"

// DiscoverInputs lists the *.json files directly inside dir, in lexicographic
// filename order. Subdirectories are not searched and directories whose name
// happens to end in .json are ignored.
func DiscoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		matched, err := filepath.Match(inputPattern, entry.Name())
		if err != nil || !matched {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isRegularFile(path, entry) {
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func isRegularFile(path string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
