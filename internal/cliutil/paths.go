// Package cliutil holds argument handling shared by the command line tools.
package cliutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultOutDirName is created next to the executable when no output
// folder is given.
const DefaultOutDirName = "out"

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~`+string(filepath.Separator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// ResolvePath expands "~" and makes path absolute.
func ResolvePath(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

// ResolveInputDir resolves path and requires it to be an existing directory.
func ResolveInputDir(path string) (string, error) {
	abs, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// ResolveOutDir resolves path, or returns the default output folder beside
// the running executable when path is empty. Under "go run" the executable
// lives in a temporary build directory, so pass an explicit folder there.
func ResolveOutDir(path string) (string, error) {
	if path != "" {
		return ResolvePath(path)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultOutDirName), nil
}
