package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}

// NormalizeDir expands and cleans a directory path without touching the filesystem
func NormalizeDir(dir string) string {
	if dir == "" {
		return ""
	}
	if expanded, err := ExpandPath(dir); err == nil {
		dir = expanded
	}
	return filepath.Clean(dir)
}
