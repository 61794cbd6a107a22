package common

import (
	"os"
	"os/exec"
	"runtime"

	"dcd-complete/src/internal/errors"
)

// IsExecutable reports whether path is a regular file the current user may run
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// ResolveBinary returns configured when it names an existing file, otherwise
// the first executable called name on PATH.
func ResolveBinary(configured, name string) (string, error) {
	if configured != "" {
		if expanded, err := ExpandPath(configured); err == nil && FileExists(expanded) {
			if !IsExecutable(expanded) {
				BackendLogger.Warn("%s is not executable", expanded)
			}
			return expanded, nil
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", errors.NewConfigurationError(name, configured)
}
