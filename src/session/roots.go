package session

import (
	"path/filepath"
	"strings"

	"dcd-complete/src/internal/constants"
)

// ImportRoot returns the directory to add to the import path for a buffer.
// It is the buffer's directory cut just after the first "src" or "source"
// component, so that module names resolve from the package root.
func ImportRoot(bufferPath string) string {
	if bufferPath == "" {
		return ""
	}
	dir := filepath.Dir(bufferPath)
	sep := string(filepath.Separator)
	probe := dir + sep

	for _, marker := range constants.ImportRootMarkers {
		needle := sep + marker + sep
		if i := strings.Index(probe, needle); i >= 0 {
			return probe[:i+len(needle)-1]
		}
	}
	return dir
}
