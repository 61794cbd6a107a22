package editor

import (
	"fmt"
	"net/url"

	"go.lsp.dev/uri"
)

// PathFromURI converts a file:// document URI to a path. Empty and non-file
// URIs (e.g. "untitled:") map to the empty path of an unsaved buffer.
func PathFromURI(u string) (string, error) {
	if u == "" {
		return "", nil
	}
	parsed, err := url.ParseRequestURI(u)
	if err != nil {
		if loose, perr := url.Parse(u); perr == nil && loose.Scheme != "" && loose.Scheme != uri.FileScheme {
			return "", nil
		}
		return "", fmt.Errorf("invalid document URI %q: %w", u, err)
	}
	if parsed.Scheme != uri.FileScheme {
		return "", nil
	}
	// Filename accepts exactly what ParseRequestURI accepts with a file scheme
	return uri.URI(u).Filename(), nil
}

// URIForPath returns the document URI of a buffer path, empty for unsaved buffers
func URIForPath(path string) uri.URI {
	if path == "" {
		return ""
	}
	return uri.File(path)
}
