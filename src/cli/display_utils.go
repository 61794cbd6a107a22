package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"dcd-complete/src/completion"
	"dcd-complete/src/editor"
	"dcd-complete/src/session"
)

type jsonResult struct {
	Position   int                    `json:"position"`
	Offset     int                    `json:"offset"`
	Mode       string                 `json:"mode"`
	Candidates []completion.Candidate `json:"candidates"`
}

type lspResult struct {
	URI      uri.URI                 `json:"uri,omitempty"`
	Position int                     `json:"position"`
	List     protocol.CompletionList `json:"list"`
}

func writeResult(out io.Writer, format, path string, res *session.Result) error {
	switch format {
	case FormatJSON:
		return writeJSON(out, jsonResult{
			Position:   res.Position,
			Offset:     res.Offset,
			Mode:       string(res.Mode),
			Candidates: res.Candidates,
		})
	case FormatLSP:
		return writeJSON(out, lspResult{
			URI:      editor.URIForPath(path),
			Position: res.Position,
			List:     completion.ToCompletionList(res.Candidates),
		})
	default:
		return writeText(out, res)
	}
}

// writeText prints one display label per line; calltips also show the
// parameter names they insert.
func writeText(out io.Writer, res *session.Result) error {
	for _, c := range res.Candidates {
		var err error
		if res.Mode == completion.ModeCalltips && c.InsertText != "" {
			_, err = fmt.Fprintf(out, "%s\t%s\n", c.DisplayLabel, c.InsertText)
		} else {
			_, err = fmt.Fprintln(out, c.DisplayLabel)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
