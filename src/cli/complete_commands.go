package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"dcd-complete/src/backend"
	"dcd-complete/src/config"
	"dcd-complete/src/editor"
	"dcd-complete/src/internal/common"
	"dcd-complete/src/session"
)

// CompleteRequest holds the complete command's inputs
type CompleteRequest struct {
	File     string
	Stdin    bool
	Path     string
	Line     int
	Column   int
	Encoding string
	Format   string
}

// RunComplete runs one completion request and writes the result to out
func RunComplete(ctx context.Context, cfg *config.Config, req CompleteRequest, in io.Reader, out io.Writer) error {
	return runComplete(ctx, session.NewSource(cfg, backend.NewExecTransport(), nil), req, in, out)
}

func runComplete(ctx context.Context, src *session.Source, req CompleteRequest, in io.Reader, out io.Writer) error {
	switch req.Format {
	case FormatText, FormatJSON, FormatLSP:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", req.Format, FormatText, FormatJSON, FormatLSP)
	}

	text, path, err := readBuffer(req, in)
	if err != nil {
		return err
	}

	buf, err := editor.NewBuffer(path, text, req.Line, req.Column, req.Encoding)
	if err != nil {
		return err
	}

	res, err := src.Complete(ctx, buf)
	if err != nil {
		return err
	}
	return writeResult(out, req.Format, path, res)
}

// readBuffer returns the buffer text and the absolute path it belongs to
func readBuffer(req CompleteRequest, in io.Reader) (string, string, error) {
	var data []byte
	var err error
	path := req.Path

	switch {
	case req.File != "":
		data, err = common.SafeReadFile(req.File)
		if path == "" {
			path = req.File
		}
	case req.Stdin:
		data, err = io.ReadAll(in)
		if err != nil {
			err = fmt.Errorf("failed to read stdin: %w", err)
		}
	default:
		return "", "", fmt.Errorf("either --%s or --%s is required", FlagFile, FlagStdin)
	}
	if err != nil {
		return "", "", err
	}

	if path != "" {
		if abs, absErr := filepath.Abs(path); absErr == nil {
			path = abs
		}
	}

	text, err := editor.DecodeText(data, req.Encoding)
	if err != nil {
		return "", "", err
	}
	return text, path, nil
}
