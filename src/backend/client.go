package backend

import (
	"context"
	"strconv"

	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/internal/errors"
)

// Query is the input of one completion request
type Query struct {
	Offset     int
	ImportDirs []string
	// FilePath is passed positionally only when the client is configured to
	// read the file itself; otherwise Source is the buffer on stdin.
	FilePath string
	Source   []byte
}

// Client builds dcd-client invocations and checks their output
type Client struct {
	transport Transport
	binary    string
	extraArgs []string
}

// NewClient creates a client for the resolved dcd-client binary
func NewClient(transport Transport, binary string, extraArgs []string) *Client {
	return &Client{
		transport: transport,
		binary:    binary,
		extraArgs: append([]string(nil), extraArgs...),
	}
}

// Args returns the argument list for q, without the binary
func (c *Client) Args(q Query) []string {
	args := make([]string, 0, 2+len(q.ImportDirs)+len(c.extraArgs))
	args = append(args, constants.CursorFlagPrefix+strconv.Itoa(q.Offset))
	for _, dir := range q.ImportDirs {
		args = append(args, constants.ImportFlagPrefix+dir)
	}
	args = append(args, c.extraArgs...)
	if q.FilePath != "" {
		args = append(args, q.FilePath)
	}
	return args
}

// Complete runs the client and returns its stdout. Anything on stderr fails the
// whole request with a BackendError.
func (c *Client) Complete(ctx context.Context, q Query) ([]byte, error) {
	args := c.Args(q)
	resp, err := c.transport.Exchange(ctx, Request{
		Binary: c.binary,
		Args:   args,
		Stdin:  q.Source,
	})
	if err != nil {
		return nil, errors.WrapWithContext("completion request", err)
	}

	if len(resp.Stderr) > 0 {
		common.BackendLogger.Debug("client stderr: %s", common.SanitizeErrorForLogging(resp.Stderr))
		return nil, errors.NewBackendError(append([]string{c.binary}, args...), resp.Stderr)
	}
	if resp.ExitCode != 0 {
		common.BackendLogger.Warn("%s exited with status %d", c.binary, resp.ExitCode)
	}
	return resp.Stdout, nil
}
