package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"dcd-complete/src/internal/common"
	dcderrors "dcd-complete/src/internal/errors"
)

// Request is one synchronous helper invocation
type Request struct {
	Binary string
	Args   []string
	Stdin  []byte
}

// Response holds everything the helper produced
type Response struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Transport sends bytes to a helper and returns what it wrote back.
// A non-zero exit is reported in Response, not as an error.
type Transport interface {
	Exchange(ctx context.Context, req Request) (*Response, error)
}

// ExecTransport runs each request as a short-lived child process
type ExecTransport struct {
	// Dir is the working directory of the child; empty means inherit
	Dir string
}

// NewExecTransport creates a transport that spawns processes
func NewExecTransport() *ExecTransport {
	return &ExecTransport{}
}

// Exchange writes req.Stdin to the child, waits for it to exit and collects its output
func (t *ExecTransport) Exchange(ctx context.Context, req Request) (*Response, error) {
	cmd := exec.CommandContext(ctx, req.Binary, req.Args...)
	cmd.Dir = t.Dir
	detach(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(req.Stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	common.BackendLogger.Debug("exec %s %v (%d bytes on stdin)", req.Binary, req.Args, len(req.Stdin))

	err := cmd.Run()
	resp := &Response{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s did not finish: %w", req.Binary, ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return resp, nil
	case errors.As(err, &exitErr):
		resp.ExitCode = exitErr.ExitCode()
		return resp, nil
	default:
		return nil, dcderrors.NewProcessError(req.Binary, "start", err)
	}
}
