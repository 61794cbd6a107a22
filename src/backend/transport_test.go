package backend

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcd-complete/src/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func TestExecTransportEchoesStdin(t *testing.T) {
	skipOnWindows(t)
	tr := NewExecTransport()

	resp, err := tr.Exchange(context.Background(), Request{
		Binary: "cat",
		Stdin:  []byte("identifiers\nfoo\tv\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "identifiers\nfoo\tv\n", string(resp.Stdout))
	assert.Empty(t, resp.Stderr)
	assert.Equal(t, 0, resp.ExitCode)
}

func TestExecTransportCollectsStderrAndExitCode(t *testing.T) {
	skipOnWindows(t)
	tr := NewExecTransport()

	resp, err := tr.Exchange(context.Background(), Request{
		Binary: "sh",
		Args:   []string{"-c", "echo out; echo oops >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(resp.Stdout))
	assert.Equal(t, "oops\n", string(resp.Stderr))
	assert.Equal(t, 3, resp.ExitCode)
}

func TestExecTransportMissingBinary(t *testing.T) {
	tr := NewExecTransport()

	_, err := tr.Exchange(context.Background(), Request{Binary: "dcd-client-that-does-not-exist-12345"})
	require.Error(t, err)
	assert.True(t, errors.IsProcessError(err))
}

func TestExecTransportDeadline(t *testing.T) {
	skipOnWindows(t)
	tr := NewExecTransport()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := tr.Exchange(ctx, Request{Binary: "sleep", Args: []string{"5"}})
	require.Error(t, err)
	assert.True(t, errors.IsTimeoutError(err))
}
