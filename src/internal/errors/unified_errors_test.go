package errors

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("dcd-client", "")
	assert.Equal(t, "dcd-client binary not found", err.Error())

	withPath := NewConfigurationError("dcd-client", "/opt/dcd/dcd-client")
	assert.Contains(t, withPath.Error(), `"/opt/dcd/dcd-client"`)
	assert.True(t, IsConfigurationError(withPath))
}

func TestBackendError(t *testing.T) {
	args := []string{"dcd-client", "-c12"}
	err := NewBackendError(args, []byte("  Server not running\n"))

	assert.Equal(t, "backend error running dcd-client -c12: Server not running", err.Error())

	args[0] = "mutated"
	assert.Equal(t, "dcd-client", err.Args[0], "args should be copied")
}

func TestMalformedRecordError(t *testing.T) {
	err := NewMalformedRecordError("foo", "expected name<TAB>kind")
	assert.Equal(t, `malformed record "foo": expected name<TAB>kind`, err.Error())
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("line", "line 9 is outside the buffer")

	if err.Parameter != "line" {
		t.Errorf("Expected parameter 'line', got %s", err.Parameter)
	}

	expectedError := "validation error for parameter 'line': line 9 is outside the buffer"
	if err.Error() != expectedError {
		t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
	}
}

func TestProcessErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("exec: not found")
	err := NewProcessError("dcd-client", "start", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.Contains(err.Error(), "(start)"))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := WrapWithContext("completion request", NewBackendError([]string{"x"}, []byte("boom")))

	assert.True(t, IsBackendError(wrapped))
	assert.False(t, IsMalformedRecordError(wrapped))
	assert.Nil(t, WrapWithContext("noop", nil))
}

func TestCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"configuration", NewConfigurationError("dcd-client", ""), "configuration"},
		{"backend", NewBackendError(nil, nil), "backend"},
		{"malformed", fmt.Errorf("parse: %w", NewMalformedRecordError("x", "y")), "malformed"},
		{"validation", NewValidationError("col", "negative"), "validation"},
		{"timeout", fmt.Errorf("run: %w", context.DeadlineExceeded), "timeout"},
		{"process", NewProcessError("dcd-server", "stop", nil), "process"},
		{"general", fmt.Errorf("something else"), "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.err))
		})
	}
}
