package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dcd-complete/src/backend"
	"dcd-complete/src/config"
	"dcd-complete/src/server/protocol"
)

type stubTransport struct {
	requests []backend.Request
	stdout   string
	stderr   string
}

func (s *stubTransport) Exchange(ctx context.Context, req backend.Request) (*backend.Response, error) {
	s.requests = append(s.requests, req)
	return &backend.Response{Stdout: []byte(s.stdout), Stderr: []byte(s.stderr)}, nil
}

type stubServer struct {
	startErr error
	started  int
	stopped  int
}

func (s *stubServer) Start() (*backend.ServerProcess, error) {
	s.started++
	return nil, s.startErr
}

func (s *stubServer) Stop() error {
	s.stopped++
	return nil
}

type reply struct {
	ID     interface{}        `json:"id"`
	Result json.RawMessage    `json:"result"`
	Error  *protocol.RPCError `json:"error"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	client := filepath.Join(t.TempDir(), "dcd-client")
	require.NoError(t, os.WriteFile(client, []byte("#!/bin/sh\n"), 0755))

	cfg := config.GetDefaultConfig()
	cfg.ClientBinary = client
	cfg.DubImports = false
	return cfg
}

func request(id int, method string, params interface{}) string {
	msg := map[string]interface{}{"jsonrpc": "2.0", "id": id, "method": method}
	if params != nil {
		msg["params"] = params
	}
	data, _ := json.Marshal(msg)
	return "Content-Length: " + strconv.Itoa(len(data)) + "\r\n\r\n" + string(data)
}

func notification(method string) string {
	data := `{"jsonrpc":"2.0","method":"` + method + `"}`
	return "Content-Length: " + strconv.Itoa(len(data)) + "\r\n\r\n" + data
}

func run(t *testing.T, s *CompletionServer, input string) []reply {
	t.Helper()
	out := &bytes.Buffer{}
	require.NoError(t, s.Run(bytes.NewBufferString(input), out))

	codec := protocol.NewCodec(out, io.Discard)
	var replies []reply
	for {
		body, err := codec.ReadMessage()
		if err == io.EOF {
			return replies
		}
		require.NoError(t, err)
		var r reply
		require.NoError(t, json.Unmarshal(body, &r))
		replies = append(replies, r)
	}
}

func completeParams(uri, text string, line, character int) map[string]interface{} {
	return map[string]interface{}{
		"textDocument": map[string]string{"uri": uri},
		"position":     map[string]int{"line": line, "character": character},
		"text":         text,
	}
}

func TestCompletionServerSession(t *testing.T) {
	tr := &stubTransport{stdout: "identifiers\nwriteln\tf\nFile\ts\n"}
	s := NewCompletionServer(testConfig(t), tr)

	replies := run(t, s, request(1, MethodInitialize, map[string]interface{}{})+
		notification(MethodInitialized)+
		request(2, MethodComplete, completeParams("file:///proj/source/app.d", "void main() {\n  wr", 1, 4))+
		request(3, MethodComplete, completeParams("file:///proj/source/other.d", "x", 0, 1))+
		request(4, MethodShutdown, nil)+
		notification(MethodExit))

	require.Len(t, replies, 4)

	var init InitializeResult
	require.NoError(t, json.Unmarshal(replies[0].Result, &init))
	assert.Equal(t, "dcd-complete", init.ServerInfo.Name)
	assert.False(t, init.DCDServer)

	var res CompleteResult
	require.NoError(t, json.Unmarshal(replies[1].Result, &res))
	assert.Equal(t, 2, res.Position)
	assert.Equal(t, "identifiers", res.Mode)
	require.Len(t, res.List.Items, 2)
	assert.Equal(t, "writeln", res.List.Items[0].Label)
	assert.Equal(t, "File", res.List.Items[1].Label)

	require.Len(t, tr.requests, 2)
	assert.Equal(t, []string{"-c18", "-I/proj/source"}, tr.requests[0].Args)
	assert.Equal(t, []string{"-c1"}, tr.requests[1].Args, "import root is sent once per session")
	assert.Equal(t, "void main() {\n  wr", string(tr.requests[0].Stdin))

	assert.Equal(t, "null", string(replies[3].Result))
	assert.Nil(t, replies[3].Error)
}

func TestCompletionServerErrors(t *testing.T) {
	tr := &stubTransport{stdout: "identifiers\nfoo\tf\n", stderr: "Server not running"}
	s := NewCompletionServer(testConfig(t), tr)

	replies := run(t, s, request(1, "textDocument/hover", nil)+
		request(2, MethodComplete, nil)+
		request(3, MethodComplete, completeParams("", "abc", 5, 0))+
		request(4, MethodComplete, completeParams("untitled:Untitled-1", "abc", 0, 3)))

	require.Len(t, replies, 4)
	assert.Equal(t, protocol.MethodNotFound, replies[0].Error.Code)
	assert.Equal(t, protocol.InvalidParams, replies[1].Error.Code)

	assert.Equal(t, protocol.InvalidParams, replies[2].Error.Code)
	assert.Equal(t, "validation", replies[2].Error.Data.(map[string]interface{})["category"])

	assert.Equal(t, protocol.InternalError, replies[3].Error.Code)
	assert.Equal(t, "backend", replies[3].Error.Data.(map[string]interface{})["category"])
}

func TestCompletionServerMissingClient(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.GetDefaultConfig()
	cfg.DubImports = false
	cfg.ClientBinary = "/nonexistent/dcd-client"
	s := NewCompletionServer(cfg, &stubTransport{})

	replies := run(t, s, request(1, MethodComplete, completeParams("", "a", 0, 1)))

	require.Len(t, replies, 1)
	assert.Equal(t, protocol.InternalError, replies[0].Error.Code)
	assert.Equal(t, "configuration", replies[0].Error.Data.(map[string]interface{})["category"])
}

func TestCompletionServerAutostart(t *testing.T) {
	cfg := testConfig(t)
	cfg.ServerAutostart = true
	cfg.ImportPaths = []string{"/opt/phobos"}

	srv := &stubServer{}
	var gotBinary string
	var gotImports []string

	s := NewCompletionServer(cfg, &stubTransport{})
	s.resolve = func(configured, name string) (string, error) { return "/usr/bin/" + name, nil }
	s.newServer = func(binary string, importPaths []string) dcdServer {
		gotBinary, gotImports = binary, importPaths
		return srv
	}

	replies := run(t, s, request(1, MethodInitialize, nil)+request(2, MethodShutdown, nil)+notification(MethodExit))

	require.Len(t, replies, 2)
	var init InitializeResult
	require.NoError(t, json.Unmarshal(replies[0].Result, &init))
	assert.True(t, init.DCDServer)
	assert.Equal(t, "/usr/bin/dcd-server", gotBinary)
	assert.Equal(t, []string{"/opt/phobos"}, gotImports)
	assert.Equal(t, 1, srv.started)
	assert.Equal(t, 1, srv.stopped)
}

func TestCompletionServerAutostartFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.ServerAutostart = true

	srv := &stubServer{startErr: errors.New("address in use")}
	s := NewCompletionServer(cfg, &stubTransport{})
	s.resolve = func(configured, name string) (string, error) { return name, nil }
	s.newServer = func(string, []string) dcdServer { return srv }

	replies := run(t, s, request(1, MethodInitialize, nil))

	require.Len(t, replies, 1)
	assert.Nil(t, replies[0].Error)
	assert.Equal(t, 0, srv.stopped, "a server that failed to start is not stopped")
}

func TestCompletionServerStopsServerOnInputClose(t *testing.T) {
	cfg := testConfig(t)
	cfg.ServerAutostart = true

	srv := &stubServer{}
	s := NewCompletionServer(cfg, &stubTransport{})
	s.resolve = func(configured, name string) (string, error) { return name, nil }
	s.newServer = func(string, []string) dcdServer { return srv }

	run(t, s, request(1, MethodInitialize, nil))
	assert.Equal(t, 1, srv.stopped)
}

func TestCompletionServerRejectsAfterShutdown(t *testing.T) {
	s := NewCompletionServer(testConfig(t), &stubTransport{})

	replies := run(t, s, request(1, MethodShutdown, nil)+request(2, MethodComplete, completeParams("", "a", 0, 1)))

	require.Len(t, replies, 2)
	assert.Equal(t, protocol.InvalidRequest, replies[1].Error.Code)
}

func TestCompletionServerMalformedMessage(t *testing.T) {
	s := NewCompletionServer(testConfig(t), &stubTransport{})
	body := `{oops`
	input := "Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body

	replies := run(t, s, input)

	require.Len(t, replies, 1)
	assert.Equal(t, protocol.ParseError, replies[0].Error.Code)
	assert.Nil(t, replies[0].ID)
}

func TestCompletionServerOversizedFrame(t *testing.T) {
	s := NewCompletionServer(testConfig(t), &stubTransport{})

	err := s.Run(bytes.NewBufferString("Content-Length: 9000000000000000000\r\n\r\n{}"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}
