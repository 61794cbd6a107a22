// Package server implements the stdio endpoint an editor plugin keeps open for
// an editing session.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	lsp "go.lsp.dev/protocol"

	"dcd-complete/src/backend"
	"dcd-complete/src/completion"
	"dcd-complete/src/config"
	"dcd-complete/src/editor"
	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/internal/version"
	"dcd-complete/src/server/protocol"
	"dcd-complete/src/session"
)

// Methods served over stdio
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "initialized"
	MethodComplete    = "dcd/complete"
	MethodShutdown    = "shutdown"
	MethodExit        = "exit"
)

// CompleteParams are the params of dcd/complete. Position is 0-based in
// characters, as in LSP.
type CompleteParams struct {
	TextDocument lsp.TextDocumentIdentifier `json:"textDocument"`
	Position     lsp.Position               `json:"position"`
	Text         string                     `json:"text"`
	Encoding     string                     `json:"encoding,omitempty"`
}

// CompleteResult is the result of dcd/complete
type CompleteResult struct {
	// Position is the character column where the completed word starts
	Position int                `json:"position"`
	Mode     string             `json:"mode"`
	List     lsp.CompletionList `json:"list"`
}

// InitializeResult is the result of initialize
type InitializeResult struct {
	ServerInfo lsp.ServerInfo `json:"serverInfo"`
	// DCDServer reports whether dcd-server was started by this session
	DCDServer bool `json:"dcdServer"`
}

type dcdServer interface {
	Start() (*backend.ServerProcess, error)
	Stop() error
}

// CompletionServer answers completion requests for one editing session. Requests
// are handled one at a time in arrival order.
type CompletionServer struct {
	cfg    *config.Config
	source *session.Source
	codec  *protocol.Codec

	server    dcdServer
	newServer func(binary string, importPaths []string) dcdServer
	resolve   func(configured, name string) (string, error)

	ctx          context.Context
	cancel       context.CancelFunc
	shuttingDown bool
	exited       bool
}

// NewCompletionServer creates a server whose backend processes run through transport
func NewCompletionServer(cfg *config.Config, transport backend.Transport) *CompletionServer {
	if cfg == nil {
		cfg = config.GetDefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &CompletionServer{
		cfg:    cfg,
		source: session.NewSource(cfg, transport, nil),
		newServer: func(binary string, importPaths []string) dcdServer {
			return backend.NewServerManager(binary, importPaths)
		},
		resolve: common.ResolveBinary,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run serves Content-Length framed JSON-RPC on input and output until the
// client sends exit or closes input.
func (s *CompletionServer) Run(input io.Reader, output io.Writer) error {
	defer s.cancel()
	defer s.Stop()

	s.codec = protocol.NewCodec(input, output)
	common.ServeLogger.Debug("serving on stdio")

	for !s.exited {
		body, err := s.codec.ReadMessage()
		if err == io.EOF {
			common.ServeLogger.Debug("input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		if err := protocol.HandleMessage(body, s); err != nil {
			rpcErr, ok := err.(*protocol.RPCError)
			if !ok {
				return err
			}
			if werr := s.codec.WriteError(nil, rpcErr); werr != nil {
				return werr
			}
		}
	}
	return nil
}

// Stop stops a dcd-server this session started
func (s *CompletionServer) Stop() {
	if s.server == nil {
		return
	}
	if err := s.server.Stop(); err != nil {
		common.ServeLogger.Warn("Failed to stop dcd-server: %v", err)
	}
	s.server = nil
}

// HandleRequest answers one request. Only write failures are returned.
func (s *CompletionServer) HandleRequest(method string, id interface{}, params json.RawMessage) error {
	if s.shuttingDown && method != MethodShutdown {
		return s.codec.WriteError(id, protocol.NewInvalidRequestError("server is shutting down"))
	}

	switch method {
	case MethodInitialize:
		return s.codec.WriteResponse(id, s.handleInitialize())
	case MethodComplete:
		result, rpcErr := s.handleComplete(params)
		if rpcErr != nil {
			return s.codec.WriteError(id, rpcErr)
		}
		return s.codec.WriteResponse(id, result)
	case MethodShutdown:
		s.shuttingDown = true
		s.Stop()
		return s.codec.WriteResponse(id, nil)
	default:
		return s.codec.WriteError(id, protocol.NewMethodNotFoundError(method))
	}
}

// HandleNotification handles exit; other notifications are ignored
func (s *CompletionServer) HandleNotification(method string, params json.RawMessage) error {
	switch method {
	case MethodExit:
		s.exited = true
	case MethodInitialized:
	default:
		common.ServeLogger.Debug("Ignoring notification %s", method)
	}
	return nil
}

func (s *CompletionServer) handleInitialize() *InitializeResult {
	result := &InitializeResult{
		ServerInfo: lsp.ServerInfo{Name: "dcd-complete", Version: version.GetVersion()},
	}
	if s.cfg.ServerAutostart && s.server == nil {
		result.DCDServer = s.startServer()
	}
	return result
}

// startServer failures are logged, not returned: a dcd-server started outside
// this session still serves completions.
func (s *CompletionServer) startServer() bool {
	bin, err := s.resolve(s.cfg.ServerBinary, constants.ServerBinaryName)
	if err != nil {
		common.ServeLogger.Warn("Not starting dcd-server: %v", err)
		return false
	}

	srv := s.newServer(bin, s.cfg.NormalizedImportPaths())
	if _, err := srv.Start(); err != nil {
		common.ServeLogger.Warn("Failed to start dcd-server: %v", err)
		return false
	}
	s.server = srv
	common.ServeLogger.Info("Started %s", bin)
	return true
}

func (s *CompletionServer) handleComplete(raw json.RawMessage) (*CompleteResult, *protocol.RPCError) {
	var params CompleteParams
	if len(raw) == 0 {
		return nil, protocol.NewInvalidParamsError("missing params")
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, protocol.NewInvalidParamsError(err.Error())
	}

	path, err := editor.PathFromURI(string(params.TextDocument.URI))
	if err != nil {
		return nil, protocol.NewInvalidParamsError(err.Error())
	}

	buf, err := editor.NewBuffer(path, params.Text, int(params.Position.Line)+1, int(params.Position.Character), params.Encoding)
	if err != nil {
		return nil, protocol.NewUnifiedRPCError(err)
	}

	res, err := s.source.Complete(s.ctx, buf)
	if err != nil {
		common.ServeLogger.Debug("completion failed: %s", common.SanitizeErrorForLogging(err))
		return nil, protocol.NewUnifiedRPCError(err)
	}

	return &CompleteResult{
		Position: res.Position,
		Mode:     string(res.Mode),
		List:     completion.ToCompletionList(res.Candidates),
	}, nil
}
