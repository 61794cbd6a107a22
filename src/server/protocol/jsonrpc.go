package protocol

import (
	"bufio"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/internal/errors"
)

// JSON-RPC protocol constants
const (
	JSONRPCVersion = "2.0"
)

// JSON-RPC error codes (RFC 7309)
const (
	ParseError     = -32700 // Invalid JSON was received by the server
	InvalidRequest = -32600 // The JSON sent is not a valid Request object
	MethodNotFound = -32601 // The method does not exist / is not available
	InvalidParams  = -32602 // Invalid method parameter(s)
	InternalError  = -32603 // Internal JSON-RPC error
)

// JSONRPCMessage represents a JSON-RPC 2.0 message
type JSONRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// responseMessage always carries a result member, null included, as responses must
type responseMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result"`
}

type errorMessage struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Error   *RPCError   `json:"error"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// MessageHandler receives decoded requests and notifications
type MessageHandler interface {
	HandleRequest(method string, id interface{}, params json.RawMessage) error
	HandleNotification(method string, params json.RawMessage) error
}

// Codec reads and writes Content-Length framed JSON-RPC messages
type Codec struct {
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex
}

// NewCodec creates a codec over a byte stream pair, usually stdin and stdout
func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{
		reader: bufio.NewReaderSize(r, constants.ServeReadBufferSize),
		writer: w,
	}
}

// ReadMessage returns the body of the next framed message. io.EOF means the
// peer closed the stream between messages.
func (c *Codec) ReadMessage() ([]byte, error) {
	contentLength := -1
	sawHeader := false

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && !sawHeader && strings.TrimSpace(line) == "" {
				return nil, io.EOF
			}
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			if !sawHeader {
				continue
			}
			break
		}
		sawHeader = true

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			length, err := strconv.Atoi(lengthStr)
			if err != nil || length < 0 {
				return nil, fmt.Errorf("invalid Content-Length %q", lengthStr)
			}
			if length > constants.MaxMessageSize {
				return nil, fmt.Errorf("Content-Length %d exceeds limit of %d bytes", length, constants.MaxMessageSize)
			}
			contentLength = length
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("message without Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.reader, body); err != nil {
		return nil, err
	}
	return body, nil
}

// WriteMessage sends v with a Content-Length header
func (c *Codec) WriteMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	content := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
	_, err = io.WriteString(c.writer, content)
	return err
}

// WriteResponse sends a successful response for id
func (c *Codec) WriteResponse(id interface{}, result interface{}) error {
	return c.WriteMessage(responseMessage{JSONRPC: JSONRPCVersion, ID: id, Result: result})
}

// WriteError sends an error response for id
func (c *Codec) WriteError(id interface{}, rpcErr *RPCError) error {
	return c.WriteMessage(errorMessage{JSONRPC: JSONRPCVersion, ID: id, Error: rpcErr})
}

// HandleMessage decodes one message body and routes it to handler. Responses
// are logged and dropped since the serve endpoint never issues requests.
func HandleMessage(data []byte, handler MessageHandler) error {
	var msg JSONRPCMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return NewParseError(err.Error())
	}

	if msg.Method != "" {
		if msg.ID != nil {
			common.ServeLogger.Debug("Received request: method=%s, id=%v", msg.Method, msg.ID)
			return handler.HandleRequest(msg.Method, msg.ID, msg.Params)
		}
		common.ServeLogger.Debug("Received notification: method=%s", msg.Method)
		return handler.HandleNotification(msg.Method, msg.Params)
	}

	if msg.ID != nil {
		common.ServeLogger.Debug("Ignoring response with id=%v", msg.ID)
		return nil
	}

	common.ServeLogger.Warn("Received malformed message (no ID and no method)")
	return NewInvalidRequestError("no id and no method")
}

// Helper functions for creating error responses

// NewRPCError creates a new RPCError with the specified code and message
func NewRPCError(code int, message string, data interface{}) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewParseError creates a parse error (-32700)
func NewParseError(data interface{}) *RPCError {
	return NewRPCError(ParseError, "Parse error", data)
}

// NewInvalidRequestError creates an invalid request error (-32600)
func NewInvalidRequestError(data interface{}) *RPCError {
	return NewRPCError(InvalidRequest, "Invalid Request", data)
}

// NewMethodNotFoundError creates a method not found error (-32601)
func NewMethodNotFoundError(method string) *RPCError {
	return NewRPCError(MethodNotFound, "Method not found", map[string]string{"method": method})
}

// NewInvalidParamsError creates an invalid params error (-32602)
func NewInvalidParamsError(message string) *RPCError {
	return NewRPCError(InvalidParams, "Invalid params", message)
}

// NewInternalError creates an internal error (-32603)
func NewInternalError(data interface{}) *RPCError {
	return NewRPCError(InternalError, "Internal error", data)
}

// NewUnifiedRPCError maps a completion failure to an RPCError whose data names
// the error category.
func NewUnifiedRPCError(err error) *RPCError {
	if err == nil {
		return nil
	}

	data := map[string]string{
		"category": errors.Category(err),
		"detail":   err.Error(),
	}

	var valErr *errors.ValidationError
	if stderrors.As(err, &valErr) {
		data["parameter"] = valErr.Parameter
		return NewRPCError(InvalidParams, valErr.Error(), data)
	}

	return NewRPCError(InternalError, err.Error(), data)
}
