package constants

import "time"

// Binary names searched on PATH when no explicit path is configured
const (
	ClientBinaryName = "dcd-client"
	ServerBinaryName = "dcd-server"
	DubBinaryName    = "dub"
)

// Client flag prefixes
const (
	CursorFlagPrefix = "-c"
	ImportFlagPrefix = "-I"
)

// Response mode tags written on the first line of client output
const (
	ModeTagIdentifiers = "identifiers"
	ModeTagCalltips    = "calltips"
)

// Source directory components that mark an import root
var ImportRootMarkers = []string{"src", "source"}

// Timeouts
const (
	DefaultRequestTimeout  = 10 * time.Second
	DubListTimeout         = 5 * time.Second
	ProcessShutdownTimeout = 5 * time.Second
)

// Environment overrides for binary locations
const (
	EnvClientBinary = "DCD_CLIENT_BINARY"
	EnvServerBinary = "DCD_SERVER_BINARY"
)

// Serve framing limits
const (
	ServeReadBufferSize = 1024 * 1024
	// MaxMessageSize is the largest Content-Length the serve codec accepts
	MaxMessageSize = 64 * 1024 * 1024
)
