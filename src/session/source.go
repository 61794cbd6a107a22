// Package session drives completion requests for one editing session: it turns
// the editor state into a dcd-client invocation and the reply into candidates.
package session

import (
	"context"
	"fmt"
	"strings"

	"dcd-complete/src/backend"
	"dcd-complete/src/completion"
	"dcd-complete/src/config"
	"dcd-complete/src/editor"
	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/internal/errors"
)

// Result is what one completion request produces
type Result struct {
	// Position is the character column where the completed word starts
	Position   int
	Offset     int
	Mode       completion.Mode
	Candidates []completion.Candidate
}

// Source answers completion requests. It is not safe for concurrent use;
// requests are expected one at a time from the editor's event loop.
type Source struct {
	cfg       *config.Config
	transport backend.Transport
	dub       DubLister
	cache     *ImportDirectoryCache
	client    *backend.Client
	dubDirs   []string
	dubListed bool
	resolve   func(configured, name string) (string, error)
}

// NewSource creates a source. dub may be nil, in which case `dub list` is run
// through transport when the configuration enables dub imports.
func NewSource(cfg *config.Config, transport backend.Transport, dub DubLister) *Source {
	if dub == nil && cfg.DubImports {
		dub = NewDubPackages(transport)
	}
	return &Source{
		cfg:       cfg,
		transport: transport,
		dub:       dub,
		cache:     NewImportDirectoryCache(),
		resolve:   common.ResolveBinary,
	}
}

// ImportCache exposes the directories sent so far
func (s *Source) ImportCache() *ImportDirectoryCache {
	return s.cache
}

// Complete runs one completion request for the editor state in host
func (s *Source) Complete(ctx context.Context, host editor.Host) (*Result, error) {
	client, err := s.clientFor()
	if err != nil {
		return nil, err
	}

	line, col := host.CurrentCursor()
	lines := host.CurrentBufferLines()
	if line < 1 || line > len(lines) {
		return nil, errors.NewValidationError("line", fmt.Sprintf("line %d is outside the buffer (1-%d)", line, len(lines)))
	}
	position := editor.CompletePosition(editor.LinePrefix(lines[line-1], col))

	offset, err := host.ByteOffsetFor(line, col)
	if err != nil {
		return nil, err
	}

	source, err := sourceBytes(host, lines)
	if err != nil {
		return nil, err
	}

	path := host.CurrentBufferPath()
	query := backend.Query{
		Offset:     offset,
		ImportDirs: s.cache.Pending(s.importCandidates(ctx, path)...),
		Source:     source,
	}
	if s.cfg.SendFilePath {
		query.FilePath = path
	}

	ctx, cancel := common.ContextWithOptionalTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	raw, err := client.Complete(ctx, query)
	// the client saw the -I flags only if it ran; stderr output still means it did
	if err == nil || errors.IsBackendError(err) {
		s.cache.Admit(query.ImportDirs...)
	}
	if err != nil {
		return nil, err
	}

	res, err := completion.Interpret(raw)
	if err != nil {
		return nil, errors.WrapWithContext("completion response", err)
	}

	common.SourceLogger.Debug("offset %d in %q: %s, %d candidates", offset, path, modeName(res.Mode), len(res.Candidates))
	return &Result{
		Position:   position,
		Offset:     offset,
		Mode:       res.Mode,
		Candidates: res.Candidates,
	}, nil
}

// clientFor resolves dcd-client on first use. Resolution is retried on every
// request until it succeeds.
func (s *Source) clientFor() (*backend.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	bin, err := s.resolve(s.cfg.ClientBinary, constants.ClientBinaryName)
	if err != nil {
		return nil, err
	}
	extra, err := s.cfg.ExtraClientArgs()
	if err != nil {
		return nil, err
	}
	s.client = backend.NewClient(s.transport, bin, extra)
	common.SourceLogger.Debug("using client %s", bin)
	return s.client, nil
}

// importCandidates lists every directory the request may need; the cache
// filters out those already sent.
func (s *Source) importCandidates(ctx context.Context, path string) []string {
	dirs := s.cfg.NormalizedImportPaths()
	if path == "" {
		return dirs
	}
	dirs = append(dirs, ImportRoot(path))
	if s.dub != nil && s.cfg.DubImports {
		// installed packages are listed once per session
		if !s.dubListed {
			s.dubDirs = s.dub.PackageDirs(ctx)
			s.dubListed = true
		}
		dirs = append(dirs, s.dubDirs...)
	}
	return dirs
}

func sourceBytes(host editor.Host, lines []string) ([]byte, error) {
	if enc, ok := host.(editor.SourceEncoder); ok {
		return enc.EncodeSource()
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func modeName(m completion.Mode) string {
	if m == completion.ModeNone {
		return "no completion"
	}
	return string(m)
}
