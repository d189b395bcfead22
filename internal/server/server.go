package server

import (
	"context"
	"sync"

	"github.com/divalue/sourcekit-lsp/internal/completion"
	"github.com/divalue/sourcekit-lsp/internal/config"
	"github.com/divalue/sourcekit-lsp/internal/document"
	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"

	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

const serverName = "sourcekit-lsp"

// Server wires the LSP handler surface to the document store, the
// backend client and the single completion session slot.
type Server struct {
	handler *protocol.Handler
	docs    *document.Manager
	backend sourcekitd.Client
	build   BuildServer
	config  config.Config

	// snippetSupport caches the client capability captured at
	// initialize.
	snippetSupport bool

	// session is the single open completion session, nil when none.
	// Guarded by mu; handlers are its only readers and writers.
	mu      sync.Mutex
	session *completion.Session
}

// NewServer builds the LSP server around a backend client.
func NewServer(backend sourcekitd.Client) (*glspserver.Server, error) {
	ls := newServer(backend)
	return glspserver.NewServer(ls.handler, serverName, false), nil
}

func newServer(backend sourcekitd.Client) *Server {
	ls := &Server{
		docs:    document.NewManager(),
		backend: backend,
		build:   staticBuildServer{},
	}
	ls.handler = &protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentCompletion:  ls.textDocumentCompletion,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
		Shutdown:                ls.shutdown,
	}
	return ls
}

// replaceSession installs a new session, closing any prior one first.
// Last writer wins; the replaced session always releases its resources
// before the new one is visible.
func (s *Server) replaceSession(session *completion.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Close()
	}
	s.session = session
}

// closeSessionFor drops the open session if it serves uri.
func (s *Server) closeSessionFor(uri protocol.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.ServesDocument(uri) {
		s.session.Close()
		s.session = nil
	}
}

// BuildServer supplies per-document compiler arguments.
type BuildServer interface {
	CompilerArgs(ctx context.Context, uri protocol.URI) ([]string, error)
}

// staticBuildServer serves one fixed argument list for every document.
type staticBuildServer struct {
	args []string
}

func (b staticBuildServer) CompilerArgs(ctx context.Context, uri protocol.URI) ([]string, error) {
	return b.args, nil
}
