package completion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sahilm/fuzzy"

	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"
	"github.com/divalue/sourcekit-lsp/internal/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrSessionClosed is returned when a continuation request reaches a
// session that has already been closed.
var ErrSessionClosed = errors.New("completion session closed")

// ErrSessionMismatch is returned when a continuation request names a
// document or anchor the open session does not serve. The caller must
// surface it as a cancellation-class error so the client restarts
// without the continuation flag; it is never downgraded to a fresh
// backend query here.
var ErrSessionMismatch = errors.New("completion session not found or incompatible")

// Session holds one backend completion query and serves repeated
// client-side refilters of its candidate set. The candidate set is
// immutable once the session is open and discarded entirely on Close.
type Session struct {
	client       sourcekitd.Client
	snapshot     *text.Snapshot
	anchorOffset text.ByteOffset
	anchorPos    protocol.Position

	handle     string
	candidates []sourcekitd.Candidate
	closed     bool
}

// Open issues exactly one backend query anchored at anchorOffset and
// stores the full unfiltered candidate set. Closing any previously open
// session is the caller's responsibility (the server owns the single
// session slot).
func Open(
	ctx context.Context,
	client sourcekitd.Client,
	snap *text.Snapshot,
	anchorOffset text.ByteOffset,
	anchorPos protocol.Position,
	compilerArgs []string,
) (*Session, error) {
	result, err := client.Complete(ctx, sourcekitd.CompleteRequest{
		File:         string(snap.URI),
		SourceText:   snap.Text,
		Offset:       int(anchorOffset),
		CompilerArgs: compilerArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open completion session: %w", err)
	}
	return &Session{
		client:       client,
		snapshot:     snap,
		anchorOffset: anchorOffset,
		anchorPos:    anchorPos,
		handle:       result.Handle,
		candidates:   result.Candidates,
	}, nil
}

// Matches reports whether a continuation request for (uri, anchor) may
// be served by this session.
func (s *Session) Matches(uri protocol.URI, anchor text.ByteOffset) bool {
	return !s.closed && s.snapshot.URI == uri && s.anchorOffset == anchor
}

// ServesDocument reports whether the session belongs to uri.
func (s *Session) ServesDocument(uri protocol.URI) bool {
	return !s.closed && s.snapshot.URI == uri
}

// Update serves one refilter pass over the stored candidate set. It
// never talks to the backend; matching and ranking happen entirely
// client-side. The result is always flagged incomplete so further
// keystrokes continue the same session.
func (s *Session) Update(
	ctx context.Context,
	filterText string,
	cursorPos protocol.Position,
	snap *text.Snapshot,
	opts Options,
) (*protocol.CompletionList, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	selected, err := s.filter(ctx, filterText)
	if err != nil {
		return nil, err
	}
	items, err := buildItems(ctx, snap, s.anchorOffset, s.anchorPos, cursorPos, selected, opts)
	if err != nil {
		return nil, err
	}
	return &protocol.CompletionList{
		IsIncomplete: true,
		Items:        items,
	}, nil
}

// filter ranks candidates against filterText. An empty filter keeps
// the backend's order.
func (s *Session) filter(ctx context.Context, filterText string) ([]sourcekitd.Candidate, error) {
	if filterText == "" {
		return s.candidates, nil
	}
	matches := fuzzy.FindFrom(filterText, candidateSource(s.candidates))
	selected := make([]sourcekitd.Candidate, 0, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		selected = append(selected, s.candidates[match.Index])
	}
	return selected, nil
}

// Close releases the candidate set and the backend-held handle.
// Idempotent; the session is terminal afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.candidates = nil
	if s.handle != "" {
		if err := s.client.CompletionClose(context.Background(), s.handle); err != nil {
			log.Printf("failed to release completion handle: %v", err)
		}
		s.handle = ""
	}
}

// candidateSource adapts the candidate slice to fuzzy matching over
// filter names.
type candidateSource []sourcekitd.Candidate

func (c candidateSource) String(i int) string { return c[i].Name }
func (c candidateSource) Len() int            { return len(c) }
