package server

import (
	contextpkg "context"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/divalue/sourcekit-lsp/internal/completion"
	"github.com/divalue/sourcekit-lsp/internal/text"
)

// codeContentModified tells the client its continuation is stale and it
// should restart the request without the continuation trigger.
const codeContentModified = -32801

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (any, error) {
	ctx := requestContext(context)

	uri := params.TextDocument.URI
	snap, err := s.docs.LatestSnapshot(uri)
	if err != nil {
		return nil, err
	}

	cursor, ok := snap.Offset(params.Position)
	if !ok {
		// out-of-range cursor: recover with an empty, continuable list
		return &protocol.CompletionList{
			IsIncomplete: true,
			Items:        []protocol.CompletionItem{},
		}, nil
	}

	anchor := identifierStart(snap, cursor)
	anchorPos, ok := snap.Position(anchor)
	if !ok {
		return nil, fmt.Errorf("anchor offset %d unmappable in %s", anchor, uri)
	}
	filterText := snap.Slice(anchor, cursor)
	opts := completion.Options{
		SnippetSupport: s.snippetSupport,
		MaxResults:     s.config.MaxResults,
	}

	if isContinuation(params.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session == nil || !s.session.Matches(uri, anchor) {
			// a continuation is never downgraded to a fresh query
			return nil, &jsonrpc2.Error{
				Code:    codeContentModified,
				Message: completion.ErrSessionMismatch.Error(),
			}
		}
		return s.session.Update(ctx, filterText, params.Position, snap, opts)
	}

	args, err := s.build.CompilerArgs(ctx, uri)
	if err != nil {
		return nil, err
	}
	session, err := completion.Open(ctx, s.backend, snap, anchor, anchorPos, args)
	if err != nil {
		return nil, err
	}
	s.replaceSession(session)

	return session.Update(ctx, filterText, params.Position, snap, opts)
}

// isContinuation reports whether the request continues an incomplete
// completion, the only trigger allowed to reuse the open session.
func isContinuation(completionContext *protocol.CompletionContext) bool {
	return completionContext != nil &&
		completionContext.TriggerKind == protocol.CompletionTriggerKindTriggerForIncompleteCompletions
}

// identifierStart scans back from cursor to the start of the
// identifier being completed. The anchor of a completion query is
// always an identifier boundary.
func identifierStart(snap *text.Snapshot, cursor text.ByteOffset) text.ByteOffset {
	lineStart, _, ok := snap.LineBounds(cursor)
	if !ok {
		return cursor
	}
	anchor := cursor
	for anchor > lineStart {
		r, size := utf8.DecodeLastRuneInString(snap.Text[lineStart:anchor])
		if r == utf8.RuneError || !isIdentifierRune(r) {
			break
		}
		anchor -= text.ByteOffset(size)
	}
	return anchor
}

func isIdentifierRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// requestContext extracts the cancellation context glsp attaches to a
// request, defaulting to Background for callers that do not set one.
func requestContext(context *glsp.Context) contextpkg.Context {
	if context == nil || context.Context == nil {
		return contextpkg.Background()
	}
	return context.Context
}
