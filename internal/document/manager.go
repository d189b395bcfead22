package document

import (
	"errors"
	"fmt"
	"sync"

	"github.com/divalue/sourcekit-lsp/internal/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrUnknownDocument is returned for any operation against a URI that
// is not currently open.
var ErrUnknownDocument = errors.New("document not open")

// Manager tracks open documents and hands out immutable snapshots.
// Every change produces a fresh snapshot; snapshots already handed out
// are never mutated.
type Manager struct {
	mu   sync.Mutex
	docs map[protocol.URI]*text.Snapshot
}

// NewManager creates an initialized Manager.
func NewManager() *Manager {
	return &Manager{docs: make(map[protocol.URI]*text.Snapshot)}
}

// Open registers a document. Reopening an already open URI replaces its
// content, mirroring client behavior on editor reload.
func (m *Manager) Open(uri protocol.URI, version int32, content string) *text.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := text.NewSnapshot(uri, version, content)
	m.docs[uri] = snap
	return snap
}

// Close forgets a document. Closing an unknown URI is not an error.
func (m *Manager) Close(uri protocol.URI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// LatestSnapshot returns the current snapshot for a URI.
func (m *Manager) LatestSnapshot(uri protocol.URI) (*text.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return snap, nil
}

// ApplyChanges applies a didChange batch in order and installs the
// resulting snapshot under the new version. Both full-document and
// incremental (range) events are accepted.
func (m *Manager) ApplyChanges(
	uri protocol.URI,
	version int32,
	changes []any,
) (*text.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}

	content := snap.Text
	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			updated, err := applyIncremental(content, change)
			if err != nil {
				return nil, err
			}
			content = updated
		case protocol.TextDocumentContentChangeEventWhole:
			content = change.Text
		default:
			return nil, fmt.Errorf("unexpected change event type %T", raw)
		}
	}

	next := text.NewSnapshot(uri, version, content)
	m.docs[uri] = next
	return next, nil
}

// applyIncremental splices one range edit into content. The event range
// is interpreted against the text as left by the preceding events of
// the same batch.
func applyIncremental(content string, change protocol.TextDocumentContentChangeEvent) (string, error) {
	if change.Range == nil {
		return change.Text, nil
	}
	table := text.NewLineTable(content)
	start, ok := table.Offset(change.Range.Start)
	if !ok {
		return "", fmt.Errorf("change start %d:%d out of range",
			change.Range.Start.Line, change.Range.Start.Character)
	}
	end, ok := table.Offset(change.Range.End)
	if !ok {
		return "", fmt.Errorf("change end %d:%d out of range",
			change.Range.End.Line, change.Range.End.Character)
	}
	if end < start {
		return "", fmt.Errorf("inverted change range")
	}
	return content[:start] + change.Text + content[end:], nil
}
