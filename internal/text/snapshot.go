package text

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Snapshot is an immutable view of one document version. Byte offsets
// and positions derived from it are not valid against any other version.
type Snapshot struct {
	URI     protocol.URI
	Version int32
	Text    string

	table *LineTable
}

// NewSnapshot captures text under a URI and version and builds its line
// table.
func NewSnapshot(uri protocol.URI, version int32, content string) *Snapshot {
	return &Snapshot{
		URI:     uri,
		Version: version,
		Text:    content,
		table:   NewLineTable(content),
	}
}

// Position translates a byte offset into an LSP position.
func (s *Snapshot) Position(offset ByteOffset) (protocol.Position, bool) {
	return s.table.Position(offset)
}

// Offset translates an LSP position into a byte offset.
func (s *Snapshot) Offset(pos protocol.Position) (ByteOffset, bool) {
	return s.table.Offset(pos)
}

// LineBounds returns the byte bounds of the line owning offset,
// excluding the line terminator.
func (s *Snapshot) LineBounds(offset ByteOffset) (start, end ByteOffset, ok bool) {
	return s.table.LineOffset(offset)
}

// Slice returns the text between two byte offsets, clamped to the
// document.
func (s *Snapshot) Slice(from, to ByteOffset) string {
	if from < 0 {
		from = 0
	}
	if int(to) > len(s.Text) {
		to = ByteOffset(len(s.Text))
	}
	if from >= to {
		return ""
	}
	return s.Text[from:to]
}
