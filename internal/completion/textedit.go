package completion

import (
	"github.com/divalue/sourcekit-lsp/internal/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// computeEdit derives the replacement for one candidate: the range
// [editStart, requestPos) on the completion line, replaced by newText.
// eraseBytes counts UTF-8 bytes before completionPos the backend wants
// deleted along with the insertion.
//
// The protocol cannot express multi-line deletions, so an erase that
// would cross the line start is discarded and the edit starts at
// completionPos instead.
func computeEdit(
	snap *text.Snapshot,
	completionPos protocol.Position,
	requestPos protocol.Position,
	eraseBytes int,
	newText string,
) protocol.TextEdit {
	start := completionPos
	switch {
	case eraseBytes <= 0:
		// no encoding work
	case eraseBytes == 1 && asciiPrecedes(snap, completionPos):
		// one ASCII byte is exactly one UTF-16 unit
		if completionPos.Character >= 1 {
			start.Character--
		}
	default:
		start = erasedStart(snap, completionPos, eraseBytes)
	}
	return protocol.TextEdit{
		Range:   protocol.Range{Start: start, End: requestPos},
		NewText: newText,
	}
}

// asciiPrecedes reports whether the byte immediately before pos is a
// single-width ASCII byte. A non-ASCII predecessor may be part of a
// multi-byte scalar, so the byte-accurate path must be taken.
func asciiPrecedes(snap *text.Snapshot, pos protocol.Position) bool {
	offset, ok := snap.Offset(pos)
	if !ok || offset == 0 {
		return false
	}
	return snap.Text[offset-1] < 0x80
}

// erasedStart steps back eraseBytes UTF-8 bytes from completionPos and
// re-expresses the result as a UTF-16 column on the same line. Falls
// back to completionPos when the erase would cross the line start or
// land inside a scalar.
func erasedStart(snap *text.Snapshot, completionPos protocol.Position, eraseBytes int) protocol.Position {
	offset, ok := snap.Offset(completionPos)
	if !ok {
		return completionPos
	}
	lineStart, _, ok := snap.LineBounds(offset)
	if !ok {
		return completionPos
	}
	target := offset - text.ByteOffset(eraseBytes)
	if target < lineStart {
		return completionPos
	}
	pos, ok := snap.Position(target)
	if !ok {
		return completionPos
	}
	return pos
}
