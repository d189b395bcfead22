package text

import (
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ByteOffset is an index into the UTF-8 bytes of one snapshot's text.
// It is only meaningful against the snapshot that produced it.
type ByteOffset int

// LineTable maps between byte offsets and LSP positions (line plus
// UTF-16 code-unit column) for a single immutable text. Line starts are
// precomputed; columns are resolved by walking the actual code-unit
// boundaries of the owning line, since a scalar can occupy 1-4 UTF-8
// bytes and 1-2 UTF-16 units.
type LineTable struct {
	text string
	// byte offset of the first byte of each line; starts[0] == 0.
	starts []ByteOffset
}

// NewLineTable builds the table for text. Lines are separated by '\n';
// the separator belongs to the line it terminates.
func NewLineTable(text string) *LineTable {
	starts := []ByteOffset{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &LineTable{text: text, starts: starts}
}

// LineCount returns the number of lines, counting a trailing empty line
// after a final '\n'.
func (t *LineTable) LineCount() int {
	return len(t.starts)
}

// LineStart returns the byte offset of the first byte of line, or false
// if line is out of range.
func (t *LineTable) LineStart(line uint32) (ByteOffset, bool) {
	if int(line) >= len(t.starts) {
		return 0, false
	}
	return t.starts[line], true
}

// lineEnd returns the byte offset one past the last byte of the line,
// excluding its '\n' terminator.
func (t *LineTable) lineEnd(line int) ByteOffset {
	if line+1 < len(t.starts) {
		return t.starts[line+1] - 1
	}
	return ByteOffset(len(t.text))
}

// lineFor locates the line owning offset via binary search.
func (t *LineTable) lineFor(offset ByteOffset) int {
	return sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offset
	}) - 1
}

// Position converts a byte offset into a (line, UTF-16 column) position.
// Returns false if offset is negative or past end-of-document. An offset
// equal to the text length maps to the end position.
func (t *LineTable) Position(offset ByteOffset) (protocol.Position, bool) {
	if offset < 0 || int(offset) > len(t.text) {
		return protocol.Position{}, false
	}
	line := t.lineFor(offset)
	var col uint32
	for i := t.starts[line]; i < offset; {
		r, size := utf8.DecodeRuneInString(t.text[i:])
		if i+ByteOffset(size) > offset {
			// offset points inside a multi-byte scalar
			return protocol.Position{}, false
		}
		col += utf16Len(r)
		i += ByteOffset(size)
	}
	return protocol.Position{Line: uint32(line), Character: col}, true
}

// Offset converts a (line, UTF-16 column) position into a byte offset.
// Returns false when the line does not exist or the column lies beyond
// the end of the line or inside a surrogate pair.
func (t *LineTable) Offset(pos protocol.Position) (ByteOffset, bool) {
	if int(pos.Line) >= len(t.starts) {
		return 0, false
	}
	end := t.lineEnd(int(pos.Line))
	var col uint32
	i := t.starts[pos.Line]
	for col < pos.Character {
		if i >= end {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(t.text[i:])
		col += utf16Len(r)
		i += ByteOffset(size)
	}
	if col != pos.Character {
		// column lands between the two units of a surrogate pair
		return 0, false
	}
	return i, true
}

// LineOffset converts a byte offset into an index relative to the start
// of its owning line, together with that line's bounds. Returns false
// past end-of-document.
func (t *LineTable) LineOffset(offset ByteOffset) (start, end ByteOffset, ok bool) {
	if offset < 0 || int(offset) > len(t.text) {
		return 0, 0, false
	}
	line := t.lineFor(offset)
	return t.starts[line], t.lineEnd(line), true
}

func utf16Len(r rune) uint32 {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
