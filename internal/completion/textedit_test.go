package completion

import (
	"testing"

	"github.com/divalue/sourcekit-lsp/internal/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

func pos(line, char uint32) protocol.Position {
	return protocol.Position{Line: line, Character: char}
}

func TestComputeEditNoErase(t *testing.T) {
	snap := text.NewSnapshot("file:///t.swift", 1, "let x = fo\n")
	edit := computeEdit(snap, pos(0, 8), pos(0, 10), 0, "foo()")

	if edit.Range.Start != pos(0, 8) {
		t.Errorf("start = %v, want 0:8", edit.Range.Start)
	}
	if edit.Range.End != pos(0, 10) {
		t.Errorf("end = %v, want 0:10", edit.Range.End)
	}
	if edit.NewText != "foo()" {
		t.Errorf("newText = %q", edit.NewText)
	}
}

func TestComputeEditEraseOneASCII(t *testing.T) {
	snap := text.NewSnapshot("file:///t.swift", 1, "x.fo\n")
	edit := computeEdit(snap, pos(0, 2), pos(0, 4), 1, ".foo()")

	if edit.Range.Start != pos(0, 1) {
		t.Errorf("start = %v, want 0:1", edit.Range.Start)
	}
}

func TestComputeEditEraseOneAtLineStart(t *testing.T) {
	snap := text.NewSnapshot("file:///t.swift", 1, "ab\ncd\n")
	edit := computeEdit(snap, pos(1, 0), pos(1, 1), 1, "x")

	// cannot cross a line start
	if edit.Range.Start != pos(1, 0) {
		t.Errorf("start = %v, want 1:0", edit.Range.Start)
	}
}

func TestComputeEditEraseOneNonASCII(t *testing.T) {
	// π is 2 UTF-8 bytes / 1 UTF-16 unit; erasing one byte of it must
	// not trust the one-unit fast path.
	snap := text.NewSnapshot("file:///t.swift", 1, "π.fo\n")
	edit := computeEdit(snap, pos(0, 1), pos(0, 4), 1, ".foo()")

	// one byte back from offset 2 lands inside π: fall back
	if edit.Range.Start != pos(0, 1) {
		t.Errorf("start = %v, want fallback 0:1", edit.Range.Start)
	}
}

func TestComputeEditEraseMultiByte(t *testing.T) {
	snap := text.NewSnapshot("file:///t.swift", 1, "π.fo\n")
	// erase the whole π (2 bytes) starting from the dot
	edit := computeEdit(snap, pos(0, 1), pos(0, 4), 2, "τ.foo()")

	if edit.Range.Start != pos(0, 0) {
		t.Errorf("start = %v, want 0:0", edit.Range.Start)
	}
}

func TestComputeEditEraseSurrogate(t *testing.T) {
	// 🙂 is 4 UTF-8 bytes / 2 UTF-16 units
	snap := text.NewSnapshot("file:///t.swift", 1, "🙂x\n")
	edit := computeEdit(snap, pos(0, 2), pos(0, 3), 4, "y")

	if edit.Range.Start != pos(0, 0) {
		t.Errorf("start = %v, want 0:0", edit.Range.Start)
	}
}

func TestComputeEditEraseCrossesLine(t *testing.T) {
	snap := text.NewSnapshot("file:///t.swift", 1, "abc\nde\n")
	// erasing 5 bytes from 1:2 would reach into line 0
	edit := computeEdit(snap, pos(1, 2), pos(1, 2), 5, "x")

	if edit.Range.Start != pos(1, 2) {
		t.Errorf("start = %v, want fallback 1:2", edit.Range.Start)
	}
}
