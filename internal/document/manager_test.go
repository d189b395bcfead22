package document_test

import (
	"errors"
	"testing"

	"github.com/divalue/sourcekit-lsp/internal/document"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

const uri = "file:///test.swift"

func TestOpenAndLatest(t *testing.T) {
	m := document.NewManager()
	m.Open(uri, 1, "let x = 1\n")

	snap, err := m.LatestSnapshot(uri)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Text != "let x = 1\n" || snap.Version != 1 {
		t.Errorf("unexpected snapshot %q v%d", snap.Text, snap.Version)
	}
}

func TestUnknownDocument(t *testing.T) {
	m := document.NewManager()
	if _, err := m.LatestSnapshot("file:///missing.swift"); !errors.Is(err, document.ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
	if _, err := m.ApplyChanges("file:///missing.swift", 2, nil); !errors.Is(err, document.ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
}

func TestApplyIncrementalChange(t *testing.T) {
	m := document.NewManager()
	old := m.Open(uri, 1, "let x = foo()\n")

	changes := []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 0, Character: 12},
				End:   protocol.Position{Line: 0, Character: 12},
			},
			Text: "bar: 1",
		},
	}
	snap, err := m.ApplyChanges(uri, 2, changes)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Text != "let x = foo(bar: 1)\n" {
		t.Errorf("got %q", snap.Text)
	}
	if old.Text != "let x = foo()\n" {
		t.Error("previous snapshot mutated")
	}
}

func TestApplyFullChange(t *testing.T) {
	m := document.NewManager()
	m.Open(uri, 1, "old")

	snap, err := m.ApplyChanges(uri, 2, []any{
		protocol.TextDocumentContentChangeEventWhole{Text: "new"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Text != "new" || snap.Version != 2 {
		t.Errorf("got %q v%d", snap.Text, snap.Version)
	}
}

func TestApplyChangeOutOfRange(t *testing.T) {
	m := document.NewManager()
	m.Open(uri, 1, "ab")

	_, err := m.ApplyChanges(uri, 2, []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 5, Character: 0},
				End:   protocol.Position{Line: 5, Character: 0},
			},
			Text: "x",
		},
	})
	if err == nil {
		t.Fatal("expected error for out-of-range change")
	}
}
