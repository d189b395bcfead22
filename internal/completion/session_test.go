package completion

import (
	"context"
	"errors"
	"testing"

	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"
	"github.com/divalue/sourcekit-lsp/internal/text"
)

// fakeClient counts backend traffic and serves a fixed candidate set.
type fakeClient struct {
	candidates    []sourcekitd.Candidate
	completeCalls int
	closedHandles []string
	err           error
}

func (f *fakeClient) Complete(ctx context.Context, req sourcekitd.CompleteRequest) (*sourcekitd.Completion, error) {
	f.completeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &sourcekitd.Completion{Handle: "h1", Candidates: f.candidates}, nil
}

func (f *fakeClient) CompletionClose(ctx context.Context, handle string) error {
	f.closedHandles = append(f.closedHandles, handle)
	return nil
}

func (f *fakeClient) VariableTypes(ctx context.Context, req sourcekitd.VariableTypesRequest) ([]sourcekitd.VariableType, error) {
	return nil, nil
}

func candidates(names ...string) []sourcekitd.Candidate {
	out := make([]sourcekitd.Candidate, len(names))
	for i, name := range names {
		out[i] = sourcekitd.Candidate{Name: name, Description: name, SourceText: name}
	}
	return out
}

func TestOpenQueriesBackendOnce(t *testing.T) {
	client := &fakeClient{candidates: candidates("foo()", "four", "bar")}
	snap := text.NewSnapshot("file:///t.swift", 1, "let x = foo(\n")

	session, err := Open(context.Background(), client, snap, 12, pos(0, 12), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	if client.completeCalls != 1 {
		t.Fatalf("complete calls = %d, want 1", client.completeCalls)
	}

	// repeated refilters never touch the backend
	for _, filter := range []string{"", "f", "fo", "foo"} {
		list, err := session.Update(context.Background(), filter, pos(0, 12), snap, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !list.IsIncomplete {
			t.Error("session results must be flagged incomplete")
		}
	}
	if client.completeCalls != 1 {
		t.Fatalf("complete calls after refilters = %d, want 1", client.completeCalls)
	}
}

func TestUpdateFilters(t *testing.T) {
	client := &fakeClient{candidates: candidates("foo()", "four", "bar")}
	snap := text.NewSnapshot("file:///t.swift", 1, "let x = foo(\n")

	session, err := Open(context.Background(), client, snap, 12, pos(0, 12), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	list, err := session.Update(context.Background(), "f", pos(0, 13), snap, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("got %d items for filter 'f', want 2", len(list.Items))
	}
	for _, item := range list.Items {
		if item.Label == "bar" {
			t.Error("'bar' must not match filter 'f'")
		}
	}
}

func TestUpdateEmptyFilterKeepsBackendOrder(t *testing.T) {
	client := &fakeClient{candidates: candidates("zzz", "aaa", "mmm")}
	snap := text.NewSnapshot("file:///t.swift", 1, "x\n")

	session, err := Open(context.Background(), client, snap, 1, pos(0, 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	list, err := session.Update(context.Background(), "", pos(0, 1), snap, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"zzz", "aaa", "mmm"}
	for i, item := range list.Items {
		if item.Label != want[i] {
			t.Fatalf("item %d = %q, want %q", i, item.Label, want[i])
		}
	}
}

func TestSessionMatches(t *testing.T) {
	client := &fakeClient{candidates: candidates("foo()")}
	snap := text.NewSnapshot("file:///t.swift", 1, "let x = foo(\n")

	session, err := Open(context.Background(), client, snap, 12, pos(0, 12), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()

	if !session.Matches("file:///t.swift", 12) {
		t.Error("expected match for same document and anchor")
	}
	if session.Matches("file:///other.swift", 12) {
		t.Error("must not match a different document")
	}
	if session.Matches("file:///t.swift", 11) {
		t.Error("must not match a different anchor")
	}
}

func TestCloseReleasesHandleOnce(t *testing.T) {
	client := &fakeClient{candidates: candidates("foo()")}
	snap := text.NewSnapshot("file:///t.swift", 1, "x\n")

	session, err := Open(context.Background(), client, snap, 1, pos(0, 1), nil)
	if err != nil {
		t.Fatal(err)
	}

	session.Close()
	session.Close() // idempotent
	if len(client.closedHandles) != 1 || client.closedHandles[0] != "h1" {
		t.Fatalf("closed handles = %v, want [h1]", client.closedHandles)
	}

	if session.Matches("file:///t.swift", 1) {
		t.Error("closed session must not match")
	}
	if _, err := session.Update(context.Background(), "f", pos(0, 1), snap, Options{}); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestOpenPropagatesBackendError(t *testing.T) {
	client := &fakeClient{err: errors.New("backend down")}
	snap := text.NewSnapshot("file:///t.swift", 1, "x\n")

	if _, err := Open(context.Background(), client, snap, 1, pos(0, 1), nil); err == nil {
		t.Fatal("expected backend error to propagate")
	}
}
