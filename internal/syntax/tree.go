package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"

	"github.com/divalue/sourcekit-lsp/internal/text"
)

var lang = swift.GetLanguage()

// Tree is the parsed form of one snapshot. Like the snapshot it is
// derived from, it is immutable and safe for concurrent reads.
type Tree struct {
	snapshot *text.Snapshot
	tree     *sitter.Tree
}

// Parse builds the syntax tree for a snapshot.
func Parse(ctx context.Context, snap *text.Snapshot) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, []byte(snap.Text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", snap.URI, err)
	}
	return &Tree{snapshot: snap, tree: tree}, nil
}

// Close frees the underlying tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// AncestorChain returns the classified ancestor chain of the innermost
// named node covering a byte offset, innermost first. Returns nil when
// the offset is out of range.
func (t *Tree) AncestorChain(offset text.ByteOffset) *Node {
	point, ok := t.point(offset)
	if !ok {
		return nil
	}
	node := t.tree.RootNode().NamedDescendantForPointRange(point, point)

	// build outermost-first, then link downward
	var chain *Node
	var kinds []NodeKind
	for n := node; n != nil; n = n.Parent() {
		kinds = append(kinds, classify(n.Type()))
	}
	for i := len(kinds) - 1; i >= 0; i-- {
		chain = &Node{Kind: kinds[i], Parent: chain}
	}
	return chain
}

// point converts a byte offset into a tree-sitter point (row plus byte
// column).
func (t *Tree) point(offset text.ByteOffset) (sitter.Point, bool) {
	pos, ok := t.snapshot.Position(offset)
	if !ok {
		return sitter.Point{}, false
	}
	lineStart, _, ok := t.snapshot.LineBounds(offset)
	if !ok {
		return sitter.Point{}, false
	}
	return sitter.Point{Row: pos.Line, Column: uint32(offset - lineStart)}, true
}

// classify maps grammar node types onto the filter's kinds.
func classify(nodeType string) NodeKind {
	switch nodeType {
	case "switch_pattern":
		return KindCasePattern
	case "lambda_parameter", "lambda_function_type_parameters":
		return KindClosureParameter
	case "statements", "class_body", "enum_class_body", "protocol_body", "source_file":
		return KindBoundary
	default:
		return KindOther
	}
}
