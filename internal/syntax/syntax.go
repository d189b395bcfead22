// Package syntax provides the syntax-tree support the server needs:
// parsing a snapshot into a tree and deciding whether a given token
// position may carry a type annotation.
package syntax

// NodeKind classifies the ancestor kinds the annotation filter cares
// about. Everything else is KindOther.
type NodeKind int

const (
	KindOther NodeKind = iota
	// KindCasePattern marks a pattern item of a switch case. Bindings
	// inside it can never carry a type annotation.
	KindCasePattern
	// KindClosureParameter marks a closure parameter node, same rule.
	KindClosureParameter
	// KindBoundary marks a statement or member-declaration boundary. No
	// case or closure ancestor can appear above one, so the walk stops
	// there.
	KindBoundary
)

// Node is one link of an ancestor chain, a tagged view over the parse
// tree: its classified kind and its parent, nil at the root.
type Node struct {
	Kind   NodeKind
	Parent *Node
}

// CanBeFollowedByTypeAnnotation walks the ancestor chain upward from
// node. A case-pattern or closure-parameter ancestor makes the position
// ineligible immediately; a boundary ends the walk as eligible. A walk
// that runs off the root is eligible too.
func CanBeFollowedByTypeAnnotation(node *Node) bool {
	for n := node; n != nil; n = n.Parent {
		switch n.Kind {
		case KindCasePattern, KindClosureParameter:
			return false
		case KindBoundary:
			return true
		}
	}
	return true
}
