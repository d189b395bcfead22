package syntax

import "testing"

// chain builds an ancestor chain from outermost to innermost kinds and
// returns the innermost node.
func chain(outermostFirst ...NodeKind) *Node {
	var node *Node
	for _, kind := range outermostFirst {
		node = &Node{Kind: kind, Parent: node}
	}
	return node
}

func TestCanBeFollowedByTypeAnnotation(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"nil node", nil, true},
		{"plain binding", chain(KindBoundary, KindOther, KindOther), true},
		{"case pattern", chain(KindBoundary, KindOther, KindCasePattern, KindOther), false},
		{"closure parameter", chain(KindBoundary, KindClosureParameter), false},
		{"boundary shields outer case", chain(KindCasePattern, KindBoundary, KindOther), true},
		{"no decisive ancestor", chain(KindOther, KindOther), true},
		{"ineligible node itself", chain(KindCasePattern), false},
	}
	for _, tt := range tests {
		if got := CanBeFollowedByTypeAnnotation(tt.node); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		nodeType string
		want     NodeKind
	}{
		{"switch_pattern", KindCasePattern},
		{"lambda_parameter", KindClosureParameter},
		{"lambda_function_type_parameters", KindClosureParameter},
		{"statements", KindBoundary},
		{"class_body", KindBoundary},
		{"source_file", KindBoundary},
		{"call_expression", KindOther},
		{"simple_identifier", KindOther},
	}
	for _, tt := range tests {
		if got := classify(tt.nodeType); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.nodeType, got, tt.want)
		}
	}
}
