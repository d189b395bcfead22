// Package sourcekitd talks to the source-understanding backend. The
// backend addresses text exclusively by UTF-8 byte offsets; all
// translation to editor coordinates happens in the layers above.
package sourcekitd

import (
	"context"
)

// Candidate is one raw completion record as the backend reports it,
// prior to any protocol shaping.
type Candidate struct {
	// Name is the identifier used for client-side filtering.
	Name string `json:"name"`
	// Description is the human-readable label. A candidate without one
	// is malformed and gets dropped by the item builder.
	Description string `json:"description"`
	// SourceText is the insertion text, possibly embedding <#...#>
	// placeholder markup.
	SourceText string `json:"sourcetext"`
	// TypeName is the printed type of the completed entity.
	TypeName string `json:"typename"`
	// DocBrief is a one-line documentation summary.
	DocBrief string `json:"doc_brief"`
	// NumBytesToErase counts UTF-8 bytes before the anchor the backend
	// wants replaced along with the insertion.
	NumBytesToErase int `json:"num_bytes_to_erase"`
	// NotRecommended is nonzero when the backend advises against the
	// candidate.
	NotRecommended int `json:"not_recommended"`
	// Kind is the backend's semantic kind tag.
	Kind string `json:"kind"`
}

// CompleteRequest anchors one completion query.
type CompleteRequest struct {
	File         string   `json:"file"`
	SourceText   string   `json:"sourcetext"`
	Offset       int      `json:"offset"`
	CompilerArgs []string `json:"compiler_args"`
}

// Completion is the backend's answer to a CompleteRequest. The handle
// stays valid until released with CompletionClose.
type Completion struct {
	Handle     string      `json:"handle"`
	Candidates []Candidate `json:"candidates"`
}

// VariableTypesRequest asks for inferred types of variable bindings
// within a byte range of one document.
type VariableTypesRequest struct {
	File         string   `json:"file"`
	SourceText   string   `json:"sourcetext"`
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	CompilerArgs []string `json:"compiler_args"`
}

// VariableType is one backend-reported variable binding.
type VariableType struct {
	// Offset and Length bound the variable name in UTF-8 bytes.
	Offset int `json:"offset"`
	Length int `json:"length"`
	// PrintedType is the inferred type as the backend prints it.
	PrintedType string `json:"printed_type"`
	// HasExplicitType reports whether the source already carries an
	// annotation.
	HasExplicitType bool `json:"has_explicit_type"`
}

// Client is the opaque asynchronous backend RPC surface. Implementations
// must be safe for concurrent calls; every call observes ctx.
type Client interface {
	// Complete issues one completion query anchored at a byte offset.
	Complete(ctx context.Context, req CompleteRequest) (*Completion, error)
	// CompletionClose releases a backend-held completion handle.
	CompletionClose(ctx context.Context, handle string) error
	// VariableTypes collects type-info records for a byte range.
	VariableTypes(ctx context.Context, req VariableTypesRequest) ([]VariableType, error)
}
