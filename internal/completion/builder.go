package completion

import (
	"context"
	"strings"

	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"
	"github.com/divalue/sourcekit-lsp/internal/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Options carries the per-request knobs of item construction.
type Options struct {
	// SnippetSupport mirrors the client's declared
	// textDocument.completion.completionItem.snippetSupport capability.
	SnippetSupport bool
	// MaxResults caps the returned item count; zero means unlimited.
	MaxResults int
}

// buildItems shapes raw backend candidates into protocol items. A
// candidate without a description is malformed and skipped. The loop
// checks ctx at every candidate boundary and aborts without emitting a
// partial result.
func buildItems(
	ctx context.Context,
	snap *text.Snapshot,
	anchorOffset text.ByteOffset,
	anchorPos protocol.Position,
	requestPos protocol.Position,
	candidates []sourcekitd.Candidate,
	opts Options,
) ([]protocol.CompletionItem, error) {
	items := make([]protocol.CompletionItem, 0, len(candidates))
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if candidate.Description == "" {
			continue
		}
		items = append(items, buildItem(snap, anchorOffset, anchorPos, requestPos, candidate, opts))
		if opts.MaxResults > 0 && len(items) >= opts.MaxResults {
			break
		}
	}
	return items, nil
}

func buildItem(
	snap *text.Snapshot,
	anchorOffset text.ByteOffset,
	anchorPos protocol.Position,
	requestPos protocol.Position,
	candidate sourcekitd.Candidate,
	opts Options,
) protocol.CompletionItem {
	insertText, isSnippet := rewritePlaceholders(candidate.SourceText, opts.SnippetSupport)
	format := protocol.InsertTextFormatPlainText
	if isSnippet {
		format = protocol.InsertTextFormatSnippet
	}

	edit := computeEdit(snap, anchorPos, requestPos, candidate.NumBytesToErase, insertText)

	filterText := candidate.Name
	if candidate.NumBytesToErase > 0 && filterText != "" {
		// Clients filter against the edit range, not the label; give
		// them the erased prefix so the match still succeeds.
		if editStart, ok := snap.Offset(edit.Range.Start); ok && editStart < anchorOffset {
			filterText = snap.Slice(editStart, anchorOffset) + filterText
		}
	}

	kind := itemKind(candidate.Kind)
	item := protocol.CompletionItem{
		Label:            candidate.Description,
		Kind:             &kind,
		InsertText:       &insertText,
		InsertTextFormat: &format,
		TextEdit:         edit,
	}
	if candidate.TypeName != "" {
		detail := candidate.TypeName
		item.Detail = &detail
	}
	if candidate.DocBrief != "" {
		item.Documentation = candidate.DocBrief
	}
	if filterText != "" {
		item.FilterText = &filterText
	}
	if candidate.NotRecommended != 0 {
		item.Deprecated = &protocol.True
	}
	return item
}

// itemKind maps the backend's kind tag onto an LSP completion kind.
// Tags are dotted UID-style strings; matching goes by trailing
// component so instance/static variants collapse together.
func itemKind(tag string) protocol.CompletionItemKind {
	switch {
	case tag == "":
		return protocol.CompletionItemKindText
	case strings.Contains(tag, "keyword"):
		return protocol.CompletionItemKindKeyword
	case strings.Contains(tag, "decl.function.constructor"):
		return protocol.CompletionItemKindConstructor
	case strings.Contains(tag, "decl.function.method"):
		return protocol.CompletionItemKindMethod
	case strings.Contains(tag, "decl.function"), strings.Contains(tag, "decl.macro"):
		return protocol.CompletionItemKindFunction
	case strings.Contains(tag, "decl.var.instance"):
		return protocol.CompletionItemKindField
	case strings.Contains(tag, "decl.var"):
		return protocol.CompletionItemKindVariable
	case strings.Contains(tag, "decl.enumelement"):
		return protocol.CompletionItemKindEnumMember
	case strings.Contains(tag, "decl.enum"):
		return protocol.CompletionItemKindEnum
	case strings.Contains(tag, "decl.struct"):
		return protocol.CompletionItemKindStruct
	case strings.Contains(tag, "decl.class"):
		return protocol.CompletionItemKindClass
	case strings.Contains(tag, "decl.protocol"):
		return protocol.CompletionItemKindInterface
	case strings.Contains(tag, "decl.associatedtype"),
		strings.Contains(tag, "decl.generic_type_param"),
		strings.Contains(tag, "decl.typealias"):
		return protocol.CompletionItemKindTypeParameter
	case strings.Contains(tag, "decl.module"):
		return protocol.CompletionItemKindModule
	case strings.Contains(tag, "literal"):
		return protocol.CompletionItemKindValue
	case strings.Contains(tag, "pattern"):
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindText
	}
}
