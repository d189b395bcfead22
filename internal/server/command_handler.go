package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"
	"github.com/divalue/sourcekit-lsp/internal/syntax"
	"github.com/divalue/sourcekit-lsp/internal/text"
)

const commandVariableTypeInfos = "sourcekit-lsp.variableTypeInfos"

// VariableTypeInfo reports the inferred type of one variable binding
// together with whether an annotation could be inserted after it.
type VariableTypeInfo struct {
	Range                         protocol.Range `json:"range"`
	PrintedType                   string         `json:"printedType"`
	HasExplicitType               bool           `json:"hasExplicitType"`
	CanBeFollowedByTypeAnnotation bool           `json:"canBeFollowedByTypeAnnotation"`
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	switch params.Command {
	case commandVariableTypeInfos:
		uri, err := uriArgument(params.Arguments)
		if err != nil {
			return nil, err
		}
		return s.variableTypeInfos(context, uri)
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

// variableTypeInfos asks the backend for the inferred types of all
// bindings in a document and shapes each record into protocol
// coordinates over the same snapshot and tree.
func (s *Server) variableTypeInfos(context *glsp.Context, uri protocol.URI) ([]VariableTypeInfo, error) {
	ctx := requestContext(context)

	snap, err := s.docs.LatestSnapshot(uri)
	if err != nil {
		return nil, err
	}
	tree, err := syntax.Parse(ctx, snap)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	args, err := s.build.CompilerArgs(ctx, uri)
	if err != nil {
		return nil, err
	}
	records, err := s.backend.VariableTypes(ctx, sourcekitd.VariableTypesRequest{
		File:         string(uri),
		SourceText:   snap.Text,
		Offset:       0,
		Length:       len(snap.Text),
		CompilerArgs: args,
	})
	if err != nil {
		return nil, err
	}

	infos := make([]VariableTypeInfo, 0, len(records))
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start, ok := snap.Position(text.ByteOffset(record.Offset))
		if !ok {
			log.Printf("dropping type record with unmappable offset %d", record.Offset)
			continue
		}
		end, ok := snap.Position(text.ByteOffset(record.Offset + record.Length))
		if !ok {
			log.Printf("dropping type record with unmappable end %d", record.Offset+record.Length)
			continue
		}
		node := tree.AncestorChain(text.ByteOffset(record.Offset))
		infos = append(infos, VariableTypeInfo{
			Range:                         protocol.Range{Start: start, End: end},
			PrintedType:                   record.PrintedType,
			HasExplicitType:               record.HasExplicitType,
			CanBeFollowedByTypeAnnotation: syntax.CanBeFollowedByTypeAnnotation(node),
		})
	}
	return infos, nil
}

// uriArgument decodes the single document-URI argument of a command.
func uriArgument(arguments []any) (protocol.URI, error) {
	if len(arguments) != 1 {
		return "", fmt.Errorf("expected exactly one argument, got %d", len(arguments))
	}
	switch arg := arguments[0].(type) {
	case string:
		return arg, nil
	case json.RawMessage:
		var uri string
		if err := json.Unmarshal(arg, &uri); err != nil {
			return "", fmt.Errorf("malformed uri argument: %w", err)
		}
		return uri, nil
	default:
		return "", fmt.Errorf("unexpected argument type %T", arguments[0])
	}
}
