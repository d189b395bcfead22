package server

import (
	"log"

	"github.com/divalue/sourcekit-lsp/internal/config"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Load(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	s.config = cfg
	s.build = staticBuildServer{args: cfg.CompilerArgs}
	s.snippetSupport = clientSupportsSnippets(params.Capabilities)
	log.Printf("Config: %+v, snippets: %v", cfg, s.snippetSupport)

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: cfg.TriggerCharacters,
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{commandVariableTypeInfos},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Println("Client initialized.")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.replaceSession(nil)
	return nil
}

// clientSupportsSnippets digs the snippet capability out of the nested
// optional capability structs.
func clientSupportsSnippets(capabilities protocol.ClientCapabilities) bool {
	if capabilities.TextDocument == nil ||
		capabilities.TextDocument.Completion == nil ||
		capabilities.TextDocument.Completion.CompletionItem == nil ||
		capabilities.TextDocument.Completion.CompletionItem.SnippetSupport == nil {
		return false
	}
	return *capabilities.TextDocument.Completion.CompletionItem.SnippetSupport
}
