package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.docs.Open(
		params.TextDocument.URI,
		params.TextDocument.Version,
		params.TextDocument.Text,
	)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	_, err := s.docs.ApplyChanges(uri, params.TextDocument.Version, params.ContentChanges)
	return err
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	s.closeSessionFor(uri)
	s.docs.Close(uri)
	return nil
}
