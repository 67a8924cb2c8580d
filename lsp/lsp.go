// Package lsp serves grammar diagnostics over the Language Server Protocol.
// Documents are validated on open, change and save; every reported parse
// error is published as a textDocument/publishDiagnostics notification.
package lsp

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/gram"
	"github.com/dhamidi/gram/rule"
	"github.com/dhamidi/gram/text"
)

const lsName = "gram"

type LSPServer struct {
	grammar   *rule.Production
	documents map[protocol.DocumentUri][]byte
	handler   protocol.Handler
	server    *server.Server
	version   string
	log       commonlog.Logger
}

func NewLSPServer(grammar *rule.Production, version string) *LSPServer {
	ls := &LSPServer{
		grammar:   grammar,
		documents: make(map[protocol.DocumentUri][]byte),
		version:   version,
		log:       commonlog.GetLogger(lsName),
	}

	ls.handler = protocol.Handler{
		Initialize:            ls.initialize,
		Initialized:           ls.initialized,
		Shutdown:              ls.shutdown,
		SetTrace:              ls.setTrace,
		TextDocumentDidOpen:   ls.textDocumentDidOpen,
		TextDocumentDidChange: ls.textDocumentDidChange,
		TextDocumentDidClose:  ls.textDocumentDidClose,
		TextDocumentDidSave:   ls.textDocumentDidSave,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	ls.documents[params.TextDocument.URI] = []byte(params.TextDocument.Text)
	ls.publish(ctx, params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.documents[params.TextDocument.URI] = []byte(whole.Text)
		}
	}
	ls.publish(ctx, params.TextDocument.URI)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	delete(ls.documents, params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		ls.documents[params.TextDocument.URI] = []byte(*params.Text)
	} else if path, err := uriToPath(params.TextDocument.URI); err == nil {
		if content, err := os.ReadFile(path); err == nil {
			ls.documents[params.TextDocument.URI] = content
		}
	}
	ls.publish(ctx, params.TextDocument.URI)
	return nil
}

// publish validates the tracked document content and pushes the resulting
// diagnostics, replacing any previous set for the document.
func (ls *LSPServer) publish(ctx *glsp.Context, uri protocol.DocumentUri) {
	content, ok := ls.documents[uri]
	if !ok {
		return
	}
	path, err := uriToPath(uri)
	if err != nil {
		path = string(uri)
	}

	in := text.NewInput(path, content)
	res := gram.Validate(ls.grammar, in, gram.CollectErrors())
	errs, _ := res.Errors.([]*rule.Error)
	ls.log.Infof("validated %s: %s, %d error(s)", path, res.Outcome, len(errs))

	diagnostics := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		diagnostics = append(diagnostics, Diagnostic(in, e))
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostic converts a parse error into a protocol diagnostic. Position
// anchors become zero-width ranges; range anchors cover their span.
func Diagnostic(in *text.Input, e *rule.Error) protocol.Diagnostic {
	begin := in.PositionAt(e.Begin)
	end := begin
	if e.IsRange() {
		end = in.PositionAt(e.End)
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName
	code := protocol.IntegerOrString{Value: e.Tag()}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(begin),
			End:   position(end),
		},
		Severity: &severity,
		Code:     &code,
		Source:   &source,
		Message:  e.Message(),
	}
}

func position(p text.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(p.Column - 1),
	}
}

func uriToPath(uri protocol.DocumentUri) (string, error) {
	s := string(uri)
	if strings.HasPrefix(s, "file://") {
		parsed, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return s, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
