/*
Package lsp exposes a facade.Engine as a Language Server Protocol server
over stdio: open/change notifications re-parse the document and publish
diagnostics from its markers, textDocument/completion calls
facade.Engine.Predict, and textDocument/semanticTokens/full renders its
styles.

Grounded on dhamidi/sai's java/codebase/lsp.go for the glsp.Handler
wiring shape (Initialize/Initialized/Shutdown/SetTrace,
TextDocumentDidOpen/DidChange/DidClose, TextDocumentCompletion) and on
its cmd/sai/cmd_lsp.go for how the server is started from a CLI
subcommand (see cmd/dieselc).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package lsp

import (
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	diesel "github.com/scala-steward/diesel-core"
	"github.com/scala-steward/diesel-core/facade"
	"github.com/scala-steward/diesel-core/marker"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

func tracer() tracing.Trace {
	return tracing.Select("diesel.lsp")
}

const serverName = "dieselc"

// Server is a Language Server Protocol front-end for a single
// facade.Engine and axiom.
type Server struct {
	engine  *facade.Engine
	axiom   string
	version string

	handler protocol.Handler
	srv     *server.Server

	mu    sync.Mutex
	docs  map[string]string
}

// NewServer creates a Server that parses every open document against
// engine, resolving axiomName per document (empty uses the grammar's
// first declared axiom).
func NewServer(engine *facade.Engine, axiomName, version string) *Server {
	s := &Server{engine: engine, axiom: axiomName, version: version, docs: make(map[string]string)}

	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.textDocumentDidOpen,
		TextDocumentDidChange:          s.textDocumentDidChange,
		TextDocumentDidClose:           s.textDocumentDidClose,
		TextDocumentCompletion:         s.textDocumentCompletion,
		TextDocumentSemanticTokensFull: s.textDocumentSemanticTokensFull,
	}
	s.srv = server.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio blocks, serving LSP requests over stdin/stdout.
func (s *Server) RunStdio() error {
	return s.srv.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes: semanticTokenTypes,
		},
		Full: &protocol.SemanticTokensOptionsFull{Value: true},
	}

	version := s.version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	tracer().Infof("%s initialized", serverName)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error { return nil }

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.updateDoc(params.TextDocument.URI, params.TextDocument.Text)
	s.publishDiagnostics(ctx, params.TextDocument.URI)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.updateDoc(params.TextDocument.URI, whole.Text)
		s.publishDiagnostics(ctx, params.TextDocument.URI)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) updateDoc(uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
}

func (s *Server) doc(uri string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	text, ok := s.doc(uri)
	if !ok {
		return
	}
	res, err := s.engine.Parse(text, s.axiom)
	if err != nil {
		tracer().Errorf("parse %s: %v", uri, err)
		return
	}
	diags := make([]protocol.Diagnostic, 0, len(res.Markers))
	for _, m := range res.Markers {
		diags = append(diags, toDiagnostic(text, m))
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	offset := positionToOffset(text, params.Position)
	res, err := s.engine.Predict(text, offset, s.axiom)
	if err != nil {
		tracer().Errorf("predict %s: %v", params.TextDocument.URI, err)
		return nil, nil
	}
	items := make([]protocol.CompletionItem, 0, len(res.Proposals))
	for _, p := range res.Proposals {
		label := p.Text
		kind := protocol.CompletionItemKindText
		items = append(items, protocol.CompletionItem{
			Label: label,
			Kind:  &kind,
		})
	}
	return items, nil
}

func (s *Server) textDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (any, error) {
	text, ok := s.doc(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	res, err := s.engine.Parse(text, s.axiom)
	if err != nil || res.Tree == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(text, res.Styles)}, nil
}

// semanticTokenTypes is the fixed legend this server advertises. The style
// class "constant" is reported as "number"; any other class outside this
// list is dropped from the semantic tokens response.
var semanticTokenTypes = []string{"keyword", "string", "number", "operator", "comment", "variable"}

func tokenTypeIndex(class string) (uint32, bool) {
	for i, t := range semanticTokenTypes {
		if t == class {
			return uint32(i), true
		}
		if class == "constant" && t == "number" {
			return uint32(i), true
		}
	}
	return 0, false
}

// encodeSemanticTokens renders Styles into the LSP semantic-tokens
// relative-delta wire format (deltaLine, deltaStartChar, length,
// tokenType, tokenModifiers repeated per token), per
// textDocument/semanticTokens/full's data encoding.
func encodeSemanticTokens(text string, styles []marker.Style) []uint32 {
	data := make([]uint32, 0, len(styles)*5)
	var prevLine, prevChar uint32
	for _, st := range styles {
		idx, ok := tokenTypeIndex(st.Class)
		if !ok {
			continue
		}
		pos := offsetToPosition(text, st.Span.From())
		length := uint32(st.Span.Len())
		deltaLine := pos.Line - prevLine
		deltaChar := pos.Character
		if deltaLine == 0 {
			deltaChar = pos.Character - prevChar
		}
		data = append(data, deltaLine, deltaChar, length, idx, 0)
		prevLine, prevChar = pos.Line, pos.Character
	}
	return data
}

func toDiagnostic(text string, m marker.Marker) protocol.Diagnostic {
	sev := toDiagnosticSeverity(m.Severity)
	source := serverName
	return protocol.Diagnostic{
		Range:    toRange(text, m.Span),
		Severity: &sev,
		Source:   &source,
		Message:  m.Message,
	}
}

func toDiagnosticSeverity(sev marker.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case marker.SeverityError:
		return protocol.DiagnosticSeverityError
	case marker.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func toRange(text string, span diesel.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(text, span.From()),
		End:   offsetToPosition(text, span.To()),
	}
}

// offsetToPosition converts a byte offset into text into an LSP
// Position (0-based line, UTF-16 code-unit character). The engine's
// Span offsets are byte offsets into the same source text the client
// sent, so this walk is the one piece of position math every byte-offset
// protocol surface (LSP, but also a plain CLI with "line:col" output)
// independently needs; no pack dependency models LSP position encoding,
// so this stays on the standard library.
func offsetToPosition(text string, offset uint64) protocol.Position {
	if offset > uint64(len(text)) {
		offset = uint64(len(text))
	}
	head := text[:offset]
	line := uint32(strings.Count(head, "\n"))
	lineStart := 0
	if idx := strings.LastIndexByte(head, '\n'); idx >= 0 {
		lineStart = idx + 1
	}
	return protocol.Position{Line: line, Character: uint32(utf16Len(head[lineStart:]))}
}

// positionToOffset is offsetToPosition's inverse: it finds the byte
// offset of a given line/character position within text.
func positionToOffset(text string, pos protocol.Position) uint64 {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return uint64(len(text))
	}
	var offset uint64
	for i := 0; i < int(pos.Line); i++ {
		offset += uint64(len(lines[i])) + 1
	}
	line := lines[pos.Line]
	col := utf16ToByteOffset(line, int(pos.Character))
	return offset + uint64(col)
}

// utf16Len counts the UTF-16 code units s would occupy, since LSP
// positions are UTF-16-based regardless of the server's own encoding.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// utf16ToByteOffset converts a UTF-16 code-unit column within line into
// a byte offset.
func utf16ToByteOffset(line string, col int) int {
	units := 0
	for i, r := range line {
		if units >= col {
			return i
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return len(line)
}

func boolPtr(b bool) *bool { return &b }

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
