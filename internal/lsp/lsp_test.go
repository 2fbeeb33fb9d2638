package lsp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tangzhangming/minic/internal/config"
	"github.com/tangzhangming/minic/internal/errors"
	"github.com/tangzhangming/minic/internal/frontend"
)

// ============================================================================
// Document Manager Tests
// ============================================================================

func TestDocumentManager_Open(t *testing.T) {
	dm := NewDocumentManager(frontend.Options{})

	doc := dm.Open("file:///tmp/ok.c", "void main() { outputInt(1); }", 1)
	if doc.Err != nil {
		t.Fatalf("unexpected error: %v", doc.Err)
	}
	if doc.Version != 1 || dm.Len() != 1 {
		t.Errorf("version %d, documents %d", doc.Version, dm.Len())
	}
	if got := dm.Get("file:///tmp/ok.c"); got != doc {
		t.Error("Get returned a different document")
	}

	doc = dm.Open("file:///tmp/bad.c", "void main() { outputInt(1) }", 1)
	if doc.Err == nil || doc.Err.Code != errors.E0006 {
		t.Fatalf("expected E0006, got %v", doc.Err)
	}
	if doc.Err.File != "/tmp/bad.c" {
		t.Errorf("file %q", doc.Err.File)
	}
}

func TestDocumentManager_UpdateAndClose(t *testing.T) {
	dm := NewDocumentManager(frontend.Options{})
	dm.Open("untitled:1", "void main() {", 1)

	doc := dm.Update("untitled:1", "void main() {}", 2)
	if doc.Err != nil || doc.Version != 2 {
		t.Errorf("update: version %d, err %v", doc.Version, doc.Err)
	}
	if doc.Filename() != "untitled:1" {
		t.Errorf("filename %q", doc.Filename())
	}

	dm.Close("untitled:1")
	if dm.Get("untitled:1") != nil || dm.Len() != 0 {
		t.Error("document should be closed")
	}

	if doc := dm.Update("untitled:2", "int", 1); doc.Err == nil {
		t.Error("updating an unknown document should still check it")
	}
}

func TestCompileErrorToDiagnostic(t *testing.T) {
	ce := &errors.CompileError{
		Code:      errors.E0002,
		Level:     errors.LevelError,
		Message:   "unexpected character '#'",
		Line:      3,
		Column:    5,
		EndColumn: 5,
		Hints:     []string{"remove it"},
	}
	d := CompileErrorToDiagnostic(ce)

	want := protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 5},
	}
	if d.Range != want {
		t.Errorf("range %+v, want %+v", d.Range, want)
	}
	if d.Severity != protocol.DiagnosticSeverityError || d.Code != "E0002" || d.Source != "minic" {
		t.Errorf("diagnostic %+v", d)
	}
	if d.Message != "unexpected character '#'\nremove it" {
		t.Errorf("message %q", d.Message)
	}

	if got := getDiagnostics(&Document{}); got == nil || len(got) != 0 {
		t.Errorf("clean document should give an empty non-nil slice, got %#v", got)
	}
}

func TestDiagnosticsUseUTF16Columns(t *testing.T) {
	dm := NewDocumentManager(frontend.Options{})
	// é 占 2 字节 1 个码元，😀 占 4 字节 2 个码元
	doc := dm.Open("untitled:utf16", "void g() {}\n/* é😀 */ void f() { x = ; }", 1)

	got := getDiagnostics(doc)
	if len(got) != 1 {
		t.Fatalf("expected one diagnostic, got %d", len(got))
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 25},
		End:   protocol.Position{Line: 1, Character: 26},
	}
	if got[0].Range != want {
		t.Errorf("range %+v, want %+v", got[0].Range, want)
	}
}

func TestUTF16Column(t *testing.T) {
	tests := []struct {
		text    string
		byteCol int
		want    uint32
	}{
		{"abc", 2, 2},
		{"é;", 2, 1},
		{"😀;", 4, 2},
		{"ab", 4, 4},
	}
	for _, tt := range tests {
		if got := utf16Column(tt.text, tt.byteCol); got != tt.want {
			t.Errorf("utf16Column(%q, %d) = %d, want %d", tt.text, tt.byteCol, got, tt.want)
		}
	}
}

// ============================================================================
// Protocol Tests
// ============================================================================

type testClient struct {
	conn        jsonrpc2.Conn
	diagnostics chan protocol.PublishDiagnosticsParams
	served      chan error
}

func startServer(t *testing.T) *testClient {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverSide, clientSide := net.Pipe()
	srv := NewServer(config.Default(), "test", nil)

	c := &testClient{
		conn:        jsonrpc2.NewConn(jsonrpc2.NewStream(clientSide)),
		diagnostics: make(chan protocol.PublishDiagnosticsParams, 8),
		served:      make(chan error, 1),
	}
	go func() { c.served <- srv.Serve(ctx, serverSide) }()

	c.conn.Go(ctx, func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if req.Method() == protocol.MethodTextDocumentPublishDiagnostics {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				t.Errorf("bad diagnostics params: %v", err)
			}
			c.diagnostics <- params
		}
		return reply(ctx, nil, nil)
	})
	t.Cleanup(func() { _ = c.conn.Close() })
	return c
}

func (c *testClient) call(t *testing.T, method string, params, result interface{}) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.conn.Call(ctx, method, params, result)
	return err
}

func (c *testClient) notify(t *testing.T, method string, params interface{}) {
	t.Helper()
	if err := c.conn.Notify(context.Background(), method, params); err != nil {
		t.Fatal(err)
	}
}

func (c *testClient) nextDiagnostics(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-c.diagnostics:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		return protocol.PublishDiagnosticsParams{}
	}
}

func (c *testClient) initialize(t *testing.T) {
	t.Helper()
	var result protocol.InitializeResult
	if err := c.call(t, protocol.MethodInitialize, &protocol.InitializeParams{}, &result); err != nil {
		t.Fatal(err)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "minic" {
		t.Errorf("server info %+v", result.ServerInfo)
	}
	c.notify(t, protocol.MethodInitialized, &protocol.InitializedParams{})
}

func TestServerPublishesDiagnostics(t *testing.T) {
	c := startServer(t)
	c.initialize(t)

	docURI := uri.File("/tmp/main.c")
	c.notify(t, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        docURI,
			LanguageID: "c",
			Version:    1,
			Text:       "void main() {\n  x = 1 +;\n}",
		},
	})

	d := c.nextDiagnostics(t)
	if d.URI != docURI || d.Version != 1 {
		t.Errorf("uri %s version %d", d.URI, d.Version)
	}
	if len(d.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", d.Diagnostics)
	}
	diag := d.Diagnostics[0]
	if diag.Range.Start.Line != 1 || diag.Range.Start.Character != 9 || diag.Code != "E0006" {
		t.Errorf("diagnostic %+v", diag)
	}

	c.notify(t, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: docURI},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: "void main() {\n  x = 1 + 2;\n}"}},
	})
	if d := c.nextDiagnostics(t); d.Version != 2 || len(d.Diagnostics) != 0 {
		t.Errorf("fixed document should clear diagnostics: %+v", d)
	}

	c.notify(t, protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	if d := c.nextDiagnostics(t); d.URI != docURI || len(d.Diagnostics) != 0 {
		t.Errorf("close should clear diagnostics: %+v", d)
	}

	if err := c.call(t, protocol.MethodShutdown, nil, nil); err != nil {
		t.Fatal(err)
	}
	c.notify(t, protocol.MethodExit, nil)

	select {
	case err := <-c.served:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit")
	}
}

func TestServerRequiresInitialize(t *testing.T) {
	c := startServer(t)

	err := c.call(t, "textDocument/hover", &protocol.HoverParams{}, nil)
	var rpcErr *jsonrpc2.Error
	if !asRPCError(err, &rpcErr) || rpcErr.Code != jsonrpc2.ServerNotInitialized {
		t.Errorf("expected ServerNotInitialized, got %v", err)
	}

	c.initialize(t)
	err = c.call(t, "textDocument/hover", &protocol.HoverParams{}, nil)
	if !asRPCError(err, &rpcErr) || rpcErr.Code != jsonrpc2.MethodNotFound {
		t.Errorf("expected MethodNotFound, got %v", err)
	}
}

func TestExitWithoutShutdown(t *testing.T) {
	c := startServer(t)
	c.initialize(t)
	c.notify(t, protocol.MethodExit, nil)

	select {
	case err := <-c.served:
		if err != ErrExitWithoutShutdown {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not exit")
	}
}

func asRPCError(err error, target **jsonrpc2.Error) bool {
	e, ok := err.(*jsonrpc2.Error)
	if ok {
		*target = e
	}
	return ok
}
