// Package lsp 实现只提供诊断的语言服务器
//
// 支持的消息：initialize、initialized、shutdown、exit、
// textDocument/didOpen、didChange、didClose。
// 每次打开或修改文档后推送 textDocument/publishDiagnostics。
package lsp

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"sync"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/minic/internal/config"
	"github.com/tangzhangming/minic/internal/frontend"
)

// ErrExitWithoutShutdown 客户端未发送 shutdown 就要求退出
var ErrExitWithoutShutdown = stderrors.New("exit received before shutdown")

// Server LSP 服务器
type Server struct {
	documents *DocumentManager
	logger    *zap.Logger
	version   string

	conn jsonrpc2.Conn

	// 服务器状态
	initialized atomic.Bool
	shutdown    atomic.Bool
	exited      chan struct{}
	exitOnce    sync.Once
}

// NewServer 创建 LSP 服务器
func NewServer(cfg *config.Config, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		documents: NewDocumentManager(frontend.OptionsFromConfig(cfg)),
		logger:    logger.Named("lsp"),
		version:   version,
		exited:    make(chan struct{}),
	}
}

// Documents 返回文档管理器
func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// Serve 在给定连接上运行服务器，直到收到 exit、连接关闭或 ctx 取消
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(ctx, s.handle)
	s.logger.Info("language server started")

	select {
	case <-s.exited:
		_ = s.conn.Close()
		<-s.conn.Done()
		s.logger.Info("language server exited")
		if !s.shutdown.Load() {
			return ErrExitWithoutShutdown
		}
		return nil

	case <-s.conn.Done():
		err := s.conn.Err()
		if err == nil || stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrClosedPipe) {
			s.logger.Info("client disconnected")
			return nil
		}
		return err

	case <-ctx.Done():
		_ = s.conn.Close()
		<-s.conn.Done()
		return ctx.Err()
	}
}

// ServeStdio 在标准输入输出上运行服务器
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, stdio{})
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error {
	return stderrors.Join(os.Stdin.Close(), os.Stdout.Close())
}

// ============================================================================
// 消息分发
// ============================================================================

// handle 处理收到的消息
//
// 只有连接无法继续使用时才返回错误，协议层面的问题通过 reply 返回给客户端。
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("received", zap.String("method", req.Method()))

	switch req.Method() {
	case protocol.MethodInitialize:
		return s.handleInitialize(ctx, reply, req)
	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)
	case protocol.MethodShutdown:
		s.shutdown.Store(true)
		return reply(ctx, nil, nil)
	case protocol.MethodExit:
		s.exitOnce.Do(func() { close(s.exited) })
		return reply(ctx, nil, nil)
	}

	if !s.initialized.Load() {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.ServerNotInitialized, "server not initialized"))
	}
	if s.shutdown.Load() {
		return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InvalidRequest, "server is shutting down"))
	}

	switch req.Method() {
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		doc := s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		s.publishDiagnostics(ctx, doc)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		if len(params.ContentChanges) == 0 {
			return reply(ctx, nil, nil)
		}
		// 同步方式为 Full，最后一次变更即完整内容
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		doc := s.documents.Update(params.TextDocument.URI, text, params.TextDocument.Version)
		s.publishDiagnostics(ctx, doc)
		return reply(ctx, nil, nil)

	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
		s.documents.Close(params.TextDocument.URI)
		s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
		return reply(ctx, nil, nil)
	}

	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func (s *Server) handleInitialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.InitializeParams
	if len(req.Params()) > 0 {
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return replyParseError(ctx, reply, err)
		}
	}
	if params.ClientInfo != nil {
		s.logger.Info("client connected",
			zap.String("client", params.ClientInfo.Name),
			zap.String("client_version", params.ClientInfo.Version),
		)
	}
	s.initialized.Store(true)

	return reply(ctx, &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "minic",
			Version: s.version,
		},
	}, nil)
}

// publishDiagnostics 推送文档的诊断信息
func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) {
	params := &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: getDiagnostics(doc),
	}
	if doc.Version > 0 {
		params.Version = uint32(doc.Version)
	}
	s.notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, params)
}

func (s *Server) notify(ctx context.Context, method string, params interface{}) {
	if err := s.conn.Notify(ctx, method, params); err != nil {
		s.logger.Warn("notify failed", zap.String("method", method), zap.Error(err))
	}
}

func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, jsonrpc2.Errorf(jsonrpc2.InvalidParams, "invalid params: %v", err))
}
