// Package checkserver 通过 HTTP 和 WebSocket 提供语法检查服务
//
// 接口：
//   - POST /check   请求体 {"code": "..."}，返回 Token 序列和语法树
//   - GET  /healthz 运行状态与计数
//   - GET  /ws      WebSocket 实时检查
package checkserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/tangzhangming/minic/internal/config"
	minicerrors "github.com/tangzhangming/minic/internal/errors"
	"github.com/tangzhangming/minic/internal/frontend"
	"github.com/tangzhangming/minic/internal/serializer"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-ID"

// CheckRequest POST /check 的请求体
type CheckRequest struct {
	Code *string `json:"code"`
}

// CheckResponse 检查结果
//
// code 字段是源码的字符数。
type CheckResponse struct {
	Success bool                 `json:"success"`
	Code    int                  `json:"code"`
	Data    *serializer.Document `json:"data,omitempty"`
	Error   *ErrorBody           `json:"error,omitempty"`
}

// ErrorBody 编译失败时的错误描述
type ErrorBody struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// HealthResponse GET /healthz 的响应
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Requests  int64  `json:"requests"`
	Checks    int64  `json:"checks"`
	Failures  int64  `json:"failures"`
	CacheHits int64  `json:"cache_hits"`
	Cached    int    `json:"cached"`
}

type stats struct {
	requests  atomic.Int64
	checks    atomic.Int64
	failures  atomic.Int64
	cacheHits atomic.Int64
}

// Server 检查服务
type Server struct {
	cfg        config.ServerConfig
	opts       frontend.Options
	logger     *zap.Logger
	cache      *resultCache
	stats      stats
	started    time.Time
	httpServer *http.Server
}

// New 创建检查服务
//
// HTTP 接口总是输出 JSON，配置中的输出格式只影响命令行。
func New(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := frontend.OptionsFromConfig(cfg)
	opts.Output.Format = serializer.FormatJSON

	s := &Server{
		cfg:     cfg.Server,
		opts:    opts,
		logger:  logger.Named("checkserver"),
		cache:   newResultCache(cfg.Server.CacheSize),
		started: time.Now(),
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}
	return s
}

// Handler 返回带中间件的路由
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", s.handleCheck)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/ws", &wsHandler{server: s})
	return requestIDMiddleware(s.loggingMiddleware(mux))
}

// Run 启动服务，ctx 取消后优雅关闭
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("check server listening", zap.String("addr", s.cfg.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping check server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// ============================================================================
// 检查逻辑
// ============================================================================

// Check 检查一段源码，返回 HTTP 状态码和响应
//
// 编译错误返回 422，内部错误返回 500。命中缓存的失败结果同样计入 failures。
func (s *Server) Check(code string) (int, *CheckResponse) {
	s.stats.checks.Inc()

	key := keyOf(code)
	status, resp, ok := s.cache.get(key)
	if ok {
		s.stats.cacheHits.Inc()
	} else {
		status, resp = s.check(code)
		if status != http.StatusInternalServerError {
			s.cache.put(key, status, resp)
		}
	}
	if !resp.Success {
		s.stats.failures.Inc()
	}
	return status, resp
}

func (s *Server) check(code string) (int, *CheckResponse) {
	resp := &CheckResponse{Code: utf8.RuneCountInString(code)}

	result, err := frontend.Compile(code, "", s.opts)
	if err != nil {
		ce := minicerrors.FromError(err)
		resp.Error = &ErrorBody{
			Kind:    ce.Kind,
			Code:    ce.Code,
			Message: ce.Message,
			Line:    ce.Line,
			Column:  ce.Column,
		}
		if ce.Code == minicerrors.E0001 {
			s.logger.Error("internal error during check", zap.Error(err))
			return http.StatusInternalServerError, resp
		}
		return http.StatusUnprocessableEntity, resp
	}

	resp.Success = true
	resp.Data = result.Document(s.opts.Output)
	return http.StatusOK, resp
}

// ============================================================================
// HTTP 处理
// ============================================================================

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := s.cfg.MaxBodyBytes
	if limit <= 0 {
		limit = config.Default().Server.MaxBodyBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var req CheckRequest
	if err := json.Unmarshal(body, &req); err != nil || req.Code == nil {
		writeError(w, http.StatusBadRequest, `request body must be {"code": "..."}`)
		return
	}

	status, resp := s.Check(*req.Code)
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Health())
}

// Health 返回当前运行状态
func (s *Server) Health() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Requests:  s.stats.requests.Load(),
		Checks:    s.stats.checks.Load(),
		Failures:  s.stats.failures.Load(),
		CacheHits: s.stats.cacheHits.Load(),
		Cached:    s.cache.len(),
	}
}

// writeJSON 写出 JSON 响应，不转义 HTML 字符
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// ============================================================================
// 中间件
// ============================================================================

// requestIDMiddleware 为每个请求分配 ID，客户端已提供时沿用
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.stats.requests.Inc()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapper.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get(RequestIDHeader)),
		)
	})
}

// responseWrapper 记录状态码
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack 供 WebSocket 升级接管连接
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
