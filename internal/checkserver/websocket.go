package checkserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 1 << 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 本地编辑器和页面直接连接
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessage 客户端消息
//
// type 为 "check" 时 code 为待检查的源码；"ping" 无其他字段。
type WSMessage struct {
	Type string `json:"type"`
	Code string `json:"code,omitempty"`
}

// WSResponse 服务端消息
//
// type 为 "result"、"pong" 或 "error"。
type WSResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload 协议错误
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSResultPayload 检查结果及其 HTTP 等价状态码
type WSResultPayload struct {
	Status int `json:"status"`
	*CheckResponse
}

type wsHandler struct {
	server *Server
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(RequestIDHeader)
	// 升级响应不经过 ResponseWriter 的 Header，需要单独带上请求 ID
	conn, err := upgrader.Upgrade(w, r, http.Header{RequestIDHeader: []string{requestID}})
	if err != nil {
		h.server.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.handleConnection(conn, requestID)
}

// handleConnection 按顺序处理一个连接上的消息，因此写操作无需加锁
func (h *wsHandler) handleConnection(conn *websocket.Conn, requestID string) {
	defer conn.Close()

	logger := h.server.logger.With(zap.String("request_id", requestID))
	logger.Debug("websocket connected", zap.String("remote", conn.RemoteAddr().String()))

	conn.SetReadLimit(wsMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read error", zap.Error(err))
			} else {
				logger.Debug("websocket closed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(conn, logger, errorResponse("invalid_message", "message must be a JSON object"))
			continue
		}

		switch msg.Type {
		case "ping":
			h.send(conn, logger, WSResponse{Type: "pong"})

		case "check":
			status, resp := h.server.Check(msg.Code)
			h.send(conn, logger, WSResponse{
				Type:    "result",
				Payload: WSResultPayload{Status: status, CheckResponse: resp},
			})

		default:
			h.send(conn, logger, errorResponse("unknown_type", "unknown message type: "+msg.Type))
		}
	}
}

func (h *wsHandler) send(conn *websocket.Conn, logger *zap.Logger, resp WSResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("encode websocket response", zap.Error(err))
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		logger.Warn("websocket write failed", zap.Error(err))
	}
}

func errorResponse(code, message string) WSResponse {
	return WSResponse{Type: "error", Payload: WSErrorPayload{Code: code, Message: message}}
}
