package main

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"contractlens-backend/internal/analysis"
	"contractlens-backend/internal/apperr"
)

// maxMessageBytes bounds one client frame; contract text arrives inline.
const maxMessageBytes = 2 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, you should restrict this to your frontend domain
		return true
	},
}

// Message types on /ws/analyze.
const (
	MsgAnalyze  = "analyze"
	MsgPing     = "ping"
	MsgSystem   = "system"
	MsgProgress = "progress"
	MsgResult   = "result"
	MsgError    = "error"
	MsgPong     = "pong"
)

// Progress steps sent before the result.
const (
	StepDone  = "DONE"
	StepError = "ERROR"
)

type WebSocketHandler struct {
	analyzer *analysis.Analyzer
	logger   *zap.Logger
}

type Message struct {
	Type             string               `json:"type"`
	Content          string               `json:"content,omitempty"`
	Text             string               `json:"text,omitempty"`
	ContractTypeHint string               `json:"contractTypeHint,omitempty"`
	Step             string               `json:"step,omitempty"`
	Result           *analysis.FullResult `json:"result,omitempty"`
	Error            *apperr.Error        `json:"error,omitempty"`
}

func NewWebSocketHandler(analyzer *analysis.Analyzer, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// conn serializes writes; gorilla allows only one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(msg)
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(maxMessageBytes)

	// Analyses in flight are cancelled, then awaited, before the socket closes.
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	cn := &conn{ws: ws}
	h.logger.Debug("websocket connection established")

	if err := cn.send(Message{Type: MsgSystem, Content: "Connected to ContractLens. Send {\"type\":\"analyze\",\"text\":...} to start."}); err != nil {
		h.logger.Debug("error sending welcome message", zap.Error(err))
		return nil
	}

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.Error(err))
			}
			return nil
		}

		switch msg.Type {
		case MsgAnalyze:
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.analyze(ctx, cn, msg)
			}()
		case MsgPing:
			if err := cn.send(Message{Type: MsgPong, Content: "pong"}); err != nil {
				return nil
			}
		default:
			if err := cn.send(Message{Type: MsgError, Step: StepError, Error: &apperr.Error{Code: apperr.Unknown, Message: "Unknown message type"}}); err != nil {
				return nil
			}
		}
	}
}

func (h *WebSocketHandler) analyze(ctx context.Context, cn *conn, msg Message) {
	if strings.TrimSpace(msg.Text) == "" {
		h.sendError(cn, &apperr.Error{Code: apperr.Unknown, Message: "Text is required"})
		return
	}

	res, err := h.analyzer.Full(ctx, analysis.Input{
		Text:             msg.Text,
		ContractTypeHint: msg.ContractTypeHint,
		OnStage: func(s analysis.Stage) {
			if err := cn.send(Message{Type: MsgProgress, Step: strings.ToUpper(string(s))}); err != nil {
				h.logger.Debug("error sending progress", zap.Error(err))
			}
		},
	})
	if err != nil {
		h.sendError(cn, apperr.From(err))
		return
	}

	if err := cn.send(Message{Type: MsgProgress, Step: StepDone}); err != nil {
		h.logger.Debug("error sending progress", zap.Error(err))
		return
	}
	if err := cn.send(Message{Type: MsgResult, Result: res}); err != nil {
		h.logger.Debug("error sending result", zap.Error(err))
	}
}

func (h *WebSocketHandler) sendError(cn *conn, e *apperr.Error) {
	if err := cn.send(Message{Type: MsgError, Step: StepError, Error: e}); err != nil {
		h.logger.Debug("error sending error message", zap.Error(err))
	}
}
