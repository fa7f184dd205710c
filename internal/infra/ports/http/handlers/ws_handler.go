package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/qrave1/markcollab/internal/application/config"
	"github.com/qrave1/markcollab/internal/application/constant"
	"github.com/qrave1/markcollab/internal/domain/events"
	"github.com/qrave1/markcollab/internal/infra/adapters/memory"
	"github.com/qrave1/markcollab/internal/usecase"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second

	// документ до 1 000 000 символов плюс JSON-экранирование
	maxMessageSize = 16 << 20
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	diagramUsecase usecase.DiagramUsecase

	wsConnRepo memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(
	cfg *config.Config,
	diagramUsecase usecase.DiagramUsecase,
	wsConnRepo memory.WebsocketConnectionRepository,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug {
					return true
				}

				return r.Header.Get("Origin") == cfg.Domain
			},
		},
		diagramUsecase: diagramUsecase,
		wsConnRepo:     wsConnRepo,
	}
}

// deadlineWriter выставляет дедлайн перед каждой записью
type deadlineWriter struct {
	conn *websocket.Conn
}

func (w deadlineWriter) WriteJSON(v any) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return w.conn.WriteJSON(v)
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return nil
	}
	defer ws.Close()

	ctx := c.Request().Context()
	connID := uuid.New()

	h.wsConnRepo.Add(connID, deadlineWriter{conn: ws})
	defer h.diagramUsecase.HandleDisconnect(ctx, connID)

	ws.SetReadLimit(maxMessageSize)

	if err = ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return nil
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go h.keepAlive(ws, connID, done)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(connID, err)
			return nil
		}

		message := new(events.Message)

		if err = json.Unmarshal(msg, message); err != nil {
			slog.Warn(
				"unmarshal websocket message",
				slog.Any(constant.Error, err),
				slog.Any(constant.ConnID, connID),
			)
			continue
		}

		if err = h.handleMessage(ctx, connID, message); err != nil {
			if errors.Is(err, errMalformedEvent) || errors.Is(err, errUnknownType) {
				slog.Warn(
					"ignored websocket message",
					slog.Any(constant.Error, err),
					slog.Any(constant.ConnID, connID),
				)
				continue
			}

			// ошибка хранилища: соединение закрывается, процесс продолжает работу
			slog.Error(
				"handle message",
				slog.Any(constant.Error, err),
				slog.Any(constant.ConnID, connID),
				slog.String(constant.Type, message.Type),
			)

			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "internal error"),
				time.Now().Add(writeWait),
			)

			return nil
		}
	}
}

func (h *WebSocketHandler) keepAlive(ws *websocket.Conn, connID uuid.UUID, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// WriteControl можно вызывать параллельно с WriteJSON
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Debug("ping failed", slog.Any(constant.Error, err), slog.Any(constant.ConnID, connID))
				return
			}
		case <-done:
			return
		}
	}
}

var (
	errMalformedEvent = errors.New("malformed event")
	errUnknownType    = errors.New("unknown message type")
)

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	connID uuid.UUID,
	msg *events.Message,
) error {
	switch msg.Type {
	case events.TypeJoin:
		var joinEvent events.JoinEvent

		if err := json.Unmarshal(msg.Data, &joinEvent); err != nil {
			return fmt.Errorf("%w: join: %w", errMalformedEvent, err)
		}

		if err := h.diagramUsecase.HandleJoin(ctx, connID, joinEvent); err != nil {
			return fmt.Errorf("handle join: %w", err)
		}

	case events.TypeUpdate:
		var updateEvent events.UpdateEvent

		if err := json.Unmarshal(msg.Data, &updateEvent); err != nil {
			return fmt.Errorf("%w: update: %w", errMalformedEvent, err)
		}

		if err := h.diagramUsecase.HandleUpdate(ctx, connID, updateEvent); err != nil {
			return fmt.Errorf("handle update: %w", err)
		}

	case events.TypeReset:
		var resetEvent events.ResetEvent

		if err := json.Unmarshal(msg.Data, &resetEvent); err != nil {
			return fmt.Errorf("%w: reset: %w", errMalformedEvent, err)
		}

		if err := h.diagramUsecase.HandleReset(ctx, connID, resetEvent); err != nil {
			return fmt.Errorf("handle reset: %w", err)
		}

	case events.TypePing:
		if err := h.diagramUsecase.HandlePing(ctx, connID); err != nil {
			return fmt.Errorf("handle ping: %w", err)
		}

	default:
		return fmt.Errorf("%w: %q", errUnknownType, msg.Type)
	}

	return nil
}

func (h *WebSocketHandler) handleWebsocketError(connID uuid.UUID, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
			slog.Info("client disconnected from websocket", slog.Any(constant.ConnID, connID))
		default:
			slog.Warn(
				"websocket closed with error",
				slog.Int("code", closeErr.Code),
				slog.Any(constant.ConnID, connID),
			)
		}

		return
	}

	slog.Error(
		"websocket read",
		slog.Any(constant.Error, err),
		slog.Any(constant.ConnID, connID),
	)
}
