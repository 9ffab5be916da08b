package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/eleven-am/voice-bridge/internal/protocol"
	"github.com/eleven-am/voice-bridge/internal/shared"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	deps   BridgeDeps
	logger *slog.Logger
}

func NewHandler(deps BridgeDeps) *Handler {
	return &Handler{
		deps:   deps,
		logger: deps.Logger.With("component", "gateway"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.HandleWS)
	e.POST("/broadcast", h.Broadcast)
}

type BroadcastRequest struct {
	Message string `json:"message" example:"maintenance in 5 minutes"`
}

type BroadcastResponse struct {
	Message          string `json:"message"`
	SentTo           int    `json:"sent_to"`
	TotalConnections int    `json:"total_connections"`
}

// @Summary      Voice websocket
// @Description  Upgrades to a websocket and bridges the client to a live conversation session
// @Tags         bridge
// @Router       /ws [get]
func (h *Handler) HandleWS(c echo.Context) error {
	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	conn := NewClientConn(ws, shared.NewID("conn_"), h.deps.Logger)
	bridge := NewBridge(conn, h.deps)

	h.logger.Info("client connected", "connection_id", conn.ID(), "remote_addr", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	go conn.writePump(ctx)

	if err := bridge.Start(ctx); err != nil {
		h.logger.Error("bridge start failed", "connection_id", conn.ID(), "error", err)
		return nil
	}

	conn.readPump(ctx, bridge)
	_ = bridge.Close()

	h.logger.Info("client disconnected", "connection_id", conn.ID())
	return nil
}

// @Summary      Broadcast an announcement
// @Description  Fans one message out to every connected client
// @Tags         bridge
// @Accept       json
// @Produce      json
// @Param        request  body      BroadcastRequest  true  "Announcement"
// @Success      200      {object}  BroadcastResponse
// @Failure      400      {object}  shared.APIError
// @Router       /broadcast [post]
func (h *Handler) Broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return shared.NewAPIError("invalid_request", "invalid request body").
			WithDetails(err.Error()).
			ToHTTP(http.StatusBadRequest)
	}
	if req.Message == "" {
		return shared.BadRequest("missing_message", "message is required")
	}

	frame := protocol.Broadcast{Message: req.Message}

	sent := 0
	total := 0
	h.deps.Registry.ForEach(func(id string, b *Bridge) {
		total++
		if err := b.Deliver(frame); err != nil {
			h.logger.Warn("broadcast delivery failed", "connection_id", id, "error", err)
			return
		}
		sent++
	})

	h.deps.Metrics.RecordBroadcast(sent, total-sent)
	h.logger.Info("broadcast sent", "sent_to", sent, "total_connections", total)

	return c.JSON(http.StatusOK, BroadcastResponse{
		Message:          "broadcast sent",
		SentTo:           sent,
		TotalConnections: total,
	})
}
