package session

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eleven-am/voice-bridge/internal/shared"
)

// Handler exposes the session records kept in Redis for operational
// inspection alongside /stats.
type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sessions", h.ListActive)
	e.GET("/sessions/:id", h.GetByID)
}

type ListResponse struct {
	Count    int        `json:"count"`
	Sessions []*Session `json:"sessions"`
}

// @Summary      Active sessions
// @Description  Lists the session records currently marked active
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      500  {object}  shared.APIError
// @Router       /sessions [get]
func (h *Handler) ListActive(c echo.Context) error {
	sessions, err := h.store.ActiveSessions(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		return shared.InternalError("list_failed", "failed to list sessions")
	}

	return c.JSON(http.StatusOK, ListResponse{
		Count:    len(sessions),
		Sessions: sessions,
	})
}

// @Summary      Session record
// @Description  Returns one session record by id, whether still active or already ended
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  Session
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /sessions/{id} [get]
func (h *Handler) GetByID(c echo.Context) error {
	id := c.Param("id")

	sess, err := h.store.GetSession(c.Request().Context(), id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("session_not_found", "session not found")
		}
		h.logger.Error("failed to get session", "error", err, "session_id", id)
		return shared.InternalError("get_failed", "failed to get session")
	}

	return c.JSON(http.StatusOK, sess)
}
