package handler

import (
	"encoding/json"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/session"
	"github.com/presence-analyzer/dashboard/internal/infrastructure/websocket"
)

var upgrader = gws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// StreamHandler pushes dashboard snapshots to the page over a websocket and
// applies the selector changes the page sends back.
type StreamHandler struct {
	registry    DashboardRegistry
	hub         *websocket.Hub
	defaultView domain.ViewSpec
	validate    *echoValidator
	log         zerolog.Logger
}

func NewStreamHandler(registry DashboardRegistry, hub *websocket.Hub, defaultView domain.ViewSpec, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		registry:    registry,
		hub:         hub,
		defaultView: defaultView,
		validate:    NewValidator(),
		log:         log.With().Str("component", "stream_handler").Logger(),
	}
}

// Stream handles GET /dashboard/ws.
//
// @Summary      Dashboard state stream
// @Description  Upgrades to a websocket. The server sends a snapshot after every state change; the page sends {"type":"selection.change","user_id":"..."}.
// @Tags         dashboard
// @Param        view  query  string  false  "Dashboard view"  Enums(mean_time_weekday, presence_weekday, presence_start_end)
// @Success      101
// @Failure      404   {object}  errorResponse
// @Router       /dashboard/ws [get]
func (h *StreamHandler) Stream(c echo.Context) error {
	sessionID, err := ctxSession(c)
	if err != nil {
		return err
	}
	spec := h.defaultView
	if v := c.QueryParam("view"); v != "" {
		if spec, err = domain.LookupView(v); err != nil {
			return err
		}
	}
	dash, _ := h.registry.Open(sessionID, spec)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(h.hub, conn, session.Topic(sessionID, spec.View), h.log)
	h.hub.Register(client)

	if msg, err := EncodeSnapshot(dash.Snapshot()); err == nil {
		h.hub.Send(client, msg)
	}

	go client.WritePump()
	client.ReadPump(func(raw []byte) {
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Debug().Err(err).Msg("ignoring malformed message")
			return
		}
		if err := h.validate.Validate(&msg); err != nil {
			h.log.Debug().Err(err).Msg("ignoring invalid message")
			return
		}
		if err := h.registry.Touch(sessionID, spec.View); err != nil {
			h.log.Warn().Err(err).Msg("selection for a closed dashboard")
			return
		}
		// Read pump context ends with the connection; fetches detach from it.
		if err := dash.Change(c.Request().Context(), msg.UserID); err != nil {
			h.log.Warn().Err(err).Str("user_id", msg.UserID).Msg("selection change rejected")
		}
	})
	return nil
}
