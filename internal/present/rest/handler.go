package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/starcharter/orbits/internal/domain"
	"github.com/starcharter/orbits/internal/present/rest/middleware"
	"github.com/starcharter/orbits/internal/present/rest/presenter"
	"github.com/starcharter/orbits/internal/service"
	"github.com/starcharter/orbits/internal/usecase"
)

type Handler struct {
	config domain.Config
	orbit  *usecase.OrbitUsecase
	signal service.Stream
}

func NewHandler(
	config domain.Config,
	orbit *usecase.OrbitUsecase,
	signal service.Stream,
) *Handler {
	return &Handler{
		config: config,
		orbit:  orbit,
		signal: signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, admin *middleware.AdminMiddleware) {
	e.GET("/.well-known/orbits", h.handleWellKnown)
	e.POST("/xrpc/"+domain.NSIDOrbitCreate, h.handleCreate, admin.RequireAdmin)
	e.GET("/xrpc/"+domain.NSIDOrbitGet, h.handleGet)
	e.GET("/xrpc/"+domain.NSIDOrbitList, h.handleList)
	e.POST("/xrpc/"+domain.NSIDOrbitUpdate, h.handleUpdate, admin.RequireAdmin)
	e.GET("/xrpc/"+domain.NSIDOrbitSubscribe, h.handleSubscribe)
}

func (h *Handler) handleWellKnown(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"version": "1.0",
		"domain":  h.config.FQDN,
		"did":     h.config.ServiceDID,
		"endpoints": map[string]string{
			domain.NSIDOrbitCreate:    "/xrpc/" + domain.NSIDOrbitCreate,
			domain.NSIDOrbitGet:       "/xrpc/" + domain.NSIDOrbitGet,
			domain.NSIDOrbitList:      "/xrpc/" + domain.NSIDOrbitList,
			domain.NSIDOrbitUpdate:    "/xrpc/" + domain.NSIDOrbitUpdate,
			domain.NSIDOrbitSubscribe: "/xrpc/" + domain.NSIDOrbitSubscribe,
		},
	})
}

type createOrbitRequest struct {
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Feeds       map[string]string `json:"feeds"`
}

func (h *Handler) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req createOrbitRequest
	if err := c.Bind(&req); err != nil {
		return presenter.InvalidRequest(c, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return presenter.InvalidRequest(c, err.Error())
	}

	ref, err := h.orbit.Create(ctx, usecase.CreateOrbitInput{
		Name:        req.Name,
		Description: req.Description,
		Feeds:       req.Feeds,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, ref)
}

func (h *Handler) handleGet(c echo.Context) error {
	ctx := c.Request().Context()

	view, err := h.orbit.Get(ctx, c.QueryParam("uri"))
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, view)
}

func (h *Handler) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	// absent or unparsable limit falls back to the default
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	views, err := h.orbit.List(ctx, limit)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{"records": views})
}

func (h *Handler) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return presenter.InvalidRequest(c, err.Error())
	}

	uri, _ := fields["uri"].(string)
	delete(fields, "uri")

	ref, err := h.orbit.Update(ctx, uri, fields)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, ref)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleSubscribe(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	events, cancel := h.signal.Subscribe(ctx)
	defer cancel()

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var probe map[string]any
			err := ws.ReadJSON(&probe)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}
			// inbound messages are heartbeats only
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
