// Package http exposes the optional status API: liveness and the recent
// round history. The game itself never depends on it.
package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/doronnac/elsa/store"
)

// Handler serves the status endpoints.
type Handler struct {
	store    store.Store
	scenario string
}

// NewHandler creates a status handler over the round store.
func NewHandler(st store.Store, scenario string) *Handler {
	return &Handler{store: st, scenario: scenario}
}

// RegisterRoutes registers the status routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.health)
	e.GET("/v1/rounds", h.listRounds)
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"scenario": h.scenario,
	})
}

func (h *Handler) listRounds(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}
	if limit > 100 {
		limit = 100
	}

	rounds, err := h.store.ListRounds(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list rounds")
	}
	if rounds == nil {
		rounds = []store.Round{}
	}
	return c.JSON(http.StatusOK, rounds)
}

// NewServer builds the echo instance with the status routes mounted.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	h.RegisterRoutes(e)
	return e
}
