package risk

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type Handler struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHandler(svc *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With().Str("component", "risk_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/predictions/:id", h.Assess)
	api.GET("/predictions", h.List)
	api.DELETE("/predictions", h.Clear)
	api.GET("/model/info", h.ModelInfo)
	api.GET("/cohort/stats", h.CohortStats)
}

// Assess scores one patient through the external service. Scoring failures
// of any kind come back as a generic 502; the detail stays in the log.
func (h *Handler) Assess(c echo.Context) error {
	result, err := h.svc.Assess(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			h.logger.Error().Err(reqErr).Str("patient_id", c.Param("id")).Msg("assessment failed")
			return echo.NewHTTPError(http.StatusBadGateway, "risk assessment service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "assessment failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) List(c echo.Context) error {
	results := h.svc.List()
	if results == nil {
		results = []*Result{}
	}
	return c.JSON(http.StatusOK, results)
}

func (h *Handler) Clear(c echo.Context) error {
	if err := h.svc.ClearAll(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear predictions")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear predictions")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ModelInfo(c echo.Context) error {
	info, err := h.svc.ModelInfo(c.Request().Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("model info fetch failed")
		return echo.NewHTTPError(http.StatusBadGateway, "risk assessment service unavailable")
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handler) CohortStats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.CohortStats())
}
