package parking

import (
	"errors"
	"time"

	"parking-sync/core/logger"
	"parking-sync/core/snapshot"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IntervalRequest is the body of PUT /parking/interval.
type IntervalRequest struct {
	// IntervalMS is the new pull interval in milliseconds.
	IntervalMS int `json:"interval_ms" validate:"required,gte=1000,lte=86400000"`
}

// Handler handles HTTP requests for the synchronization state.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

// RegisterRoutes registers the parking routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	group := app.Group("/parking")
	group.Get("/status", h.HandleStatus)
	group.Get("/devices", h.HandleDevices)
	group.Post("/refresh", h.HandleRefresh)
	group.Put("/interval", h.HandleSetInterval)
	group.Get("/snapshot", h.HandleSnapshot)
}

// HandleHealth reports liveness.
// @Summary Health
// @Description Liveness probe with the controller state.
// @Tags parking
// @Produce json
// @Success 200 {object} map[string]string "Status"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"state":  h.service.Status().State,
	})
}

// HandleStatus returns the controller status.
// @Summary Synchronization Status
// @Description Returns the controller state, last sync time, counters and the last refresh report.
// @Tags parking
// @Produce json
// @Success 200 {object} syncer.Status "Status"
// @Router /parking/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleDevices returns the persisted devices with current values.
// @Summary List Devices
// @Description Returns every device of the synchronized context with its groups and endpoint values.
// @Tags parking
// @Produce json
// @Success 200 {array} graph.DeviceView "Devices"
// @Failure 503 {object} map[string]string "Not initialized"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /parking/devices [get]
func (h *Handler) HandleDevices(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	devices, err := h.service.Devices(c.Context())
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to list devices", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(devices)
}

// HandleRefresh triggers a refresh cycle.
// @Summary Refresh Now
// @Description Runs a refresh cycle immediately. Joins the running cycle if one is in progress.
// @Tags parking
// @Produce json
// @Success 200 {object} reconcile.RefreshReport "Refresh Report"
// @Failure 503 {object} map[string]string "Not initialized"
// @Failure 502 {object} map[string]string "Refresh failed"
// @Router /parking/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Manual refresh requested")

	report, err := h.service.Refresh(c.Context())
	if err != nil {
		if errors.Is(err, ErrNotReady) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Manual refresh failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleSetInterval changes the pull interval.
// @Summary Set Pull Interval
// @Description Changes the pull interval. Applies from the next wait of the polling loop.
// @Tags parking
// @Accept json
// @Produce json
// @Param body body IntervalRequest true "New interval"
// @Success 200 {object} map[string]interface{} "Previous and current interval"
// @Failure 400 {object} map[string]string "Invalid interval"
// @Router /parking/interval [put]
func (h *Handler) HandleSetInterval(c *fiber.Ctx) error {
	var req IntervalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	d := time.Duration(req.IntervalMS) * time.Millisecond
	prev := h.service.SetInterval(d)
	return c.JSON(fiber.Map{
		"previous_ms": prev.Milliseconds(),
		"interval_ms": d.Milliseconds(),
	})
}

// HandleSnapshot returns the last archived snapshot.
// @Summary Latest Snapshot
// @Description Returns the facility records archived after the last successful refresh.
// @Tags parking
// @Produce json
// @Success 200 {object} snapshot.Document "Snapshot"
// @Failure 404 {object} map[string]string "No snapshot"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /parking/snapshot [get]
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	doc, err := h.service.Snapshot(c.Context())
	if err != nil {
		if errors.Is(err, ErrSnapshotsDisabled) || errors.Is(err, snapshot.ErrNoSnapshot) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to read snapshot", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(doc)
}
