package health

import (
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorage)
	group.Get("/database", h.HandleDatabase)
	group.Get("/connections", h.HandleConnections)
}

func statusCode(status string) int {
	if status == StatusOK || status == StatusDisabled {
		return fiber.StatusOK
	}
	return fiber.StatusServiceUnavailable
}

// HandleHealth runs all health checks.
// @Summary Service Health
// @Description Reports the export bucket, the database schema and every platform connection.
// @Tags health
// @Produce json
// @Success 200 {object} Report "Healthy"
// @Failure 503 {object} Report "Degraded"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report := h.service.Check(c.Context())
	if report.Status != StatusOK {
		l.Warn("Health check degraded",
			zap.String("storage", report.Storage.Status),
			zap.String("database", report.Database.Status))
	}
	return c.Status(statusCode(report.Status)).JSON(report)
}

// HandleStorage checks the export bucket.
// @Summary Check Storage
// @Tags health
// @Produce json
// @Success 200 {object} ComponentReport
// @Failure 503 {object} ComponentReport
// @Router /health/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	report := h.service.CheckStorage(c.Context())
	if report.Status == StatusError {
		logger.WithRayID(h.service.logger, c).Error("Storage check failed", zap.String("error", report.Error))
	}
	return c.Status(statusCode(report.Status)).JSON(report)
}

// HandleDatabase checks the database and its schema.
// @Summary Check Database
// @Tags health
// @Produce json
// @Success 200 {object} ComponentReport
// @Failure 503 {object} ComponentReport
// @Router /health/database [get]
func (h *Handler) HandleDatabase(c *fiber.Ctx) error {
	report := h.service.CheckDatabase(c.Context())
	if report.Status == StatusError {
		logger.WithRayID(h.service.logger, c).Error("Database check failed",
			zap.String("error", report.Error),
			zap.Strings("missing", report.Missing))
	}
	return c.Status(statusCode(report.Status)).JSON(report)
}

// HandleConnections pings the platform connections.
// @Summary Check Connections
// @Tags health
// @Produce json
// @Success 200 {array} connection.Status
// @Router /health/connections [get]
func (h *Handler) HandleConnections(c *fiber.Ctx) error {
	return c.JSON(h.service.CheckConnections(c.Context()))
}
