package export

import (
	"errors"

	"catalog-sync/core/connection"
	"catalog-sync/core/logger"
	"catalog-sync/core/platform"
	"catalog-sync/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type exportRequest struct {
	Platform string `json:"platform" validate:"required,oneof=woocommerce shopify"`
	Kind     string `json:"kind" validate:"required,oneof=product collection blog_post review customer shipping_zone"`
	Format   string `query:"format" validate:"omitempty,oneof=csv json"`
}

// Handler handles HTTP requests for exports.
type Handler struct {
	service  *Service
	validate *validation.Validator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the export routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/export")
	group.Get("/", h.HandleList)
	group.Get("/:platform/:kind", h.HandleExport)
}

// HandleExport exports one entity kind of a platform.
// @Summary Export Catalog
// @Description Fetches every entity of a kind and uploads it to the export bucket as CSV or JSON.
// @Tags export
// @Produce json
// @Param platform path string true "Platform (woocommerce, shopify)"
// @Param kind path string true "Entity kind"
// @Param format query string false "csv (default) or json"
// @Success 200 {object} Result "Uploaded export"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /export/{platform}/{kind} [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	req := exportRequest{
		Platform: c.Params("platform"),
		Kind:     c.Params("kind"),
		Format:   c.Query("format", string(FormatCSV)),
	}
	if errs := h.validate.Struct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Summary(errs), "details": errs})
	}

	res, err := h.service.Export(c.Context(), platform.Platform(req.Platform), platform.Kind(req.Kind), Format(req.Format))
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, connection.ErrNotConnected):
			status = fiber.StatusConflict
		case errors.Is(err, platform.ErrUnsupportedKind):
			status = fiber.StatusBadRequest
		}
		l.Error("Export failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleList lists previous exports.
// @Summary List Exports
// @Tags export
// @Produce json
// @Param platform query string false "Only exports of this platform"
// @Success 200 {object} map[string]interface{} "Object keys"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /export [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	keys, err := h.service.List(c.Context(), platform.Platform(c.Query("platform")))
	if err != nil {
		l.Error("Listing exports failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(fiber.Map{"keys": keys, "count": len(keys)})
}
