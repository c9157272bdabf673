package migrate

import (
	"errors"

	"catalog-sync/core/connection"
	"catalog-sync/core/jobs"
	"catalog-sync/core/logger"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SyncRequest asks for a batch of differences to be applied.
type SyncRequest struct {
	SourceOfTruth platform.Platform      `json:"sourceOfTruth" validate:"required,oneof=woocommerce shopify"`
	Type          platform.Kind          `json:"type"`
	Differences   []reconcile.Difference `json:"differences" validate:"required,min=1,dive"`
}

// DiffRequest asks for the differences of one entity kind.
type DiffRequest struct {
	SourceOfTruth platform.Platform `json:"sourceOfTruth" validate:"required,oneof=woocommerce shopify"`
	Type          platform.Kind     `json:"type" validate:"required"`
	Refresh       bool              `json:"refresh"`
}

// Handler handles HTTP requests for migrations.
type Handler struct {
	service  *Service
	validate *validation.Validator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validate: validation.New()}
}

// RegisterRoutes registers the migrate routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/migrate")
	group.Post("/sync", h.HandleSync)
	group.Get("/status/:jobId?", h.HandleStatus)
	group.Get("/jobs", h.HandleJobs)
	group.Post("/diff", h.HandleDiff)
	group.Post("/run", h.HandleRun)
	group.Delete("/:platform/:kind/:id", h.HandleDelete)
}

// HandleSync enqueues a sync job.
// @Summary Start Sync Job
// @Description Applies the given differences from the source of truth to the other platform in the background.
// @Tags migrate
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Differences to apply"
// @Success 202 {object} map[string]string "Job id"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /migrate/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}
	if errs := h.validate.Struct(req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Summary(errs), "details": errs})
	}

	id, err := h.service.Sync(c.Context(), req.SourceOfTruth, req.Type, req.Differences)
	if err != nil {
		return h.fail(c, l, err)
	}

	l.Info("Sync job accepted", zap.String("job_id", id), zap.Int("differences", len(req.Differences)))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobId": id})
}

// HandleStatus returns the progress of a job.
// @Summary Get Job Status
// @Description Returns a snapshot of a sync job: status, counts and the results written so far.
// @Tags migrate
// @Produce json
// @Param jobId path string true "Job id"
// @Success 200 {object} jobs.Job "Job"
// @Failure 400 {object} map[string]string "Missing job id"
// @Failure 404 {object} map[string]string "Unknown job"
// @Router /migrate/status/{jobId} [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	id := c.Params("jobId")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job id is required"})
	}

	job, err := h.service.Job(c.Context(), id)
	if err != nil {
		return h.fail(c, logger.WithRayID(h.service.logger, c), err)
	}
	return c.JSON(job)
}

// HandleJobs lists the jobs held in memory, or the archived ones with archived=true.
// @Summary List Jobs
// @Tags migrate
// @Produce json
// @Param archived query boolean false "List finished jobs from the archive"
// @Param limit query int false "Maximum archived jobs (default 50)"
// @Success 200 {object} map[string]interface{} "Jobs, newest first"
// @Failure 501 {object} map[string]string "No archive configured"
// @Router /migrate/jobs [get]
func (h *Handler) HandleJobs(c *fiber.Ctx) error {
	if !c.QueryBool("archived", false) {
		list := h.service.Jobs()
		return c.JSON(fiber.Map{"jobs": list, "count": len(list)})
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
	}
	list, err := h.service.ArchivedJobs(c.Context(), limit)
	if err != nil {
		return h.fail(c, logger.WithRayID(h.service.logger, c), err)
	}
	return c.JSON(fiber.Map{"jobs": list, "count": len(list)})
}

// HandleDiff computes the differences of one entity kind.
// @Summary Detect Differences
// @Description Fetches both catalogs and reports what must be created or updated on the other platform.
// @Tags migrate
// @Accept json
// @Produce json
// @Param request body DiffRequest true "Source of truth and kind"
// @Success 200 {object} reconcile.Report "Report"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]string "Platform not connected"
// @Router /migrate/diff [post]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req, ok := h.parseDiff(c)
	if !ok {
		return nil
	}

	report, err := h.service.Diff(c.Context(), req.SourceOfTruth, req.Type, req.Refresh)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(report)
}

// HandleRun detects differences and enqueues a job for them.
// @Summary Diff And Sync
// @Description Detects differences and starts a job applying them. Returns 200 without a job when already in sync.
// @Tags migrate
// @Accept json
// @Produce json
// @Param request body DiffRequest true "Source of truth and kind"
// @Success 202 {object} RunResult "Job started"
// @Success 200 {object} RunResult "Already in sync"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]string "A job for this kind is still running"
// @Router /migrate/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	req, ok := h.parseDiff(c)
	if !ok {
		return nil
	}

	res, err := h.service.Run(c.Context(), req.SourceOfTruth, req.Type)
	if err != nil {
		return h.fail(c, l, err)
	}
	if res.JobID == "" {
		return c.JSON(res)
	}
	l.Info("Sync job started", zap.String("job_id", res.JobID), zap.Int("differences", res.Differences))
	return c.Status(fiber.StatusAccepted).JSON(res)
}

// HandleDelete deletes one entity.
// @Summary Delete Entity
// @Description Deletes an entity on one platform. Without hard=true the entity is trashed or archived where the platform supports it.
// @Tags migrate
// @Produce json
// @Param platform path string true "Platform (woocommerce, shopify)"
// @Param kind path string true "Entity kind"
// @Param id path string true "Platform-native id"
// @Param hard query boolean false "Delete permanently"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Unknown entity"
// @Router /migrate/{platform}/{kind}/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	p := platform.Platform(c.Params("platform"))
	kind := platform.Kind(c.Params("kind"))
	id := c.Params("id")
	hard := c.QueryBool("hard", false)

	if err := h.service.Delete(c.Context(), p, kind, id, hard); err != nil {
		return h.fail(c, l, err)
	}

	status := "trashed"
	if hard {
		status = "deleted"
	}
	return c.JSON(fiber.Map{"status": status, "id": id})
}

func (h *Handler) parseDiff(c *fiber.Ctx) (DiffRequest, bool) {
	var req DiffRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
		return req, false
	}
	if errs := h.validate.Struct(req); errs != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Summary(errs), "details": errs})
		return req, false
	}
	return req, true
}

// fail maps a service error to a status code.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case jobs.IsValidation(err), errors.Is(err, platform.ErrUnsupportedKind):
		status = fiber.StatusBadRequest
	case errors.Is(err, jobs.ErrJobNotFound), errors.Is(err, platform.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, connection.ErrNotConnected), errors.Is(err, jobs.ErrJobRunning):
		status = fiber.StatusConflict
	case errors.Is(err, jobs.ErrNoArchive):
		status = fiber.StatusNotImplemented
	case platform.IsTransient(err):
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		l.Error("Migrate request failed", zap.Error(err))
	} else {
		l.Warn("Migrate request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
