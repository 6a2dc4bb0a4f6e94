package integrity

import (
	"errors"

	"survey-integrity/core/fixedwidth"
	"survey-integrity/core/logger"
	"survey-integrity/core/schema"
	"survey-integrity/feature/integrity/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Post("/check", h.HandleCheck)
	group.Get("/sources", h.HandleSourcesCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/history", h.HandleHistoryCheck)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
}

// HandleCheck runs the referential integrity check.
// @Summary Run Integrity Check
// @Description Loads the respondent and pregnancy files, checks every respondent's reported count against its grouped records and optionally saves the run. An inconsistent verdict is still a 200.
// @Tags integrity
// @Accept json
// @Produce json
// @Param request body Request false "Check options"
// @Success 200 {object} Report "Check Report"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 422 {object} map[string]string "Unusable Survey Data"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/check [post]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	report, err := h.service.Run(c.UserContext(), req)
	if err != nil {
		l.Error("Integrity check failed", zap.Error(err))
		return errorResponse(c, err)
	}

	if !report.Consistent() {
		l.Warn("Survey data is inconsistent",
			zap.String("run_id", report.RunID),
			zap.Int("violations", len(report.Verdict.Violations)))
	}
	return c.JSON(report)
}

// HandleSourcesCheck checks that every survey file exists.
// @Summary Check Survey Files
// @Description Verify that the dictionaries and data files of the configured survey are present.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Sources Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/sources [get]
func (h *Handler) HandleSourcesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.CheckSources(c.UserContext())
	if err != nil {
		l.Error("Sources check failed", zap.Error(err))
		return errorResponse(c, err)
	}
	if len(missing) > 0 {
		l.Warn("Missing survey files", zap.Strings("missing", missing))
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleSchemaCheck parses both dictionaries and checks the join fields.
// @Summary Check Dictionaries
// @Description Parse the respondent and pregnancy dictionaries and verify the key and count fields.
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.SchemaReport "Schema Reports"
// @Failure 422 {object} map[string]string "Invalid Dictionary"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.CheckSchemas(c.UserContext())
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(reports)
}

// HandleStructureCheck checks and optionally fixes the bucket folders.
// @Summary Check Structure
// @Description Checks that the survey and reports folders exist in the storage bucket. Optionally creates missing folders.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	missing, err := h.service.CheckStructure(c.UserContext())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return errorResponse(c, err)
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.UserContext(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleHistoryCheck verifies the run history tables.
// @Summary Check History Tables
// @Description Compare the live run history tables with the expected columns.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.HistoryReport "History Report"
// @Failure 503 {object} map[string]string "History Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/history [get]
func (h *Handler) HandleHistoryCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckHistory()
	if err != nil {
		l.Error("History check failed", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(report)
}

// HandleListRuns lists recent runs.
// @Summary List Runs
// @Description Returns the most recent saved runs, newest first.
// @Tags integrity
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} store.Run "Runs"
// @Failure 503 {object} map[string]string "History Disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	limit := c.QueryInt("limit", 20)

	runs, err := h.service.Runs(c.UserContext(), limit)
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(runs)
}

// HandleGetRun returns one run with its violations.
// @Summary Get Run
// @Description Returns a saved run and its violations in respondent order.
// @Tags integrity
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} store.Run "Run"
// @Failure 404 {object} map[string]string "Run Not Found"
// @Failure 503 {object} map[string]string "History Disabled"
// @Router /integrity/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.RunByID(c.UserContext(), c.Params("id"))
	if err != nil {
		l.Warn("Failed to get run", zap.String("id", c.Params("id")), zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(run)
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var (
		formatErr *schema.SchemaFormatError
		fieldErr  *schema.MissingFieldError
		decodeErr *fixedwidth.DecodeError
	)

	switch {
	case errors.Is(err, ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrHistoryDisabled), errors.Is(err, ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &formatErr), errors.As(err, &fieldErr), errors.As(err, &decodeErr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
