package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/aliraza167/construction-planner/api/internal/errors"
	"github.com/aliraza167/construction-planner/api/internal/estimator"
	"github.com/aliraza167/construction-planner/api/internal/middleware"
	"github.com/aliraza167/construction-planner/api/internal/services"
)

// EstimateHandler handles estimate submission, materials pricing and report
// retrieval for a session.
type EstimateHandler struct {
	workflow services.WorkflowService
	pricing  services.PricingService
	report   services.ReportService
}

// NewEstimateHandler creates a new EstimateHandler instance.
func NewEstimateHandler(workflow services.WorkflowService, pricing services.PricingService, report services.ReportService) *EstimateHandler {
	return &EstimateHandler{
		workflow: workflow,
		pricing:  pricing,
		report:   report,
	}
}

// ConfirmRequest carries the tier choices applied on top of the defaults.
// Keys are "<floorIdx>:<material>" in per-floor mode or the bare material
// name; values are catalog tier names. Unknown keys and tier names are
// ignored.
type ConfirmRequest struct {
	Selections map[string]string `json:"selections"`
}

// Submit handles POST /api/v1/sessions/:id/estimate endpoint.
// It validates the stored form, calls the estimation service and moves the
// wizard to the review step on success.
func (h *EstimateHandler) Submit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	log := middleware.GetLogger(c)
	if log != nil {
		log.Info("Processing estimate submission", map[string]interface{}{
			"session_id": id.String(),
		})
	}

	estimate, err := h.workflow.SubmitEstimate(c.Request.Context(), id)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			details := make(map[string]interface{}, len(validationErr.Fields))
			for field, message := range validationErr.Fields {
				details[field] = message
			}
			apierrors.FieldErrors(c, details)
			return
		}
		if errors.Is(err, services.ErrEstimateInFlight) {
			apierrors.Conflict(c, "An estimate request is already in progress for this session")
			return
		}
		var serviceErr *estimator.ServiceError
		if errors.As(err, &serviceErr) {
			apierrors.UpstreamError(c, serviceErr.Message, err)
			return
		}
		apierrors.InternalServerError(c, "Failed to submit estimate", err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// Materials handles GET /api/v1/sessions/:id/materials endpoint.
// It prices the estimate's quantities with the default tier per material and
// returns the catalog so clients can offer tier choices.
func (h *EstimateHandler) Materials(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	view, err := h.pricing.PreviewMaterials(c.Request.Context(), id, nil)
	if err != nil {
		if errors.Is(err, services.ErrNoEstimate) {
			apierrors.Conflict(c, "No estimate available, submit the form first")
			return
		}
		apierrors.InternalServerError(c, "Failed to price materials", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Confirm handles POST /api/v1/sessions/:id/materials/confirm endpoint.
// It commits the priced summary under the given tier choices and marks the
// materials as confirmed. Confirming again with the same choices is a no-op
// on the stored result.
func (h *EstimateHandler) Confirm(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	// The body is optional; an empty one confirms the default tiers. Chunked
	// requests carry ContentLength -1, so the body is parsed whenever one may
	// be present and only a genuinely empty body is let through.
	var req ConfirmRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Invalid confirmation payload", nil)
			return
		}
	}

	summary, err := h.pricing.Confirm(c.Request.Context(), id, req.Selections)
	if err != nil {
		if errors.Is(err, services.ErrNoEstimate) {
			apierrors.Conflict(c, "No estimate available, submit the form first")
			return
		}
		apierrors.InternalServerError(c, "Failed to confirm materials", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Report handles GET /api/v1/sessions/:id/report endpoint.
// The report requires a stored estimate and confirmed materials; until then
// it conflicts and the client must redo the previous step.
func (h *EstimateHandler) Report(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	report, err := h.report.BuildReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMaterialsNotConfirmed) {
			apierrors.Conflict(c, "Report data unavailable, redo the previous step")
			return
		}
		apierrors.InternalServerError(c, "Failed to build report", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
