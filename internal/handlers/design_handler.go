package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/aliraza167/construction-planner/api/internal/errors"
	"github.com/aliraza167/construction-planner/api/internal/estimator"
	"github.com/aliraza167/construction-planner/api/internal/services"
)

// DesignHandler handles the optional architecture-design endpoints.
type DesignHandler struct {
	workflow services.WorkflowService
	design   services.DesignService
}

// NewDesignHandler creates a new DesignHandler instance.
func NewDesignHandler(workflow services.WorkflowService, design services.DesignService) *DesignHandler {
	return &DesignHandler{
		workflow: workflow,
		design:   design,
	}
}

// GenerateDesignRequest optionally refines the image prompt. It never feeds
// back into the cost data.
type GenerateDesignRequest struct {
	ExtraFeatures string `json:"extraFeatures"`
}

// DesignResponse wraps the image generator's raw response.
type DesignResponse struct {
	Design map[string]interface{} `json:"design"`
}

// Generate handles POST /api/v1/sessions/:id/design endpoint.
// It sends the stored geometry and floor configuration to the image
// generator and persists the result.
func (h *DesignHandler) Generate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	var req GenerateDesignRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Invalid design payload", nil)
			return
		}
	}

	design, err := h.design.GenerateDesign(c.Request.Context(), id, req.ExtraFeatures)
	if err != nil {
		var serviceErr *estimator.ServiceError
		if errors.As(err, &serviceErr) {
			apierrors.UpstreamError(c, serviceErr.Message, err)
			return
		}
		apierrors.InternalServerError(c, "Failed to generate design", err)
		return
	}

	c.JSON(http.StatusOK, DesignResponse{Design: design})
}

// Get handles GET /api/v1/sessions/:id/design endpoint.
func (h *DesignHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	design, err := h.design.GetDesign(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNoDesign) {
			apierrors.NotFound(c, "No design has been generated for this session")
			return
		}
		apierrors.InternalServerError(c, "Failed to load design", err)
		return
	}

	c.JSON(http.StatusOK, DesignResponse{Design: design})
}

// Delete handles DELETE /api/v1/sessions/:id/design endpoint.
// It discards the stored images so a fresh set can be requested.
func (h *DesignHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	if err := h.design.ClearDesign(c.Request.Context(), id); err != nil {
		apierrors.InternalServerError(c, "Failed to clear design", err)
		return
	}

	c.Status(http.StatusNoContent)
}
