package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "github.com/aliraza167/construction-planner/api/internal/errors"
	"github.com/aliraza167/construction-planner/api/internal/middleware"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/services"
)

// SessionHandler handles session lifecycle, the plot form, floor
// configuration and step navigation.
type SessionHandler struct {
	workflow services.WorkflowService
	floors   services.FloorService
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(workflow services.WorkflowService, floors services.FloorService) *SessionHandler {
	return &SessionHandler{
		workflow: workflow,
		floors:   floors,
	}
}

// SessionResponse wraps the workflow state with the session identifier.
type SessionResponse struct {
	SessionID string                `json:"sessionId"`
	State     *models.WorkflowState `json:"state"`
}

// StepResponse reports the active step after a navigation action.
type StepResponse struct {
	ActiveStep models.Step `json:"activeStep"`
	StepLabel  string      `json:"stepLabel"`
}

// FloorsResponse carries the floor list after a floor mutation.
type FloorsResponse struct {
	Floors []models.FloorConfig `json:"floors"`
	Count  int                  `json:"count"`
}

// sessionID parses the :id path parameter. On failure it writes a 400 and
// returns false; the handler must return immediately.
func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Session ID must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// ensureSession maps an unknown session to a 404. On failure it writes the
// response and returns false.
func ensureSession(c *gin.Context, workflow services.WorkflowService, id uuid.UUID) bool {
	if err := workflow.EnsureSession(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			apierrors.NotFound(c, "Session not found")
			return false
		}
		apierrors.InternalServerError(c, "Failed to load session", err)
		return false
	}
	return true
}

// Create handles POST /api/v1/sessions endpoint.
// It allocates a new session seeded with default state.
func (h *SessionHandler) Create(c *gin.Context) {
	state, id, err := h.workflow.CreateSession(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: id.String(),
		State:     state,
	})
}

// Get handles GET /api/v1/sessions/:id endpoint.
// It returns the full workflow state for the session.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	state, err := h.workflow.GetState(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			apierrors.NotFound(c, "Session not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to load session state", err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID: id.String(),
		State:     state,
	})
}

// UpdatePlot handles PUT /api/v1/sessions/:id/plot endpoint.
// It stores the plot form and applies dimension and room derivations.
func (h *SessionHandler) UpdatePlot(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	var plot models.PlotSpec
	if err := c.ShouldBindJSON(&plot); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid plot payload", nil)
		return
	}

	updated, err := h.workflow.UpdatePlot(c.Request.Context(), id, plot)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to update plot form", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AddFloor handles POST /api/v1/sessions/:id/floors endpoint.
// Adding beyond the floor limit returns the unchanged list.
func (h *SessionHandler) AddFloor(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	floors, err := h.floors.AddFloor(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to add floor", err)
		return
	}

	c.JSON(http.StatusOK, FloorsResponse{
		Floors: floors,
		Count:  len(floors),
	})
}

// UpdateFloor handles PATCH /api/v1/sessions/:id/floors/:index endpoint.
// It applies a partial update to the floor at the 0-based index.
func (h *SessionHandler) UpdateFloor(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apierrors.BadRequest(c, "Floor index must be an integer", nil)
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	var update services.FloorUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		apierrors.BadRequest(c, "Invalid floor payload", nil)
		return
	}

	floors, err := h.floors.UpdateFloor(c.Request.Context(), id, index, update)
	if err != nil {
		if errors.Is(err, services.ErrFloorIndexOutOfRange) {
			apierrors.NotFound(c, "No floor at this index")
			return
		}
		apierrors.InternalServerError(c, "Failed to update floor", err)
		return
	}

	c.JSON(http.StatusOK, FloorsResponse{
		Floors: floors,
		Count:  len(floors),
	})
}

// RemoveFloor handles DELETE /api/v1/sessions/:id/floors/:index endpoint.
// Removing the last remaining floor returns the unchanged list.
func (h *SessionHandler) RemoveFloor(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apierrors.BadRequest(c, "Floor index must be an integer", nil)
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	floors, err := h.floors.RemoveFloor(c.Request.Context(), id, index)
	if err != nil {
		if errors.Is(err, services.ErrFloorIndexOutOfRange) {
			apierrors.NotFound(c, "No floor at this index")
			return
		}
		apierrors.InternalServerError(c, "Failed to remove floor", err)
		return
	}

	c.JSON(http.StatusOK, FloorsResponse{
		Floors: floors,
		Count:  len(floors),
	})
}

// Advance handles POST /api/v1/sessions/:id/advance endpoint.
// The step only moves forward when its entry condition holds; otherwise the
// current step comes back unchanged.
func (h *SessionHandler) Advance(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	step, err := h.workflow.Advance(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to advance workflow", err)
		return
	}

	c.JSON(http.StatusOK, StepResponse{
		ActiveStep: step,
		StepLabel:  step.String(),
	})
}

// Back handles POST /api/v1/sessions/:id/back endpoint.
// Back navigation is unconditional and never loses data.
func (h *SessionHandler) Back(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	step, err := h.workflow.Back(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to step back", err)
		return
	}

	c.JSON(http.StatusOK, StepResponse{
		ActiveStep: step,
		StepLabel:  step.String(),
	})
}

// Reset handles POST /api/v1/sessions/:id/reset endpoint.
// It drops all session state and re-seeds the defaults.
func (h *SessionHandler) Reset(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if !ensureSession(c, h.workflow, id) {
		return
	}

	state, err := h.workflow.Reset(c.Request.Context(), id)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to reset session", err)
		return
	}

	log := middleware.GetLogger(c)
	if log != nil {
		log.Info("Session reset via API", map[string]interface{}{
			"session_id": id.String(),
		})
	}

	c.JSON(http.StatusOK, SessionResponse{
		SessionID: id.String(),
		State:     state,
	})
}
