package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/aliraza167/construction-planner/api/internal/derivation"
	"github.com/aliraza167/construction-planner/api/internal/estimator"
	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/repository"
)

// Workflow errors.
var (
	// ErrEstimateInFlight means the session already has an estimate request
	// running; concurrent submissions for one session are rejected.
	ErrEstimateInFlight = errors.New("an estimate request is already in progress for this session")
)

// ValidationError carries the field → message map produced by submission
// validation. It maps to a 400 with per-field details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission validation failed for %d field(s)", len(e.Fields))
}

// WorkflowService drives the wizard: session lifecycle, the plot form with
// its derivations, estimate submission and step navigation.
type WorkflowService interface {
	// CreateSession allocates a session ID and seeds the default state: the
	// default plot form, a single ground floor and the input step.
	CreateSession(ctx context.Context) (*models.WorkflowState, uuid.UUID, error)

	// GetState rebuilds the session's full workflow state from storage.
	// Returns ErrSessionNotFound for a session that was never created or was
	// fully cleared.
	GetState(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error)

	// EnsureSession returns ErrSessionNotFound when no state exists for the
	// session. Mutating endpoints call this first so unknown IDs surface as
	// not-found instead of silently creating state.
	EnsureSession(ctx context.Context, sessionID uuid.UUID) error

	// UpdatePlot stores the plot form, deriving dimensions when the area
	// value or marla standard changed and a suggested ground-floor room count
	// when the area value changed. Fields the derivation does not touch are
	// stored as given, so user overrides of derived values stick.
	UpdatePlot(ctx context.Context, sessionID uuid.UUID, plot models.PlotSpec) (*models.PlotSpec, error)

	// SubmitEstimate validates the form, calls the estimation service and on
	// success stores the estimate, clears any previously confirmed materials
	// and moves the wizard to the estimate-review step. Validation failures
	// return a *ValidationError; upstream failures leave all stored state
	// untouched.
	SubmitEstimate(ctx context.Context, sessionID uuid.UUID) (*models.EstimateResponse, error)

	// Advance moves one step forward when the step's entry condition holds:
	// review needs a stored estimate, the report needs confirmed materials.
	// When the condition fails the current step comes back unchanged.
	Advance(ctx context.Context, sessionID uuid.UUID) (models.Step, error)

	// Back moves one step backward, never below the input step, with no
	// conditions and no data loss.
	Back(ctx context.Context, sessionID uuid.UUID) (models.Step, error)

	// Reset drops every piece of session state and re-seeds the defaults.
	Reset(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error)
}

// workflowService is the concrete implementation of WorkflowService.
type workflowService struct {
	repo      repository.StateRepository
	estimator estimator.Client
	floors    FloorService
	log       *logger.Logger

	// inFlight tracks session IDs with an estimate request running.
	inFlight sync.Map
}

// NewWorkflowService creates a new instance of WorkflowService.
func NewWorkflowService(repo repository.StateRepository, est estimator.Client, floors FloorService, log *logger.Logger) WorkflowService {
	return &workflowService{
		repo:      repo,
		estimator: est,
		floors:    floors,
		log:       log,
	}
}

// seedDefaults writes the initial state for a session: default plot form,
// one ground floor, input step.
func (s *workflowService) seedDefaults(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error) {
	plot := models.DefaultPlotSpec()
	floors := []models.FloorConfig{models.NewFloorConfig(1)}

	if err := s.repo.SetPlot(ctx, sessionID, plot); err != nil {
		return nil, fmt.Errorf("failed to seed plot form: %w", err)
	}
	if err := s.repo.SetFloors(ctx, sessionID, floors); err != nil {
		return nil, fmt.Errorf("failed to seed floor list: %w", err)
	}
	if err := s.repo.SetActiveStep(ctx, sessionID, models.StepInput); err != nil {
		return nil, fmt.Errorf("failed to seed active step: %w", err)
	}

	return &models.WorkflowState{
		ActiveStep: models.StepInput,
		Plot:       plot,
		Floors:     floors,
	}, nil
}

func (s *workflowService) CreateSession(ctx context.Context) (*models.WorkflowState, uuid.UUID, error) {
	sessionID := uuid.New()

	state, err := s.seedDefaults(ctx, sessionID)
	if err != nil {
		return nil, uuid.Nil, err
	}

	s.log.Info("Session created", map[string]interface{}{
		"session_id": sessionID.String(),
	})
	return state, sessionID, nil
}

func (s *workflowService) EnsureSession(ctx context.Context, sessionID uuid.UUID) error {
	exists, err := s.repo.SessionExists(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if !exists {
		return ErrSessionNotFound
	}
	return nil
}

func (s *workflowService) GetState(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error) {
	if err := s.EnsureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	plot, err := s.repo.GetPlot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		defaultPlot := models.DefaultPlotSpec()
		plot = &defaultPlot
	}

	floors, err := s.repo.GetFloors(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(floors) == 0 {
		floors = []models.FloorConfig{models.NewFloorConfig(1)}
	}

	estimate, err := s.repo.GetEstimate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.repo.GetMaterialsConfirmed(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	step, err := s.repo.GetActiveStep(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.WorkflowState{
		ActiveStep:         step,
		Plot:               *plot,
		Floors:             floors,
		Estimate:           estimate,
		MaterialsConfirmed: confirmed,
	}, nil
}

func (s *workflowService) UpdatePlot(ctx context.Context, sessionID uuid.UUID, plot models.PlotSpec) (*models.PlotSpec, error) {
	previous, err := s.repo.GetPlot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if previous == nil {
		defaultPlot := models.DefaultPlotSpec()
		previous = &defaultPlot
	}

	areaChanged := plot.AreaValue != previous.AreaValue
	standardChanged := plot.Standard != previous.Standard

	// Dimension derivation fires once per (area, standard) change; a failed
	// lookup leaves the submitted dimensions alone, and untouched fields keep
	// whatever the user typed, so manual overrides survive later saves.
	if areaChanged || standardChanged {
		if dims, ok := derivation.DeriveDimensions(plot.Standard, plot.AreaValue); ok {
			plot.OverallLength = dims.Length
			plot.OverallWidth = dims.Width
		}
	}

	if areaChanged && plot.AreaValue > 0 {
		rooms := derivation.DeriveRoomCount(plot.AreaValue)
		if err := s.applyRoomSuggestion(ctx, sessionID, rooms); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SetPlot(ctx, sessionID, plot); err != nil {
		s.log.Warn("Failed to persist plot form", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	return &plot, nil
}

// applyRoomSuggestion writes the derived bedroom/bathroom count onto the
// ground floor only; upper floors are never touched by derivation.
func (s *workflowService) applyRoomSuggestion(ctx context.Context, sessionID uuid.UUID, rooms int) error {
	floors, err := s.repo.GetFloors(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(floors) == 0 {
		floors = []models.FloorConfig{models.NewFloorConfig(1)}
	}

	floors[0].Bedrooms = rooms
	floors[0].Bathrooms = rooms

	if err := s.repo.SetFloors(ctx, sessionID, floors); err != nil {
		s.log.Warn("Failed to persist derived room counts", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	return nil
}

func (s *workflowService) SubmitEstimate(ctx context.Context, sessionID uuid.UUID) (*models.EstimateResponse, error) {
	if _, loaded := s.inFlight.LoadOrStore(sessionID, struct{}{}); loaded {
		return nil, ErrEstimateInFlight
	}
	defer s.inFlight.Delete(sessionID)

	plot, err := s.repo.GetPlot(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		defaultPlot := models.DefaultPlotSpec()
		plot = &defaultPlot
	}
	floors, err := s.repo.GetFloors(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(floors) == 0 {
		floors = []models.FloorConfig{models.NewFloorConfig(1)}
	}

	if fields := s.floors.ValidateSubmission(*plot, floors); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	req := buildEstimateRequest(*plot, floors)

	s.log.Info("Submitting estimate request", map[string]interface{}{
		"session_id": sessionID.String(),
		"area_value": plot.AreaValue,
		"floors":     len(floors),
	})

	estimate, err := s.estimator.SubmitEstimate(ctx, req)
	if err != nil {
		// Stored state stays exactly as it was before the attempt.
		return nil, err
	}

	if err := s.repo.SetEstimate(ctx, sessionID, *estimate); err != nil {
		return nil, fmt.Errorf("failed to store estimate: %w", err)
	}
	// A fresh estimate invalidates any previously confirmed materials.
	if err := s.repo.ClearMaterials(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to clear stale materials: %w", err)
	}
	if err := s.repo.SetActiveStep(ctx, sessionID, models.StepEstimateReview); err != nil {
		s.log.Warn("Failed to persist step transition", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}

	return estimate, nil
}

func (s *workflowService) Advance(ctx context.Context, sessionID uuid.UUID) (models.Step, error) {
	step, err := s.repo.GetActiveStep(ctx, sessionID)
	if err != nil {
		return step, err
	}

	next := step
	switch step {
	case models.StepInput:
		estimate, err := s.repo.GetEstimate(ctx, sessionID)
		if err != nil {
			return step, err
		}
		if estimate != nil {
			next = models.StepEstimateReview
		}
	case models.StepEstimateReview:
		confirmed, err := s.repo.GetMaterialsConfirmed(ctx, sessionID)
		if err != nil {
			return step, err
		}
		if confirmed {
			next = models.StepReport
		}
	case models.StepReport:
		next = models.StepArchitectureDesign
	}

	if next != step {
		if err := s.repo.SetActiveStep(ctx, sessionID, next); err != nil {
			s.log.Warn("Failed to persist step transition", map[string]interface{}{
				"session_id": sessionID.String(),
				"error":      err.Error(),
			})
		}
	}
	return next, nil
}

func (s *workflowService) Back(ctx context.Context, sessionID uuid.UUID) (models.Step, error) {
	step, err := s.repo.GetActiveStep(ctx, sessionID)
	if err != nil {
		return step, err
	}
	if step <= models.StepInput {
		return step, nil
	}

	next := step - 1
	if err := s.repo.SetActiveStep(ctx, sessionID, next); err != nil {
		s.log.Warn("Failed to persist step transition", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	return next, nil
}

func (s *workflowService) Reset(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error) {
	if err := s.repo.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	state, err := s.seedDefaults(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.log.Info("Session reset", map[string]interface{}{
		"session_id": sessionID.String(),
	})
	return state, nil
}

// buildEstimateRequest flattens the stored form into the estimation service's
// wire shape: the ground floor's rooms and toggles ride at the top level and
// the upper floors go into floors_detail.
func buildEstimateRequest(plot models.PlotSpec, floors []models.FloorConfig) models.EstimateRequest {
	ground := floors[0]

	req := models.EstimateRequest{
		AreaValue:     plot.AreaValue,
		Unit:          plot.AreaUnit,
		MarlaStandard: string(plot.Standard),
		Quality:       string(plot.Quality),
		City:          plot.City,
		OverallLength: plot.OverallLength,
		OverallWidth:  plot.OverallWidth,
		Bedrooms:      ground.Bedrooms,
		Bathrooms:     ground.Bathrooms,
		LivingRooms:   ground.LivingRooms,
		DrawingDining: string(ground.DrawingDining),
		Garage:        string(ground.Garage),
		Floors:        len(floors),
		ExtraFeatures: plot.ExtraFeatures,
		Style:         plot.Style,
		FloorsDetail:  []models.FloorDetail{},
	}

	for _, floor := range floors[1:] {
		req.FloorsDetail = append(req.FloorsDetail, models.FloorDetail{
			FloorNumber:   floor.FloorNumber,
			FloorName:     floor.FloorName,
			Bedrooms:      floor.Bedrooms,
			Bathrooms:     floor.Bathrooms,
			Kitchens:      floor.Kitchens,
			LivingRooms:   floor.LivingRooms,
			DrawingDining: string(floor.DrawingDining),
			Garage:        string(floor.Garage),
		})
	}
	return req
}
