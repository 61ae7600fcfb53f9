package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/repository"
)

// FloorUpdate carries the editable fields of one floor. Nil pointers leave
// the field unchanged. Kitchens and living rooms are fixed at 1 and not
// editable. Bathrooms accepts half-bath increments at intake but the stored
// configuration always holds a whole number.
type FloorUpdate struct {
	Bedrooms      *int                `json:"bedrooms,omitempty"`
	Bathrooms     *float64            `json:"bathrooms,omitempty"`
	DrawingDining *models.Requirement `json:"drawingDining,omitempty"`
	Garage        *models.Requirement `json:"garage,omitempty"`
}

// FloorService owns the ordered floor configuration list: bounds, numbering
// and per-floor field rules.
type FloorService interface {
	// AddFloor appends a floor with default values. Once the list holds
	// MaxFloors entries this is a silent no-op: the unchanged list comes back
	// with no error.
	AddFloor(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error)

	// RemoveFloor removes the floor at the given 0-based index and renumbers
	// the remaining floors sequentially, regenerating their names. Removing
	// from a single-floor list is a silent no-op.
	RemoveFloor(ctx context.Context, sessionID uuid.UUID, index int) ([]models.FloorConfig, error)

	// UpdateFloor applies a field update to the floor at the given 0-based
	// index. Updates never cascade to other floors or back to the plot form.
	UpdateFloor(ctx context.Context, sessionID uuid.UUID, index int, update FloorUpdate) ([]models.FloorConfig, error)

	// ValidateSubmission checks the plot form and every floor ahead of an
	// estimate request. It returns a field → message map keyed by
	// "floors[i].field" for floor failures; an empty map means valid. It
	// never returns an error for validation failures themselves.
	ValidateSubmission(plot models.PlotSpec, floors []models.FloorConfig) map[string]string
}

// Service-level errors shared across the workflow.
var (
	ErrFloorIndexOutOfRange = fmt.Errorf("floor index out of range")
	ErrSessionNotFound      = fmt.Errorf("session not found")
)

// floorService is the concrete implementation of FloorService.
type floorService struct {
	repo repository.StateRepository
	log  *logger.Logger
}

// NewFloorService creates a new instance of FloorService.
func NewFloorService(repo repository.StateRepository, log *logger.Logger) FloorService {
	return &floorService{
		repo: repo,
		log:  log,
	}
}

// loadFloors returns the session's floor list, seeding a single ground floor
// for sessions that have never written one.
func (s *floorService) loadFloors(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error) {
	floors, err := s.repo.GetFloors(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load floors: %w", err)
	}
	if len(floors) == 0 {
		floors = []models.FloorConfig{models.NewFloorConfig(1)}
	}
	return floors, nil
}

// saveFloors writes the floor list through to storage. Persistence is
// best-effort: failures are logged and the in-memory list stays authoritative
// for the current request.
func (s *floorService) saveFloors(ctx context.Context, sessionID uuid.UUID, floors []models.FloorConfig) {
	if err := s.repo.SetFloors(ctx, sessionID, floors); err != nil {
		s.log.Warn("Failed to persist floor list", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
}

func (s *floorService) AddFloor(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error) {
	floors, err := s.loadFloors(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(floors) >= models.MaxFloors {
		s.log.Debug("Floor limit reached, add ignored", map[string]interface{}{
			"session_id": sessionID.String(),
			"floors":     len(floors),
		})
		return floors, nil
	}

	floors = append(floors, models.NewFloorConfig(len(floors)+1))
	s.saveFloors(ctx, sessionID, floors)

	s.log.Info("Floor added", map[string]interface{}{
		"session_id": sessionID.String(),
		"floors":     len(floors),
	})
	return floors, nil
}

func (s *floorService) RemoveFloor(ctx context.Context, sessionID uuid.UUID, index int) ([]models.FloorConfig, error) {
	floors, err := s.loadFloors(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// At least one floor must always exist.
	if len(floors) <= 1 {
		return floors, nil
	}
	if index < 0 || index >= len(floors) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFloorIndexOutOfRange, index, len(floors))
	}

	floors = append(floors[:index], floors[index+1:]...)
	renumberFloors(floors)
	s.saveFloors(ctx, sessionID, floors)

	s.log.Info("Floor removed", map[string]interface{}{
		"session_id": sessionID.String(),
		"index":      index,
		"floors":     len(floors),
	})
	return floors, nil
}

func (s *floorService) UpdateFloor(ctx context.Context, sessionID uuid.UUID, index int, update FloorUpdate) ([]models.FloorConfig, error) {
	floors, err := s.loadFloors(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(floors) {
		return nil, fmt.Errorf("%w: %d of %d", ErrFloorIndexOutOfRange, index, len(floors))
	}

	floor := &floors[index]
	if update.Bedrooms != nil {
		floor.Bedrooms = *update.Bedrooms
	}
	if update.Bathrooms != nil {
		floor.Bathrooms = int(math.Round(*update.Bathrooms))
	}
	if update.DrawingDining != nil {
		floor.DrawingDining = *update.DrawingDining
	}
	if update.Garage != nil {
		floor.Garage = *update.Garage
	}

	s.saveFloors(ctx, sessionID, floors)
	return floors, nil
}

func (s *floorService) ValidateSubmission(plot models.PlotSpec, floors []models.FloorConfig) map[string]string {
	fields := make(map[string]string)

	if plot.AreaValue <= 0 {
		fields["areaValue"] = "Area value is required and must be greater than 0"
	}
	if plot.OverallLength <= 0 {
		fields["overallLength"] = "Overall length is required and must be greater than 0"
	}
	if plot.OverallWidth <= 0 {
		fields["overallWidth"] = "Overall width is required and must be greater than 0"
	}
	if len(floors) == 0 {
		fields["floors"] = "At least one floor is required"
	}

	for i, floor := range floors {
		if floor.Bedrooms < 1 {
			fields[fmt.Sprintf("floors[%d].bedrooms", i)] = "Number of bedrooms is required and must be greater than 0"
		}
		if floor.Bathrooms < 1 {
			fields[fmt.Sprintf("floors[%d].bathrooms", i)] = "Number of bathrooms is required and must be greater than 0"
		}
	}

	return fields
}

// renumberFloors rewrites floor numbers sequentially from 1 and regenerates
// the display names to match.
func renumberFloors(floors []models.FloorConfig) {
	for i := range floors {
		floors[i].FloorNumber = i + 1
		floors[i].FloorName = models.FloorName(i + 1)
	}
}
