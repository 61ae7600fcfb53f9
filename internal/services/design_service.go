package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aliraza167/construction-planner/api/internal/estimator"
	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/repository"
)

// Design errors.
var (
	// ErrNoDesign means no generated design is stored for the session.
	ErrNoDesign = errors.New("no architecture design has been generated for this session")
)

// DesignService drives the optional architecture-design step: it sends the
// plot geometry and floor configuration to the image generator and stores the
// raw response for later retrieval.
type DesignService interface {
	// GenerateDesign calls the image generator and persists its response.
	// The extra-features string refines the prompt only; it never feeds back
	// into the cost data.
	GenerateDesign(ctx context.Context, sessionID uuid.UUID, extraFeatures string) (map[string]interface{}, error)

	// GetDesign returns the stored generator response, or ErrNoDesign.
	GetDesign(ctx context.Context, sessionID uuid.UUID) (map[string]interface{}, error)

	// ClearDesign discards the stored generator response so a fresh set of
	// images can be requested.
	ClearDesign(ctx context.Context, sessionID uuid.UUID) error
}

// designService is the concrete implementation of DesignService.
type designService struct {
	repo      repository.StateRepository
	estimator estimator.Client
	log       *logger.Logger
}

// NewDesignService creates a new instance of DesignService.
func NewDesignService(repo repository.StateRepository, est estimator.Client, log *logger.Logger) DesignService {
	return &designService{
		repo:      repo,
		estimator: est,
		log:       log,
	}
}

func (s *designService) GenerateDesign(ctx context.Context, sessionID uuid.UUID, extraFeatures string) (map[string]interface{}, error) {
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

	if extraFeatures == "" {
		extraFeatures = plot.ExtraFeatures
	}

	req := models.ImageRequest{
		PlotDepthFt:         plot.OverallLength,
		PlotWidthFt:         plot.OverallWidth,
		NumberOfFloors:      len(floors),
		KitchenType:         "open",
		ArchitecturalStyle:  plot.Style,
		ExtraFeatures:       extraFeatures,
		FloorsConfiguration: floors,
	}

	s.log.Info("Requesting architecture design", map[string]interface{}{
		"session_id": sessionID.String(),
		"floors":     len(floors),
	})

	images, err := s.estimator.GenerateImages(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetDesignImages(ctx, sessionID, images); err != nil {
		s.log.Warn("Failed to persist design images", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	return images, nil
}

func (s *designService) GetDesign(ctx context.Context, sessionID uuid.UUID) (map[string]interface{}, error) {
	images, err := s.repo.GetDesignImages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if images == nil {
		return nil, ErrNoDesign
	}
	return images, nil
}

func (s *designService) ClearDesign(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.ClearDesignImages(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear design images: %w", err)
	}
	return nil
}
