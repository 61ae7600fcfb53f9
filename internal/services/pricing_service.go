package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/aliraza167/construction-planner/api/internal/catalog"
	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/repository"
)

// Pricing errors.
var (
	ErrNoEstimate = errors.New("no estimate available for this session")
)

// MaterialsView is the estimate-review payload: the priced line items under
// the current selection plus the catalog tiers the client can choose from.
type MaterialsView struct {
	Items     []models.MaterialLineItem `json:"items"`
	Selection PriceSelection            `json:"selection"`
	Catalog   catalog.Catalog           `json:"catalog"`
	Total     int64                     `json:"total"`
}

// PricingService prices the estimate's material quantities against the
// catalog and commits the confirmed summary.
type PricingService interface {
	// PreviewMaterials prices the session's estimate with the default tier
	// for every material, applying any tier overrides given. Returns
	// ErrNoEstimate when the session has no persisted estimate.
	PreviewMaterials(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*MaterialsView, error)

	// Confirm commits the pricing decision: it recomputes line totals from
	// the selected tiers, rounds the grand total to the nearest rupee and
	// persists summary, total and the confirmed flag. Confirming twice with
	// the same choices yields an identical persisted summary.
	Confirm(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*models.ConfirmedMaterialsSummary, error)
}

// pricingService is the concrete implementation of PricingService.
type pricingService struct {
	repo    repository.StateRepository
	catalog catalog.Catalog
	log     *logger.Logger
}

// NewPricingService creates a new instance of PricingService.
func NewPricingService(repo repository.StateRepository, cat catalog.Catalog, log *logger.Logger) PricingService {
	return &pricingService{
		repo:    repo,
		catalog: cat,
		log:     log,
	}
}

// resolveSelection loads the session's materials result and builds the
// selection map: catalog defaults overlaid with the caller's tier choices.
func (s *pricingService) resolveSelection(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*models.MaterialsResult, PriceSelection, error) {
	estimate, err := s.repo.GetEstimate(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load estimate: %w", err)
	}
	if estimate == nil {
		return nil, nil, ErrNoEstimate
	}

	materials := estimate.Result.Materials
	selection := InitializeSelection(materials, s.catalog)
	for key, tierName := range tierChoices {
		selection.SetTier(s.catalog, key, tierName)
	}
	return &materials, selection, nil
}

func (s *pricingService) PreviewMaterials(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*MaterialsView, error) {
	materials, selection, err := s.resolveSelection(ctx, sessionID, tierChoices)
	if err != nil {
		return nil, err
	}

	items := ComputeLineItems(*materials, selection)
	return &MaterialsView{
		Items:     items,
		Selection: selection,
		Catalog:   s.catalog,
		Total:     roundTotal(items),
	}, nil
}

func (s *pricingService) Confirm(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*models.ConfirmedMaterialsSummary, error) {
	materials, selection, err := s.resolveSelection(ctx, sessionID, tierChoices)
	if err != nil {
		return nil, err
	}

	items := ComputeLineItems(*materials, selection)
	total := roundTotal(items)

	summary := &models.ConfirmedMaterialsSummary{
		Items: items,
		Total: total,
	}

	// Summary, total and flag are written in the same operation that built
	// them; a storage failure is logged but the computed summary still stands
	// for the current request.
	if err := s.repo.SetMaterialsSummary(ctx, sessionID, items); err != nil {
		s.log.Warn("Failed to persist materials summary", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	if err := s.repo.SetMaterialsTotal(ctx, sessionID, strconv.FormatInt(total, 10)); err != nil {
		s.log.Warn("Failed to persist materials total", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}
	if err := s.repo.SetMaterialsConfirmed(ctx, sessionID, true); err != nil {
		s.log.Warn("Failed to persist materials confirmation", map[string]interface{}{
			"session_id": sessionID.String(),
			"error":      err.Error(),
		})
	}

	s.log.Info("Materials confirmed", map[string]interface{}{
		"session_id": sessionID.String(),
		"items":      len(items),
		"total":      total,
	})
	return summary, nil
}

// roundTotal sums the line totals and rounds to the nearest integer rupee.
func roundTotal(items []models.MaterialLineItem) int64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	return int64(math.Round(sum))
}
