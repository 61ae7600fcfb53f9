package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/repository"
)

// Report errors.
var (
	// ErrMaterialsNotConfirmed means the report's inputs are missing: either
	// no estimate exists or the materials summary was never confirmed.
	ErrMaterialsNotConfirmed = errors.New("report data unavailable, redo the previous step")
)

// CostReport is the synthesized detailed report: the confirmed material lines
// with display labels, the cost rollup and the plan and finishing guidance
// carried over from the estimate.
type CostReport struct {
	Items         []ReportLineItem           `json:"items"`
	MaterialsCost int64                      `json:"materialsCost"`
	LabourCost    float64                    `json:"labourCost"`
	GreyStructure float64                    `json:"greyStructureCost"`
	FinishingCost float64                    `json:"finishingCost"`
	TotalCost     float64                    `json:"totalCost"`
	Plan          map[string]interface{}     `json:"plan,omitempty"`
	MaterialGuide []models.MaterialGuideItem `json:"materialGuide,omitempty"`
}

// ReportLineItem is one confirmed material row decorated with its floor label.
type ReportLineItem struct {
	models.MaterialLineItem
	FloorLabel string `json:"floorLabel,omitempty"`
}

// ReportService builds the detailed report from the confirmed session data.
type ReportService interface {
	// BuildReport assembles the report. It requires a stored estimate and a
	// confirmed materials summary; otherwise it returns
	// ErrMaterialsNotConfirmed and the caller must send the user back a step.
	BuildReport(ctx context.Context, sessionID uuid.UUID) (*CostReport, error)
}

// reportService is the concrete implementation of ReportService.
type reportService struct {
	repo repository.StateRepository
	log  *logger.Logger
}

// NewReportService creates a new instance of ReportService.
func NewReportService(repo repository.StateRepository, log *logger.Logger) ReportService {
	return &reportService{
		repo: repo,
		log:  log,
	}
}

func (s *reportService) BuildReport(ctx context.Context, sessionID uuid.UUID) (*CostReport, error) {
	estimate, err := s.repo.GetEstimate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.repo.GetMaterialsConfirmed(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if estimate == nil || !confirmed {
		return nil, ErrMaterialsNotConfirmed
	}

	items, err := s.repo.GetMaterialsSummary(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	totalRaw, err := s.repo.GetMaterialsTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The total is stored as a stringified integer; an unparseable value is
	// treated the same as a missing confirmation.
	materialsCost, err := strconv.ParseInt(totalRaw, 10, 64)
	if err != nil {
		s.log.Warn("Stored materials total is not an integer", map[string]interface{}{
			"session_id": sessionID.String(),
			"value":      totalRaw,
		})
		return nil, ErrMaterialsNotConfirmed
	}

	reportItems := make([]ReportLineItem, 0, len(items))
	for _, item := range items {
		line := ReportLineItem{MaterialLineItem: item}
		if item.Floor != nil {
			line.FloorLabel = models.APIFloorLabel(*item.Floor)
		}
		reportItems = append(reportItems, line)
	}

	cost := estimate.Result.Cost
	grey := float64(materialsCost) + cost.LabourCost
	total := grey + cost.FinishingCost

	report := &CostReport{
		Items:         reportItems,
		MaterialsCost: materialsCost,
		LabourCost:    cost.LabourCost,
		GreyStructure: grey,
		FinishingCost: cost.FinishingCost,
		TotalCost:     total,
		Plan:          estimate.Result.Plan,
	}
	if estimate.Result.Finishing != nil {
		report.MaterialGuide = estimate.Result.Finishing.MaterialGuide
	}
	return report, nil
}
