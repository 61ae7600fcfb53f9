package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliraza167/construction-planner/api/internal/logger"
	"github.com/aliraza167/construction-planner/api/internal/models"
)

// confirmedSession seeds an estimate and a confirmed materials summary so the
// report has everything it needs.
func confirmedSession(t *testing.T, repo *memStateRepository) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	sessionID := uuid.New()

	floor := 0
	err := repo.SetEstimate(ctx, sessionID, models.EstimateResponse{
		Result: models.EstimateResult{
			Cost: models.CostBreakdown{LabourCost: 500000, FinishingCost: 900000},
			Plan: map[string]interface{}{"Total Covered Area": "1200 sq.ft"},
			Finishing: &models.Finishing{
				MaterialGuide: []models.MaterialGuideItem{
					{Category: "Flooring", MaterialType: "Tiles", Notes: "Grade A"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetMaterialsConfirmed(ctx, sessionID, true))
	require.NoError(t, repo.SetMaterialsTotal(ctx, sessionID, "1365600"))
	require.NoError(t, repo.SetMaterialsSummary(ctx, sessionID, []models.MaterialLineItem{
		{Floor: &floor, Material: "Bricks", Quantity: 45000, UnitPrice: 12, TotalPrice: 540000},
		{Material: "Sand", Quantity: 100, UnitPrice: 38, TotalPrice: 3800},
	}))
	return sessionID
}

func TestBuildReport(t *testing.T) {
	// Arrange
	repo := newMemStateRepository()
	service := NewReportService(repo, logger.New("test"))
	sessionID := confirmedSession(t, repo)

	// Act
	report, err := service.BuildReport(context.Background(), sessionID)

	// Assert: grey structure is materials plus labour, the grand total adds
	// finishing on top.
	require.NoError(t, err)
	assert.Equal(t, int64(1365600), report.MaterialsCost)
	assert.Equal(t, 500000.0, report.LabourCost)
	assert.Equal(t, 1865600.0, report.GreyStructure)
	assert.Equal(t, 900000.0, report.FinishingCost)
	assert.Equal(t, 2765600.0, report.TotalCost)

	assert.Equal(t, "1200 sq.ft", report.Plan["Total Covered Area"])
	require.Len(t, report.MaterialGuide, 1)
	assert.Equal(t, "Tiles", report.MaterialGuide[0].MaterialType)
}

func TestBuildReport_FloorLabels(t *testing.T) {
	// Arrange
	repo := newMemStateRepository()
	service := NewReportService(repo, logger.New("test"))
	sessionID := confirmedSession(t, repo)

	// Act
	report, err := service.BuildReport(context.Background(), sessionID)

	// Assert: per-floor rows get a label, flat rows stay unlabeled.
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.Equal(t, "Ground Floor", report.Items[0].FloorLabel)
	assert.Equal(t, "Bricks", report.Items[0].Material)
	assert.Empty(t, report.Items[1].FloorLabel)
}

func TestBuildReport_NoEstimate(t *testing.T) {
	// Arrange
	repo := newMemStateRepository()
	service := NewReportService(repo, logger.New("test"))

	// Act
	_, err := service.BuildReport(context.Background(), uuid.New())

	// Assert
	assert.ErrorIs(t, err, ErrMaterialsNotConfirmed)
}

func TestBuildReport_NotConfirmed(t *testing.T) {
	// Arrange: estimate exists but materials were never confirmed.
	repo := newMemStateRepository()
	service := NewReportService(repo, logger.New("test"))
	ctx := context.Background()
	sessionID := uuid.New()
	require.NoError(t, repo.SetEstimate(ctx, sessionID, models.EstimateResponse{}))

	// Act
	_, err := service.BuildReport(ctx, sessionID)

	// Assert
	assert.ErrorIs(t, err, ErrMaterialsNotConfirmed)
}

func TestBuildReport_CorruptTotal(t *testing.T) {
	// Arrange
	repo := newMemStateRepository()
	service := NewReportService(repo, logger.New("test"))
	ctx := context.Background()
	sessionID := confirmedSession(t, repo)
	require.NoError(t, repo.SetMaterialsTotal(ctx, sessionID, "not a number"))

	// Act
	_, err := service.BuildReport(ctx, sessionID)

	// Assert
	assert.ErrorIs(t, err, ErrMaterialsNotConfirmed)
}
