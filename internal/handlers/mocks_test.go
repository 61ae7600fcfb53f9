package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aliraza167/construction-planner/api/internal/models"
	"github.com/aliraza167/construction-planner/api/internal/services"
)

// MockWorkflowService is a mock implementation of services.WorkflowService.
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) CreateSession(ctx context.Context) (*models.WorkflowState, uuid.UUID, error) {
	args := m.Called(ctx)
	var state *models.WorkflowState
	if args.Get(0) != nil {
		state = args.Get(0).(*models.WorkflowState)
	}
	return state, args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *MockWorkflowService) GetState(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowState), args.Error(1)
}

func (m *MockWorkflowService) EnsureSession(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockWorkflowService) UpdatePlot(ctx context.Context, sessionID uuid.UUID, plot models.PlotSpec) (*models.PlotSpec, error) {
	args := m.Called(ctx, sessionID, plot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlotSpec), args.Error(1)
}

func (m *MockWorkflowService) SubmitEstimate(ctx context.Context, sessionID uuid.UUID) (*models.EstimateResponse, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EstimateResponse), args.Error(1)
}

func (m *MockWorkflowService) Advance(ctx context.Context, sessionID uuid.UUID) (models.Step, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(models.Step), args.Error(1)
}

func (m *MockWorkflowService) Back(ctx context.Context, sessionID uuid.UUID) (models.Step, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(models.Step), args.Error(1)
}

func (m *MockWorkflowService) Reset(ctx context.Context, sessionID uuid.UUID) (*models.WorkflowState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowState), args.Error(1)
}

// MockFloorService is a mock implementation of services.FloorService.
type MockFloorService struct {
	mock.Mock
}

func (m *MockFloorService) AddFloor(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FloorConfig), args.Error(1)
}

func (m *MockFloorService) RemoveFloor(ctx context.Context, sessionID uuid.UUID, index int) ([]models.FloorConfig, error) {
	args := m.Called(ctx, sessionID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FloorConfig), args.Error(1)
}

func (m *MockFloorService) UpdateFloor(ctx context.Context, sessionID uuid.UUID, index int, update services.FloorUpdate) ([]models.FloorConfig, error) {
	args := m.Called(ctx, sessionID, index, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FloorConfig), args.Error(1)
}

func (m *MockFloorService) ValidateSubmission(plot models.PlotSpec, floors []models.FloorConfig) map[string]string {
	args := m.Called(plot, floors)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]string)
}

// MockPricingService is a mock implementation of services.PricingService.
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) PreviewMaterials(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*services.MaterialsView, error) {
	args := m.Called(ctx, sessionID, tierChoices)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MaterialsView), args.Error(1)
}

func (m *MockPricingService) Confirm(ctx context.Context, sessionID uuid.UUID, tierChoices map[string]string) (*models.ConfirmedMaterialsSummary, error) {
	args := m.Called(ctx, sessionID, tierChoices)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmedMaterialsSummary), args.Error(1)
}

// MockReportService is a mock implementation of services.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) BuildReport(ctx context.Context, sessionID uuid.UUID) (*services.CostReport, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CostReport), args.Error(1)
}

// MockDesignService is a mock implementation of services.DesignService.
type MockDesignService struct {
	mock.Mock
}

func (m *MockDesignService) GenerateDesign(ctx context.Context, sessionID uuid.UUID, extraFeatures string) (map[string]interface{}, error) {
	args := m.Called(ctx, sessionID, extraFeatures)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockDesignService) GetDesign(ctx context.Context, sessionID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockDesignService) ClearDesign(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
