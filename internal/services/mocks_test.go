package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aliraza167/construction-planner/api/internal/models"
)

// memStateRepository is an in-memory StateRepository for service tests. It
// mirrors the real repository's contract: getters return the absent value for
// keys that were never written. setErr, when set, is returned by every
// mutating call to exercise the best-effort persistence paths.
type memStateRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionState
	setErr   error
}

type sessionState struct {
	plot      *models.PlotSpec
	floors    []models.FloorConfig
	estimate  *models.EstimateResponse
	confirmed *bool
	summary   []models.MaterialLineItem
	total     *string
	step      *models.Step
	design    map[string]interface{}
}

func newMemStateRepository() *memStateRepository {
	return &memStateRepository{sessions: make(map[uuid.UUID]*sessionState)}
}

func (r *memStateRepository) session(id uuid.UUID) *sessionState {
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := &sessionState{}
	r.sessions[id] = s
	return s
}

func (r *memStateRepository) SessionExists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok, nil
}

func (r *memStateRepository) GetPlot(_ context.Context, id uuid.UUID) (*models.PlotSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.plot != nil {
		plot := *s.plot
		return &plot, nil
	}
	return nil, nil
}

func (r *memStateRepository) SetPlot(_ context.Context, id uuid.UUID, plot models.PlotSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).plot = &plot
	return nil
}

func (r *memStateRepository) GetFloors(_ context.Context, id uuid.UUID) ([]models.FloorConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.floors != nil {
		floors := make([]models.FloorConfig, len(s.floors))
		copy(floors, s.floors)
		return floors, nil
	}
	return nil, nil
}

func (r *memStateRepository) SetFloors(_ context.Context, id uuid.UUID, floors []models.FloorConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	stored := make([]models.FloorConfig, len(floors))
	copy(stored, floors)
	r.session(id).floors = stored
	return nil
}

func (r *memStateRepository) GetEstimate(_ context.Context, id uuid.UUID) (*models.EstimateResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.estimate != nil {
		estimate := *s.estimate
		return &estimate, nil
	}
	return nil, nil
}

func (r *memStateRepository) SetEstimate(_ context.Context, id uuid.UUID, estimate models.EstimateResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).estimate = &estimate
	return nil
}

func (r *memStateRepository) GetMaterialsConfirmed(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.confirmed != nil {
		return *s.confirmed, nil
	}
	return false, nil
}

func (r *memStateRepository) SetMaterialsConfirmed(_ context.Context, id uuid.UUID, confirmed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).confirmed = &confirmed
	return nil
}

func (r *memStateRepository) GetMaterialsSummary(_ context.Context, id uuid.UUID) ([]models.MaterialLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.summary, nil
	}
	return nil, nil
}

func (r *memStateRepository) SetMaterialsSummary(_ context.Context, id uuid.UUID, items []models.MaterialLineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).summary = items
	return nil
}

func (r *memStateRepository) GetMaterialsTotal(_ context.Context, id uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.total != nil {
		return *s.total, nil
	}
	return "", nil
}

func (r *memStateRepository) SetMaterialsTotal(_ context.Context, id uuid.UUID, total string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).total = &total
	return nil
}

func (r *memStateRepository) GetActiveStep(_ context.Context, id uuid.UUID) (models.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.step != nil {
		return *s.step, nil
	}
	return models.StepInput, nil
}

func (r *memStateRepository) SetActiveStep(_ context.Context, id uuid.UUID, step models.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).step = &step
	return nil
}

func (r *memStateRepository) GetDesignImages(_ context.Context, id uuid.UUID) (map[string]interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s.design, nil
	}
	return nil, nil
}

func (r *memStateRepository) SetDesignImages(_ context.Context, id uuid.UUID, images map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setErr != nil {
		return r.setErr
	}
	r.session(id).design = images
	return nil
}

func (r *memStateRepository) ClearDesignImages(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.design = nil
	}
	return nil
}

func (r *memStateRepository) ClearMaterials(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.summary = nil
		s.total = nil
		s.confirmed = nil
	}
	return nil
}

func (r *memStateRepository) Clear(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// MockEstimatorClient is a mock implementation of estimator.Client for testing.
type MockEstimatorClient struct {
	mock.Mock
}

func (m *MockEstimatorClient) SubmitEstimate(ctx context.Context, req models.EstimateRequest) (*models.EstimateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EstimateResponse), args.Error(1)
}

func (m *MockEstimatorClient) GenerateImages(ctx context.Context, req models.ImageRequest) (map[string]interface{}, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}
