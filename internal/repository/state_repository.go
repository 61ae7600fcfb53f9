package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliraza167/construction-planner/api/internal/database"
	"github.com/aliraza167/construction-planner/api/internal/models"
)

// Persisted state keys. Components never touch the key/value table directly;
// the typed accessors below are the only way in or out.
const (
	keyPlotForm           = "plot_form"
	keyFloors             = "floors"
	keyEstimate           = "estimate"
	keyMaterialsConfirmed = "materials_confirmed"
	keyMaterialsSummary   = "materials_summary"
	keyMaterialsTotal     = "materials_total"
	keyActiveStep         = "active_step"
	keyDesignImages       = "design_images"
)

// StateRepository is the durable backing for the wizard: every mutation is
// written through synchronously so a session survives page reloads and
// process restarts. Getters return the zero-ish "absent" value (nil pointer,
// nil slice, false, empty string) rather than an error when a key has never
// been written.
type StateRepository interface {
	// SessionExists reports whether any state has been written for the session.
	SessionExists(ctx context.Context, sessionID uuid.UUID) (bool, error)

	GetPlot(ctx context.Context, sessionID uuid.UUID) (*models.PlotSpec, error)
	SetPlot(ctx context.Context, sessionID uuid.UUID, plot models.PlotSpec) error

	GetFloors(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error)
	SetFloors(ctx context.Context, sessionID uuid.UUID, floors []models.FloorConfig) error

	GetEstimate(ctx context.Context, sessionID uuid.UUID) (*models.EstimateResponse, error)
	SetEstimate(ctx context.Context, sessionID uuid.UUID, estimate models.EstimateResponse) error

	GetMaterialsConfirmed(ctx context.Context, sessionID uuid.UUID) (bool, error)
	SetMaterialsConfirmed(ctx context.Context, sessionID uuid.UUID, confirmed bool) error

	GetMaterialsSummary(ctx context.Context, sessionID uuid.UUID) ([]models.MaterialLineItem, error)
	SetMaterialsSummary(ctx context.Context, sessionID uuid.UUID, items []models.MaterialLineItem) error

	GetMaterialsTotal(ctx context.Context, sessionID uuid.UUID) (string, error)
	SetMaterialsTotal(ctx context.Context, sessionID uuid.UUID, total string) error

	GetActiveStep(ctx context.Context, sessionID uuid.UUID) (models.Step, error)
	SetActiveStep(ctx context.Context, sessionID uuid.UUID, step models.Step) error

	GetDesignImages(ctx context.Context, sessionID uuid.UUID) (map[string]interface{}, error)
	SetDesignImages(ctx context.Context, sessionID uuid.UUID, images map[string]interface{}) error
	ClearDesignImages(ctx context.Context, sessionID uuid.UUID) error

	// ClearMaterials drops the confirmed summary, total and confirmed flag.
	// Called whenever a fresh estimate is requested, since the previously
	// confirmed quantities become stale.
	ClearMaterials(ctx context.Context, sessionID uuid.UUID) error

	// Clear removes every key for the session. This is the only operation
	// that destroys state and backs the explicit reset action.
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// stateRepository is the concrete implementation of StateRepository.
type stateRepository struct {
	db *database.Database
}

// NewStateRepository creates a new instance of StateRepository.
func NewStateRepository(db *database.Database) StateRepository {
	return &stateRepository{
		db: db,
	}
}

// get loads and unmarshals one key. The boolean reports presence; absence is
// not an error.
func (r *stateRepository) get(ctx context.Context, sessionID uuid.UUID, key string, dest interface{}) (bool, error) {
	query := `SELECT value FROM workflow_state WHERE session_id = $1 AND key = $2`

	var value []byte
	err := r.db.Pool.QueryRow(ctx, query, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load state key %q: %w", key, err)
	}

	if err := json.Unmarshal(value, dest); err != nil {
		return false, fmt.Errorf("failed to decode state key %q: %w", key, err)
	}
	return true, nil
}

// set marshals and upserts one key within the mutating operation; there is no
// buffered or delayed write path.
func (r *stateRepository) set(ctx context.Context, sessionID uuid.UUID, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode state key %q: %w", key, err)
	}

	query := `
		INSERT INTO workflow_state (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := r.db.Pool.Exec(ctx, query, sessionID, key, data); err != nil {
		return fmt.Errorf("failed to save state key %q: %w", key, err)
	}
	return nil
}

func (r *stateRepository) delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	query := `DELETE FROM workflow_state WHERE session_id = $1 AND key = ANY($2)`
	if _, err := r.db.Pool.Exec(ctx, query, sessionID, keys); err != nil {
		return fmt.Errorf("failed to delete state keys %v: %w", keys, err)
	}
	return nil
}

func (r *stateRepository) SessionExists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM workflow_state WHERE session_id = $1)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check session existence: %w", err)
	}
	return exists, nil
}

func (r *stateRepository) GetPlot(ctx context.Context, sessionID uuid.UUID) (*models.PlotSpec, error) {
	var plot models.PlotSpec
	found, err := r.get(ctx, sessionID, keyPlotForm, &plot)
	if err != nil || !found {
		return nil, err
	}
	return &plot, nil
}

func (r *stateRepository) SetPlot(ctx context.Context, sessionID uuid.UUID, plot models.PlotSpec) error {
	return r.set(ctx, sessionID, keyPlotForm, plot)
}

func (r *stateRepository) GetFloors(ctx context.Context, sessionID uuid.UUID) ([]models.FloorConfig, error) {
	var floors []models.FloorConfig
	found, err := r.get(ctx, sessionID, keyFloors, &floors)
	if err != nil || !found {
		return nil, err
	}
	return floors, nil
}

func (r *stateRepository) SetFloors(ctx context.Context, sessionID uuid.UUID, floors []models.FloorConfig) error {
	return r.set(ctx, sessionID, keyFloors, floors)
}

func (r *stateRepository) GetEstimate(ctx context.Context, sessionID uuid.UUID) (*models.EstimateResponse, error) {
	var estimate models.EstimateResponse
	found, err := r.get(ctx, sessionID, keyEstimate, &estimate)
	if err != nil || !found {
		return nil, err
	}
	return &estimate, nil
}

func (r *stateRepository) SetEstimate(ctx context.Context, sessionID uuid.UUID, estimate models.EstimateResponse) error {
	return r.set(ctx, sessionID, keyEstimate, estimate)
}

func (r *stateRepository) GetMaterialsConfirmed(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var confirmed bool
	found, err := r.get(ctx, sessionID, keyMaterialsConfirmed, &confirmed)
	if err != nil || !found {
		return false, err
	}
	return confirmed, nil
}

func (r *stateRepository) SetMaterialsConfirmed(ctx context.Context, sessionID uuid.UUID, confirmed bool) error {
	return r.set(ctx, sessionID, keyMaterialsConfirmed, confirmed)
}

func (r *stateRepository) GetMaterialsSummary(ctx context.Context, sessionID uuid.UUID) ([]models.MaterialLineItem, error) {
	var items []models.MaterialLineItem
	found, err := r.get(ctx, sessionID, keyMaterialsSummary, &items)
	if err != nil || !found {
		return nil, err
	}
	return items, nil
}

func (r *stateRepository) SetMaterialsSummary(ctx context.Context, sessionID uuid.UUID, items []models.MaterialLineItem) error {
	return r.set(ctx, sessionID, keyMaterialsSummary, items)
}

func (r *stateRepository) GetMaterialsTotal(ctx context.Context, sessionID uuid.UUID) (string, error) {
	var total string
	found, err := r.get(ctx, sessionID, keyMaterialsTotal, &total)
	if err != nil || !found {
		return "", err
	}
	return total, nil
}

func (r *stateRepository) SetMaterialsTotal(ctx context.Context, sessionID uuid.UUID, total string) error {
	return r.set(ctx, sessionID, keyMaterialsTotal, total)
}

func (r *stateRepository) GetActiveStep(ctx context.Context, sessionID uuid.UUID) (models.Step, error) {
	var step models.Step
	found, err := r.get(ctx, sessionID, keyActiveStep, &step)
	if err != nil || !found {
		return models.StepInput, err
	}
	return step, nil
}

func (r *stateRepository) SetActiveStep(ctx context.Context, sessionID uuid.UUID, step models.Step) error {
	return r.set(ctx, sessionID, keyActiveStep, step)
}

func (r *stateRepository) GetDesignImages(ctx context.Context, sessionID uuid.UUID) (map[string]interface{}, error) {
	var images map[string]interface{}
	found, err := r.get(ctx, sessionID, keyDesignImages, &images)
	if err != nil || !found {
		return nil, err
	}
	return images, nil
}

func (r *stateRepository) SetDesignImages(ctx context.Context, sessionID uuid.UUID, images map[string]interface{}) error {
	return r.set(ctx, sessionID, keyDesignImages, images)
}

func (r *stateRepository) ClearDesignImages(ctx context.Context, sessionID uuid.UUID) error {
	return r.delete(ctx, sessionID, keyDesignImages)
}

func (r *stateRepository) ClearMaterials(ctx context.Context, sessionID uuid.UUID) error {
	return r.delete(ctx, sessionID, keyMaterialsSummary, keyMaterialsTotal, keyMaterialsConfirmed)
}

func (r *stateRepository) Clear(ctx context.Context, sessionID uuid.UUID) error {
	query := `DELETE FROM workflow_state WHERE session_id = $1`
	if _, err := r.db.Pool.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to clear session state: %w", err)
	}
	return nil
}
