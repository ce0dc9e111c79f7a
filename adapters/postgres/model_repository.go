package postgres

import (
	"context"
	"database/sql"
	"errors"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"

	"github.com/jmoiron/sqlx"
)

// ModelRepositoryImpl implements ModelRepository for PostgreSQL
type ModelRepositoryImpl struct {
	db *sqlx.DB
}

// NewModelRepository creates a new PostgreSQL model repository
func NewModelRepository(db *sqlx.DB) ports.ModelRepository {
	return &ModelRepositoryImpl{db: db}
}

// CreateModel persists a model and its scale ranges
func (r *ModelRepositoryImpl) CreateModel(ctx context.Context, model *models.PerformanceModel) error {
	if err := model.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO performance_models (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, model.ID, model.Name, model.Description, model.IsActive, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return err
	}

	for _, rng := range model.Ranges {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO model_scale_ranges (id, model_id, scale_id, domain, target_min, target_max, weight)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, rng.ID, model.ID, rng.ScaleID, rng.Domain, rng.TargetMin, rng.TargetMax, rng.Weight)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetModel retrieves a model with its ranges loaded
func (r *ModelRepositoryImpl) GetModel(ctx context.Context, id core.ModelID) (*models.PerformanceModel, error) {
	var model models.PerformanceModel
	err := r.db.GetContext(ctx, &model, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM performance_models
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("performance model", id.String())
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadRanges(ctx, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// ListModels returns all active models, ranges loaded, ordered by name
func (r *ModelRepositoryImpl) ListModels(ctx context.Context) ([]*models.PerformanceModel, error) {
	var list []*models.PerformanceModel
	err := r.db.SelectContext(ctx, &list, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM performance_models
		WHERE is_active = true
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}

	for _, model := range list {
		if err := r.loadRanges(ctx, model); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ModelRepositoryImpl) loadRanges(ctx context.Context, model *models.PerformanceModel) error {
	return r.db.SelectContext(ctx, &model.Ranges, `
		SELECT id, model_id, scale_id, domain, target_min, target_max, weight
		FROM model_scale_ranges
		WHERE model_id = $1
		ORDER BY scale_id ASC
	`, model.ID)
}
