package ports

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
)

// ModelRepository defines Performance Model persistence.
type ModelRepository interface {
	// CreateModel persists a model and its scale ranges
	CreateModel(ctx context.Context, model *models.PerformanceModel) error

	// GetModel retrieves a model with its ranges loaded
	GetModel(ctx context.Context, id core.ModelID) (*models.PerformanceModel, error)

	// ListModels returns all active models, ranges loaded, ordered by name
	ListModels(ctx context.Context) ([]*models.PerformanceModel, error)
}
