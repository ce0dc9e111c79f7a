package ports

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
)

// ScoreRepository defines persistence of per-scale results.
type ScoreRepository interface {
	// SaveScores persists all scores of one assessment in a single transaction,
	// replacing any previous set
	SaveScores(ctx context.Context, assessmentID core.AssessmentID, scores []*models.ScaleScore) error

	// ListScores returns an assessment's scores ordered by scale ID
	ListScores(ctx context.Context, assessmentID core.AssessmentID) ([]*models.ScaleScore, error)

	// HasScores reports whether the assessment has a persisted score set
	HasScores(ctx context.Context, assessmentID core.AssessmentID) (bool, error)
}
