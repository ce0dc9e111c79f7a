package postgres

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"

	"github.com/jmoiron/sqlx"
)

// ScoreRepositoryImpl implements ScoreRepository for PostgreSQL
type ScoreRepositoryImpl struct {
	db *sqlx.DB
}

// NewScoreRepository creates a new PostgreSQL score repository
func NewScoreRepository(db *sqlx.DB) ports.ScoreRepository {
	return &ScoreRepositoryImpl{db: db}
}

// SaveScores persists all scores of one assessment in a single transaction,
// replacing any previous set. Replacement keeps the operation idempotent for
// a re-run completion.
func (r *ScoreRepositoryImpl) SaveScores(ctx context.Context, assessmentID core.AssessmentID, scores []*models.ScaleScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scale_scores WHERE assessment_id = $1`, assessmentID); err != nil {
		return err
	}

	for _, score := range scores {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scale_scores (id, assessment_id, scale_id, raw, sten, percentile, theta, theta_sem, item_count, validity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, score.ID, score.AssessmentID, score.ScaleID, score.Raw, score.Sten, score.Percentile,
			score.Theta, score.ThetaSEM, score.ItemCount, score.Validity, score.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListScores returns an assessment's scores ordered by scale ID
func (r *ScoreRepositoryImpl) ListScores(ctx context.Context, assessmentID core.AssessmentID) ([]*models.ScaleScore, error) {
	var scores []*models.ScaleScore
	err := r.db.SelectContext(ctx, &scores, `
		SELECT id, assessment_id, scale_id, raw, sten, percentile, theta, theta_sem, item_count, validity, created_at
		FROM scale_scores
		WHERE assessment_id = $1
		ORDER BY scale_id ASC
	`, assessmentID)
	return scores, err
}

// HasScores reports whether the assessment has a persisted score set
func (r *ScoreRepositoryImpl) HasScores(ctx context.Context, assessmentID core.AssessmentID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM scale_scores WHERE assessment_id = $1
	`, assessmentID)
	return count > 0, err
}
