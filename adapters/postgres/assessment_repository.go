package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"

	"github.com/jmoiron/sqlx"
)

// AssessmentRepositoryImpl implements AssessmentRepository for PostgreSQL
type AssessmentRepositoryImpl struct {
	db *sqlx.DB
}

// NewAssessmentRepository creates a new PostgreSQL assessment repository
func NewAssessmentRepository(db *sqlx.DB) ports.AssessmentRepository {
	return &AssessmentRepositoryImpl{db: db}
}

// CreateAssessment persists a new assessment
func (r *AssessmentRepositoryImpl) CreateAssessment(ctx context.Context, assessment *models.Assessment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assessments (id, candidate_id, type, status, current_section, section_index, started_at, completed_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, assessment.ID, assessment.CandidateID, assessment.Type, assessment.Status, assessment.CurrentSection, assessment.SectionIndex,
		assessment.StartedAt, assessment.CompletedAt, assessment.ExpiresAt, assessment.CreatedAt, assessment.UpdatedAt)
	return err
}

// GetAssessment retrieves an assessment by ID
func (r *AssessmentRepositoryImpl) GetAssessment(ctx context.Context, id core.AssessmentID) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.GetContext(ctx, &assessment, `
		SELECT id, candidate_id, type, status, current_section, section_index, started_at, completed_at, expires_at, created_at, updated_at
		FROM assessments
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("assessment", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

// UpdateAssessment persists lifecycle and cursor changes
func (r *AssessmentRepositoryImpl) UpdateAssessment(ctx context.Context, assessment *models.Assessment) error {
	return r.updateAssessment(ctx, r.db, assessment)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *AssessmentRepositoryImpl) updateAssessment(ctx context.Context, ex execer, assessment *models.Assessment) error {
	result, err := ex.ExecContext(ctx, `
		UPDATE assessments
		SET status = $2, current_section = $3, section_index = $4, started_at = $5, completed_at = $6, updated_at = $7
		WHERE id = $1
	`, assessment.ID, assessment.Status, assessment.CurrentSection, assessment.SectionIndex,
		assessment.StartedAt, assessment.CompletedAt, assessment.UpdatedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return core.NewNotFoundError("assessment", assessment.ID.String())
	}
	return nil
}

// WithAssessmentLock serializes operations on one assessment with a row lock.
// The loaded assessment and all writes inside fn happen within a single
// transaction, so concurrent responders see sequential state.
func (r *AssessmentRepositoryImpl) WithAssessmentLock(ctx context.Context, id core.AssessmentID, fn func(ctx context.Context, assessment *models.Assessment) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var assessment models.Assessment
	err = tx.GetContext(ctx, &assessment, `
		SELECT id, candidate_id, type, status, current_section, section_index, started_at, completed_at, expires_at, created_at, updated_at
		FROM assessments
		WHERE id = $1
		FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewNotFoundError("assessment", id.String())
	}
	if err != nil {
		return err
	}

	lockCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(lockCtx, &assessment); err != nil {
		return err
	}

	if err := r.updateAssessment(ctx, tx, &assessment); err != nil {
		return fmt.Errorf("persisting locked assessment: %w", err)
	}
	return tx.Commit()
}

// txKey carries the lock transaction through the callback context so writes
// issued inside WithAssessmentLock join it.
type txKey struct{}

func (r *AssessmentRepositoryImpl) execerFrom(ctx context.Context) execer {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

func (r *AssessmentRepositoryImpl) queryerFrom(ctx context.Context) sqlx.QueryerContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.db
}

// SaveResponse persists one answered item
func (r *AssessmentRepositoryImpl) SaveResponse(ctx context.Context, response *models.Response) error {
	_, err := r.execerFrom(ctx).ExecContext(ctx, `
		INSERT INTO responses (id, assessment_id, item_id, scale_id, value, is_correct, theta_after, sem_after, position, response_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, response.ID, response.AssessmentID, response.ItemID, response.ScaleID, response.Value,
		response.IsCorrect, response.ThetaAfter, response.SEMAfter, response.Position, response.ResponseTimeMs, response.CreatedAt)
	return err
}

// ListResponses returns an assessment's responses in administration order
func (r *AssessmentRepositoryImpl) ListResponses(ctx context.Context, assessmentID core.AssessmentID) ([]*models.Response, error) {
	var responses []*models.Response
	err := sqlx.SelectContext(ctx, r.queryerFrom(ctx), &responses, `
		SELECT id, assessment_id, item_id, scale_id, value, is_correct, theta_after, sem_after, position, response_time_ms, created_at
		FROM responses
		WHERE assessment_id = $1
		ORDER BY position ASC
	`, assessmentID)
	return responses, err
}

// ListResponsesByScale returns responses for one scale in administration order
func (r *AssessmentRepositoryImpl) ListResponsesByScale(ctx context.Context, assessmentID core.AssessmentID, scaleID core.ScaleID) ([]*models.Response, error) {
	var responses []*models.Response
	err := sqlx.SelectContext(ctx, r.queryerFrom(ctx), &responses, `
		SELECT id, assessment_id, item_id, scale_id, value, is_correct, theta_after, sem_after, position, response_time_ms, created_at
		FROM responses
		WHERE assessment_id = $1 AND scale_id = $2
		ORDER BY position ASC
	`, assessmentID, scaleID)
	return responses, err
}

// HasResponse reports whether the item was already answered in this assessment
func (r *AssessmentRepositoryImpl) HasResponse(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, r.queryerFrom(ctx), &count, `
		SELECT COUNT(*) FROM responses WHERE assessment_id = $1 AND item_id = $2
	`, assessmentID, itemID)
	return count > 0, err
}
