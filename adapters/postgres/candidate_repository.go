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

// CandidateRepositoryImpl implements CandidateRepository for PostgreSQL
type CandidateRepositoryImpl struct {
	db *sqlx.DB
}

// NewCandidateRepository creates a new PostgreSQL candidate repository
func NewCandidateRepository(db *sqlx.DB) ports.CandidateRepository {
	return &CandidateRepositoryImpl{db: db}
}

// CreateCandidate persists a new candidate
func (r *CandidateRepositoryImpl) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO candidates (id, email, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, candidate.ID, candidate.Email, candidate.FullName, candidate.CreatedAt, candidate.UpdatedAt)
	return err
}

// GetCandidate retrieves a candidate by ID
func (r *CandidateRepositoryImpl) GetCandidate(ctx context.Context, id core.CandidateID) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.GetContext(ctx, &candidate, `
		SELECT id, email, full_name, created_at, updated_at
		FROM candidates
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("candidate", id.String())
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// GetCandidateByEmail retrieves a candidate by email
func (r *CandidateRepositoryImpl) GetCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.GetContext(ctx, &candidate, `
		SELECT id, email, full_name, created_at, updated_at
		FROM candidates
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("candidate", email)
	}
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}
