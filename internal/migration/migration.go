package migration

import (
	"context"

	"psymatch/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createScalesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create scales table")
	}

	if err := r.createItemsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create items table")
	}

	if err := r.createCandidatesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create candidates table")
	}

	if err := r.createAssessmentsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create assessments table")
	}

	if err := r.createResponsesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create responses table")
	}

	if err := r.createScaleScoresTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create scale_scores table")
	}

	if err := r.createPerformanceModelsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create performance_models table")
	}

	if err := r.createModelScaleRangesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create model_scale_ranges table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createScalesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scales (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			domain VARCHAR(20) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createItemsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS items (
			id VARCHAR(64) PRIMARY KEY,
			scale_id VARCHAR(64) NOT NULL REFERENCES scales(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			format VARCHAR(20) NOT NULL,
			options JSONB,
			correct_answer TEXT,
			discrimination DOUBLE PRECISION,
			difficulty DOUBLE PRECISION,
			guessing DOUBLE PRECISION,
			loadings JSONB,
			reversed BOOLEAN NOT NULL DEFAULT false,
			is_distortion BOOLEAN NOT NULL DEFAULT false,
			active BOOLEAN NOT NULL DEFAULT true,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createCandidatesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createAssessmentsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS assessments (
			id UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL DEFAULT 'full',
			status VARCHAR(20) NOT NULL DEFAULT 'created',
			current_section VARCHAR(20) NOT NULL DEFAULT 'cognitive',
			section_index INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP WITH TIME ZONE,
			completed_at TIMESTAMP WITH TIME ZONE,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createResponsesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS responses (
			id UUID PRIMARY KEY,
			assessment_id UUID NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
			item_id VARCHAR(64) NOT NULL REFERENCES items(id),
			scale_id VARCHAR(64) NOT NULL REFERENCES scales(id),
			value JSONB NOT NULL,
			is_correct BOOLEAN,
			theta_after DOUBLE PRECISION,
			sem_after DOUBLE PRECISION,
			position INTEGER NOT NULL DEFAULT 0,
			response_time_ms INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (assessment_id, item_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createScaleScoresTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS scale_scores (
			id UUID PRIMARY KEY,
			assessment_id UUID NOT NULL REFERENCES assessments(id) ON DELETE CASCADE,
			scale_id VARCHAR(64) NOT NULL REFERENCES scales(id),
			raw DOUBLE PRECISION NOT NULL,
			sten INTEGER NOT NULL,
			percentile DOUBLE PRECISION NOT NULL,
			theta DOUBLE PRECISION,
			theta_sem DOUBLE PRECISION,
			item_count INTEGER NOT NULL DEFAULT 0,
			validity JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (assessment_id, scale_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createPerformanceModelsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS performance_models (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createModelScaleRangesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS model_scale_ranges (
			id UUID PRIMARY KEY,
			model_id UUID NOT NULL REFERENCES performance_models(id) ON DELETE CASCADE,
			scale_id VARCHAR(64) NOT NULL REFERENCES scales(id),
			domain VARCHAR(20) NOT NULL,
			target_min INTEGER NOT NULL,
			target_max INTEGER NOT NULL,
			weight DOUBLE PRECISION NOT NULL DEFAULT 1.0,
			UNIQUE (model_id, scale_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_items_scale_id ON items(scale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_candidate_id ON assessments(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_status ON assessments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_assessment_id ON responses(assessment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_responses_assessment_scale ON responses(assessment_id, scale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_scale_scores_assessment_id ON scale_scores(assessment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_model_scale_ranges_model_id ON model_scale_ranges(model_id)`,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}

	return nil
}
