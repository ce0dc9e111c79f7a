package ports

import (
	"context"

	"psymatch/domain/core"
	"psymatch/models"
)

// AssessmentRepository defines assessment and response persistence.
//
// WithAssessmentLock serializes concurrent operations on one assessment: the
// callback runs with the assessment row locked, and all reads and writes of
// that assessment's state inside the callback see a consistent snapshot.
type AssessmentRepository interface {
	// CreateAssessment persists a new assessment
	CreateAssessment(ctx context.Context, assessment *models.Assessment) error

	// GetAssessment retrieves an assessment by ID
	GetAssessment(ctx context.Context, id core.AssessmentID) (*models.Assessment, error)

	// UpdateAssessment persists lifecycle and cursor changes
	UpdateAssessment(ctx context.Context, assessment *models.Assessment) error

	// WithAssessmentLock runs fn while holding an exclusive lock on the
	// assessment row, passing the freshly loaded assessment
	WithAssessmentLock(ctx context.Context, id core.AssessmentID, fn func(ctx context.Context, assessment *models.Assessment) error) error

	// SaveResponse persists one answered item
	SaveResponse(ctx context.Context, response *models.Response) error

	// ListResponses returns an assessment's responses in administration order
	ListResponses(ctx context.Context, assessmentID core.AssessmentID) ([]*models.Response, error)

	// ListResponsesByScale returns responses for one scale in administration order
	ListResponsesByScale(ctx context.Context, assessmentID core.AssessmentID, scaleID core.ScaleID) ([]*models.Response, error)

	// HasResponse reports whether the item was already answered in this assessment
	HasResponse(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error)
}
