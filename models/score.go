package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"psymatch/domain/core"
	"psymatch/domain/scoring"
)

// ValidityReport is the distortion-layer verdict attached to the distortion
// scale's score row, stored as JSONB.
type ValidityReport struct {
	Category         scoring.ValidityCategory  `json:"category"`
	ConsistencyScore float64                   `json:"consistency_score"`
	Patterns         []scoring.ResponsePattern `json:"patterns,omitempty"`
	Recommendation   scoring.Recommendation    `json:"recommendation"`
}

// Value implements driver.Valuer.
func (r ValidityReport) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner.
func (r *ValidityReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ValidityReport", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, r)
}

// ScaleScore is a persisted per-scale result for a completed assessment.
type ScaleScore struct {
	ID           core.ScoreID      `json:"id" db:"id"`
	AssessmentID core.AssessmentID `json:"assessment_id" db:"assessment_id"`
	ScaleID      core.ScaleID      `json:"scale_id" db:"scale_id"`
	Raw          float64           `json:"raw" db:"raw"`
	Sten         int               `json:"sten" db:"sten"`
	Percentile   float64           `json:"percentile" db:"percentile"`
	Theta        *float64          `json:"theta,omitempty" db:"theta"`
	ThetaSEM     *float64          `json:"theta_sem,omitempty" db:"theta_sem"`
	ItemCount    int               `json:"item_count" db:"item_count"`
	Validity     *ValidityReport   `json:"validity,omitempty" db:"validity"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// ScoreFromDistortion lifts the distortion verdict into a persistable row
// with its validity report attached.
func ScoreFromDistortion(assessmentID core.AssessmentID, d scoring.DistortionResult) *ScaleScore {
	row := ScoreFromResult(assessmentID, d.Result)
	row.Validity = &ValidityReport{
		Category:         d.Category,
		ConsistencyScore: d.Consistency,
		Patterns:         d.Patterns,
		Recommendation:   d.Recommendation,
	}
	return row
}

// ScoreFromResult lifts a scoring result into a persistable row.
func ScoreFromResult(assessmentID core.AssessmentID, r scoring.Result) *ScaleScore {
	return &ScaleScore{
		ID:           core.NewScoreID(),
		AssessmentID: assessmentID,
		ScaleID:      r.ScaleID,
		Raw:          r.Raw,
		Sten:         r.Sten,
		Percentile:   float64(r.Percentile),
		Theta:        r.Theta,
		ThetaSEM:     r.ThetaSEM,
		ItemCount:    r.ItemCount,
		CreatedAt:    time.Now().UTC(),
	}
}
