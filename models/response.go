package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"psymatch/domain/core"
)

// ResponseKind tags the response value variant.
type ResponseKind string

const (
	ResponseLikert         ResponseKind = "likert"
	ResponseMultipleChoice ResponseKind = "multiple_choice"
	ResponseForcedChoice   ResponseKind = "forced_choice"
	ResponseBinary         ResponseKind = "binary"
)

// ResponseValue is a tagged union stored as JSONB: exactly one payload field
// is meaningful for a given kind.
type ResponseValue struct {
	Kind ResponseKind `json:"kind"`
	// Likert: 1..5 endorsement
	Likert int `json:"likert,omitempty"`
	// MultipleChoice: the selected option text
	Selected string `json:"selected,omitempty"`
	// ForcedChoice: index of the chosen option within the item's pair
	ChosenIndex int `json:"chosen_index,omitempty"`
	// Binary: true/false answer
	Answer bool `json:"answer,omitempty"`
}

// Validate checks the variant payload against its kind.
func (v ResponseValue) Validate() error {
	switch v.Kind {
	case ResponseLikert:
		if v.Likert < 1 || v.Likert > 5 {
			return fmt.Errorf("%w: likert value %d outside 1..5", core.ErrInvalidInput, v.Likert)
		}
	case ResponseMultipleChoice:
		if v.Selected == "" {
			return fmt.Errorf("%w: multiple choice response needs a selection", core.ErrInvalidInput)
		}
	case ResponseForcedChoice:
		if v.ChosenIndex < 0 || v.ChosenIndex > 1 {
			return fmt.Errorf("%w: forced choice index %d outside 0..1", core.ErrInvalidInput, v.ChosenIndex)
		}
	case ResponseBinary:
		// any bool is fine
	default:
		return fmt.Errorf("%w: unknown response kind %q", core.ErrInvalidInput, v.Kind)
	}
	return nil
}

// Value implements driver.Valuer.
func (v ResponseValue) Value() (driver.Value, error) {
	return json.Marshal(v)
}

// Scan implements sql.Scanner.
func (v *ResponseValue) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("response value cannot be null")
	}
	var bytes []byte
	switch raw := value.(type) {
	case []byte:
		bytes = raw
	case string:
		bytes = []byte(raw)
	default:
		return fmt.Errorf("cannot scan %T into ResponseValue", value)
	}
	return json.Unmarshal(bytes, v)
}

// Response is one answered item, with the scoring facts captured at answer
// time: correctness for cognitive items and the ability snapshot after the
// adaptive update. ResponseTimeMs is the client-reported latency between
// presenting the item and the answer; zero means unreported.
type Response struct {
	ID             core.ResponseID   `json:"id" db:"id"`
	AssessmentID   core.AssessmentID `json:"assessment_id" db:"assessment_id"`
	ItemID         core.ItemID       `json:"item_id" db:"item_id"`
	ScaleID        core.ScaleID      `json:"scale_id" db:"scale_id"`
	Value          ResponseValue     `json:"value" db:"value"`
	IsCorrect      *bool             `json:"is_correct,omitempty" db:"is_correct"`
	ThetaAfter     *float64          `json:"theta_after,omitempty" db:"theta_after"`
	SEMAfter       *float64          `json:"sem_after,omitempty" db:"sem_after"`
	Position       int               `json:"position" db:"position"`
	ResponseTimeMs int               `json:"response_time_ms,omitempty" db:"response_time_ms"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
}
