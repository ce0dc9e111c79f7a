package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"psymatch/domain/core"
	"psymatch/domain/irt"
)

// ItemFormat is the response format an item expects.
type ItemFormat string

const (
	FormatLikert         ItemFormat = "likert"
	FormatMultipleChoice ItemFormat = "multiple_choice"
	FormatForcedChoice   ItemFormat = "forced_choice"
	FormatBinary         ItemFormat = "binary"
)

// StringSlice maps a JSONB column to a string slice.
type StringSlice []string

// Value implements driver.Valuer.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
	if len(bytes) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// FloatMap maps a JSONB column to scale-keyed loadings, used by forced-choice
// items where each option loads onto a different scale.
type FloatMap map[core.ScaleID]float64

// Value implements driver.Valuer.
func (m FloatMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *FloatMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FloatMap", value)
	}
	if len(bytes) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// Item is one administrable question from the bank.
//
// Cognitive items carry the three IRT parameters and a correct answer;
// behavioral Likert items may be reverse-keyed; forced-choice items carry
// per-option scale loadings instead of a single scale contribution. Retired
// items stay in the bank with Active false so historical responses keep
// their calibration, but selection skips them.
type Item struct {
	ID             core.ItemID  `json:"id" db:"id"`
	ScaleID        core.ScaleID `json:"scale_id" db:"scale_id"`
	Text           string       `json:"text" db:"text"`
	Format         ItemFormat   `json:"format" db:"format"`
	Options        StringSlice  `json:"options,omitempty" db:"options"`
	CorrectAnswer  *string      `json:"-" db:"correct_answer"`
	Discrimination *float64     `json:"-" db:"discrimination"`
	Difficulty     *float64     `json:"-" db:"difficulty"`
	Guessing       *float64     `json:"-" db:"guessing"`
	Loadings       FloatMap     `json:"-" db:"loadings"`
	Reversed       bool         `json:"-" db:"reversed"`
	IsDistortion   bool         `json:"-" db:"is_distortion"`
	Active         bool         `json:"active" db:"active"`
	Position       int          `json:"position" db:"position"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// IRTParams assembles the calibration triple, or an error if any parameter
// is missing or out of range.
func (i Item) IRTParams() (irt.Params, error) {
	if i.Discrimination == nil || i.Difficulty == nil || i.Guessing == nil {
		return irt.Params{}, fmt.Errorf("%w: item %s has no IRT calibration", core.ErrInvalidItem, i.ID)
	}
	p := irt.Params{A: *i.Discrimination, B: *i.Difficulty, C: *i.Guessing}
	if err := p.Validate(); err != nil {
		return irt.Params{}, fmt.Errorf("item %s: %w", i.ID, err)
	}
	return p, nil
}
