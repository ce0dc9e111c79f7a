// Package matching compares a candidate's standardized profile against a job
// Performance Model: per-scale distance-decay penalties, weighted domain
// aggregation, rank-order interest matching, and the per-scale deviation
// diagnostics that feed interview generation.
package matching

import (
	"fmt"

	"psymatch/domain/core"
	"psymatch/domain/norm"
)

// ScaleRange is one Performance Model entry: the ideal STEN band [Min,Max]
// for a scale and the weight it carries inside its domain.
type ScaleRange struct {
	ScaleID core.ScaleID `json:"scale_id"`
	Min     int          `json:"target_min"`
	Max     int          `json:"target_max"`
	Weight  float64      `json:"weight"`
}

// Validate checks the model-range invariants: bands within [1,10], ordered,
// strictly positive weight.
func (r ScaleRange) Validate() error {
	if r.Min < norm.StenMin || r.Min > norm.StenMax || r.Max < norm.StenMin || r.Max > norm.StenMax {
		return fmt.Errorf("%w: band [%d,%d] outside STEN range", core.ErrInvalidModel, r.Min, r.Max)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%w: band minimum %d above maximum %d", core.ErrInvalidModel, r.Min, r.Max)
	}
	if r.Weight <= 0 {
		return fmt.Errorf("%w: weight %f must be positive", core.ErrInvalidModel, r.Weight)
	}
	return nil
}

// Midpoint returns the center of the band, used for the model's interest
// rank ordering.
func (r ScaleRange) Midpoint() float64 {
	return float64(r.Min+r.Max) / 2.0
}

// Direction locates a candidate STEN relative to a band.
type Direction string

const (
	DirectionIn   Direction = "in"
	DirectionHigh Direction = "high"
	DirectionLow  Direction = "low"
)

// Deviation is the per-scale diagnostic record.
type Deviation struct {
	ScaleID   core.ScaleID `json:"scale_id"`
	Sten      int          `json:"sten"`
	TargetMin int          `json:"target_min"`
	TargetMax int          `json:"target_max"`
	Distance  int          `json:"distance"`
	Direction Direction    `json:"direction"`
}

// Input is a pre-partitioned match request: the model's ranges split by
// scale domain, the candidate's STEN per scale, and the candidate's ranked
// top interests.
type Input struct {
	CognitiveRanges  []ScaleRange
	BehavioralRanges []ScaleRange
	InterestRanges   []ScaleRange
	Stens            map[core.ScaleID]int
	TopInterests     []core.ScaleID
}

// JobMatch is the computed fit with its diagnostics.
type JobMatch struct {
	Overall       int            `json:"overall"`
	CognitiveFit  float64        `json:"cognitive_fit"`
	BehavioralFit float64        `json:"behavioral_fit"`
	InterestFit   int            `json:"interest_fit"`
	Deviations    []Deviation    `json:"deviations"`
	MissingScales []core.ScaleID `json:"missing_scales,omitempty"`
}
