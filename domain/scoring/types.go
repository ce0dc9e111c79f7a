// Package scoring turns response streams into standardized scale scores:
// cognitive scales through the IRT ability estimate, behavioral scales
// through Likert sums and forced-choice trait integration, interest scales
// through ipsative-to-normative conversion, plus the learning-index
// composite and the distortion (validity) detector.
package scoring

import (
	"psymatch/domain/core"
)

// Result is the standardized outcome for one scale.
type Result struct {
	ScaleID    core.ScaleID `json:"scale_id"`
	Raw        float64      `json:"raw"`
	Sten       int          `json:"sten"`
	Percentile int          `json:"percentile"`
	Theta      *float64     `json:"theta,omitempty"`
	ThetaSEM   *float64     `json:"theta_sem,omitempty"`
	ItemCount  int          `json:"item_count"`
}

// LikertResponse is a single 1-5 endorsement. Reverse-keyed items are
// inverted (6-x) before summing.
type LikertResponse struct {
	Value    int
	Reversed bool
}

// ForcedChoiceObservation is the trait impact of one forced-choice answer:
// the signed loading each affected scale receives from the option chosen.
type ForcedChoiceObservation struct {
	Loadings map[core.ScaleID]float64
}

// keyed returns the response value with reverse keying applied.
func (r LikertResponse) keyed() int {
	if r.Reversed {
		return 6 - r.Value
	}
	return r.Value
}
