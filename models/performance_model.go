package models

import (
	"fmt"
	"time"

	"psymatch/domain/core"
	"psymatch/domain/matching"
)

// ModelScaleRange is one row of a Performance Model: the target STEN band and
// weight for a scale, partitioned by domain.
type ModelScaleRange struct {
	ID        core.ID      `json:"id" db:"id"`
	ModelID   core.ModelID `json:"model_id" db:"model_id"`
	ScaleID   core.ScaleID `json:"scale_id" db:"scale_id"`
	Domain    ScaleDomain  `json:"domain" db:"domain"`
	TargetMin int          `json:"target_min" db:"target_min"`
	TargetMax int          `json:"target_max" db:"target_max"`
	Weight    float64      `json:"weight" db:"weight"`
}

// ToScaleRange converts the persisted row to the matching input form.
func (r ModelScaleRange) ToScaleRange() matching.ScaleRange {
	return matching.ScaleRange{
		ScaleID: r.ScaleID,
		Min:     r.TargetMin,
		Max:     r.TargetMax,
		Weight:  r.Weight,
	}
}

// PerformanceModel is a job profile: the ideal STEN bands per scale that a
// candidate profile is matched against.
type PerformanceModel struct {
	ID          core.ModelID      `json:"id" db:"id"`
	Name        string            `json:"name" db:"name"`
	Description string            `json:"description" db:"description"`
	IsActive    bool              `json:"is_active" db:"is_active"`
	Ranges      []ModelScaleRange `json:"ranges"` // loaded from model_scale_ranges
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// Validate checks every range against the band invariants.
func (m *PerformanceModel) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: model needs a name", core.ErrInvalidModel)
	}
	seen := make(map[core.ScaleID]bool, len(m.Ranges))
	for _, r := range m.Ranges {
		if seen[r.ScaleID] {
			return fmt.Errorf("%w: duplicate range for scale %s", core.ErrInvalidModel, r.ScaleID)
		}
		seen[r.ScaleID] = true
		if err := r.ToScaleRange().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RangesByDomain splits the model's ranges into the three matched domains.
// Validity and composite ranges are not matched and are dropped.
func (m *PerformanceModel) RangesByDomain() (cognitive, behavioral, interests []matching.ScaleRange) {
	for _, r := range m.Ranges {
		switch r.Domain {
		case DomainCognitive:
			cognitive = append(cognitive, r.ToScaleRange())
		case DomainBehavioral:
			behavioral = append(behavioral, r.ToScaleRange())
		case DomainInterests:
			interests = append(interests, r.ToScaleRange())
		}
	}
	return cognitive, behavioral, interests
}
