package models

import (
	"time"

	"psymatch/domain/core"
)

// ScaleDomain partitions scales by the instrument section they belong to.
type ScaleDomain string

const (
	DomainCognitive  ScaleDomain = "cognitive"
	DomainBehavioral ScaleDomain = "behavioral"
	DomainInterests  ScaleDomain = "interests"
	DomainValidity   ScaleDomain = "validity"
	DomainComposite  ScaleDomain = "composite"
)

// Scale is one measured dimension of the instrument.
type Scale struct {
	ID           core.ScaleID `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Domain       ScaleDomain  `json:"domain" db:"domain"`
	Description  string       `json:"description" db:"description"`
	DisplayOrder int          `json:"display_order" db:"display_order"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// IsScorable reports whether the scale produces a candidate-facing STEN.
// Validity scales score too, but feed the distortion layer instead of the
// profile.
func (s Scale) IsScorable() bool {
	return s.Domain != DomainValidity
}
