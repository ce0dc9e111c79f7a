// Package irt implements the three-parameter-logistic item response model:
// response probability, Fisher information, Newton-Raphson ability estimation
// (maximum likelihood and Bayesian MAP), and the adaptive next-item /
// termination logic driving computer-adaptive cognitive sections.
package irt

import (
	"fmt"
	"math"

	"psymatch/domain/core"
)

// Ability estimates are clamped to this range; the same bounds act as the
// sentinel values substituted for degenerate (all-correct / all-incorrect)
// response patterns.
const (
	ThetaFloor = -4.0
	ThetaCeil  = 4.0
)

// Params holds the 3PL item parameter triple: discrimination (a),
// difficulty (b) and pseudo-guessing (c).
type Params struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Validate checks the calibration constraints: a>0, b in [-4,4], c in [0,0.35].
func (p Params) Validate() error {
	if p.A <= 0 {
		return fmt.Errorf("%w: discrimination a=%f must be positive", core.ErrInvalidItem, p.A)
	}
	if p.B < ThetaFloor || p.B > ThetaCeil {
		return fmt.Errorf("%w: difficulty b=%f outside [%g,%g]", core.ErrInvalidItem, p.B, ThetaFloor, ThetaCeil)
	}
	if p.C < 0 || p.C > 0.35 {
		return fmt.Errorf("%w: guessing c=%f outside [0,0.35]", core.ErrInvalidItem, p.C)
	}
	return nil
}

// Probability returns the 3PL probability of a correct response at ability
// theta: c + (1-c) / (1 + exp(-a(theta-b))).
func Probability(theta float64, p Params) float64 {
	return p.C + (1.0-p.C)/(1.0+math.Exp(-p.A*(theta-p.B)))
}

// Information returns the Fisher information the item contributes at theta.
// With l = e^{a(theta-b)}:
//
//	I(theta) = a^2 (1-c) l^2 / ((1+l)^2 (c+l))
//
// which is the 3PL form a^2 (Q/P) ((P-c)/(1-c))^2. Information is
// non-negative and, for c=0, peaks at theta=b.
func Information(theta float64, p Params) float64 {
	l := math.Exp(p.A * (theta - p.B))
	if l == 0 || math.IsInf(l, 1) {
		return 0
	}
	return p.A * p.A * (1.0 - p.C) * l * l / ((1.0 + l) * (1.0 + l) * (p.C + l))
}

// ClampTheta restricts an ability estimate to the supported range.
func ClampTheta(theta float64) float64 {
	if theta < ThetaFloor {
		return ThetaFloor
	}
	if theta > ThetaCeil {
		return ThetaCeil
	}
	return theta
}

// SentinelTheta is the recovery value for degenerate response patterns:
// the ceiling for a perfect record, the floor for an all-incorrect one.
func SentinelTheta(allCorrect bool) float64 {
	if allCorrect {
		return ThetaCeil
	}
	return ThetaFloor
}

// SEM returns the standard error of measurement for accumulated test
// information: 1/sqrt(sum I). Zero information yields +Inf.
func SEM(sumInformation float64) float64 {
	if sumInformation <= 0 {
		return math.Inf(1)
	}
	return 1.0 / math.Sqrt(sumInformation)
}
