package irt

import (
	"fmt"
	"math"

	"psymatch/domain/core"
)

// Estimation constants. Iteration stops when the theta update falls under
// Tolerance, the curvature flattens below CurvatureFloor, or MaxIterations
// is reached.
const (
	MaxIterations  = 50
	Tolerance      = 1e-3
	CurvatureFloor = 1e-10

	// Default standard normal prior for the MAP variant
	DefaultPriorMean     = 0.0
	DefaultPriorVariance = 1.0
)

// Estimate is the result of an ability estimation run.
type Estimate struct {
	Theta          float64 `json:"theta"`
	SEM            float64 `json:"sem"`
	SumInformation float64 `json:"sum_information"`
	Iterations     int     `json:"iterations"`
}

// ConfidenceInterval returns the symmetric 95% interval around the estimate.
func (e Estimate) ConfidenceInterval() (lower, upper float64) {
	margin := 1.96 * e.SEM
	return e.Theta - margin, e.Theta + margin
}

// EstimateMLE estimates ability by maximum likelihood via Newton-Raphson.
// Degenerate patterns (all correct or all incorrect) have no finite maximum
// and return core.ErrEstimationDiverged; callers substitute SentinelTheta.
func EstimateMLE(responses []bool, items []Params) (Estimate, error) {
	return estimate(responses, items, false, DefaultPriorMean, DefaultPriorVariance)
}

// EstimateMAP estimates ability with a normal prior on theta. The prior keeps
// the estimate finite on short response vectors, so degenerate patterns are
// still rejected only to keep the two variants interchangeable for callers.
func EstimateMAP(responses []bool, items []Params, priorMean, priorVariance float64) (Estimate, error) {
	if priorVariance <= 0 {
		return Estimate{}, core.NewInputError("prior_variance", "must be positive")
	}
	return estimate(responses, items, true, priorMean, priorVariance)
}

func estimate(responses []bool, items []Params, usePrior bool, priorMean, priorVariance float64) (Estimate, error) {
	n := len(responses)
	if n == 0 {
		return Estimate{}, core.ErrEmptyResponses
	}
	if n != len(items) {
		return Estimate{}, core.NewInputError("items", fmt.Sprintf("got %d responses but %d item parameter sets", n, len(items)))
	}
	for _, p := range items {
		if err := p.Validate(); err != nil {
			return Estimate{}, err
		}
	}

	correct := 0
	for _, u := range responses {
		if u {
			correct++
		}
	}
	if correct == 0 || correct == n {
		return Estimate{}, fmt.Errorf("%w: %d/%d correct", core.ErrEstimationDiverged, correct, n)
	}

	theta := 0.0
	if usePrior {
		theta = priorMean
	}

	iterations := 0
	for iter := 0; iter < MaxIterations; iter++ {
		iterations = iter + 1

		gradient := 0.0
		curvature := 0.0
		for i, u := range responses {
			p := Probability(theta, items[i])
			residual := 0.0
			if u {
				residual = 1.0 - p
			} else {
				residual = -p
			}
			gradient += residual * items[i].A * (1.0 - items[i].C) / (1.0 - p)
			curvature -= Information(theta, items[i])
		}

		if usePrior {
			gradient -= (theta - priorMean) / priorVariance
			curvature -= 1.0 / priorVariance
		}

		if math.Abs(curvature) < CurvatureFloor {
			break
		}

		next := ClampTheta(theta - gradient/curvature)
		delta := math.Abs(next - theta)
		theta = next
		if delta < Tolerance {
			break
		}
	}

	sumInfo := 0.0
	for _, p := range items {
		sumInfo += Information(theta, p)
	}
	if usePrior {
		sumInfo += 1.0 / priorVariance
	}

	return Estimate{
		Theta:          theta,
		SEM:            SEM(sumInfo),
		SumInformation: sumInfo,
		Iterations:     iterations,
	}, nil
}
