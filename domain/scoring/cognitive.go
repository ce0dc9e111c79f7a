package scoring

import (
	"psymatch/domain/core"
	"psymatch/domain/irt"
	"psymatch/domain/norm"
)

// Below this many administered items the Bayesian MAP estimator is used;
// the standard normal prior keeps short-vector estimates stable.
const mapItemThreshold = 5

// ScoreCognitive scores one cognitive scale from its correctness vector and
// the matching item parameters. Degenerate patterns (all correct or all
// incorrect) are recovered with the sentinel ability of +4 or -4.
func ScoreCognitive(scaleID core.ScaleID, correct []bool, items []irt.Params) (Result, error) {
	if len(correct) == 0 {
		return Result{}, core.ErrEmptyResponses
	}

	rawCorrect := 0
	for _, u := range correct {
		if u {
			rawCorrect++
		}
	}

	var est irt.Estimate
	var err error
	if len(correct) < mapItemThreshold {
		est, err = irt.EstimateMAP(correct, items, irt.DefaultPriorMean, irt.DefaultPriorVariance)
	} else {
		est, err = irt.EstimateMLE(correct, items)
	}
	if err != nil {
		if !core.IsEstimationDiverged(err) {
			return Result{}, err
		}
		// Recoverable: substitute the sentinel ability for the degenerate pattern
		theta := irt.SentinelTheta(rawCorrect == len(correct))
		sumInfo := 0.0
		for _, p := range items {
			sumInfo += irt.Information(theta, p)
		}
		est = irt.Estimate{Theta: theta, SEM: irt.SEM(sumInfo), SumInformation: sumInfo}
	}

	theta := est.Theta
	sem := est.SEM
	sten := norm.ThetaToSten(theta)
	return Result{
		ScaleID:    scaleID,
		Raw:        float64(rawCorrect),
		Sten:       sten,
		Percentile: norm.StenToPercentile(sten),
		Theta:      &theta,
		ThetaSEM:   &sem,
		ItemCount:  len(correct),
	}, nil
}
