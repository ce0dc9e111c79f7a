package scoring

import (
	"math"
	"sort"

	"psymatch/domain/core"
	"psymatch/domain/norm"
)

// DefaultLikertWeight is the production weighting of Likert evidence against
// forced-choice evidence when both exist for a scale. Exposed as a parameter
// because the 0.7/0.3 split is an empirical convention, not a derived one.
const DefaultLikertWeight = 0.7

// ScoreLikert scores one behavioral trait scale from its Likert responses.
// Reverse-keyed items are inverted before summing.
func ScoreLikert(scaleID core.ScaleID, responses []LikertResponse) (Result, error) {
	if len(responses) == 0 {
		return Result{}, core.ErrEmptyResponses
	}

	keyed := make([]int, len(responses))
	sum := 0
	for i, r := range responses {
		keyed[i] = r.keyed()
		sum += keyed[i]
	}

	sten := norm.LikertSumToSten(keyed)
	return Result{
		ScaleID:    scaleID,
		Raw:        float64(sum),
		Sten:       sten,
		Percentile: norm.StenToPercentile(sten),
		ItemCount:  len(responses),
	}, nil
}

// IntegrateForcedChoice converts multidimensional forced-choice observations
// into per-trait results. Each observation maps every affected trait onto the
// 1-5 endorsement scale (favored 5, disfavored 1, untouched 3) and the
// per-trait vectors are converted exactly like Likert responses.
func IntegrateForcedChoice(observations []ForcedChoiceObservation) map[core.ScaleID]Result {
	vectors := make(map[core.ScaleID][]int)
	raws := make(map[core.ScaleID]float64)

	for _, obs := range observations {
		for scale, loading := range obs.Loadings {
			value := 3
			switch {
			case loading > 0:
				value = 5
			case loading < 0:
				value = 1
			}
			vectors[scale] = append(vectors[scale], value)
			raws[scale] += loading
		}
	}

	results := make(map[core.ScaleID]Result, len(vectors))
	for scale, vector := range vectors {
		sten := norm.LikertSumToSten(vector)
		results[scale] = Result{
			ScaleID:    scale,
			Raw:        raws[scale],
			Sten:       sten,
			Percentile: norm.StenToPercentile(sten),
			ItemCount:  len(vector),
		}
	}
	return results
}

// CombineBehavioral merges a Likert result with a forced-choice result for
// the same scale. likertWeight is the Likert share (forced-choice gets the
// remainder); the combined STEN is rounded after weighting, then clamped.
func CombineBehavioral(likert, forcedChoice Result, likertWeight float64) Result {
	if likertWeight < 0 {
		likertWeight = 0
	}
	if likertWeight > 1 {
		likertWeight = 1
	}
	fcWeight := 1.0 - likertWeight

	sten := norm.ClampSten(int(math.Round(likertWeight*float64(likert.Sten) + fcWeight*float64(forcedChoice.Sten))))
	return Result{
		ScaleID:    likert.ScaleID,
		Raw:        likertWeight*likert.Raw + fcWeight*forcedChoice.Raw,
		Sten:       sten,
		Percentile: norm.StenToPercentile(sten),
		ItemCount:  likert.ItemCount + forcedChoice.ItemCount,
	}
}

// MergeBehavioral combines per-scale Likert and forced-choice maps: scales
// present in both are weighted together, the rest pass through unchanged.
// Output order is deterministic (ascending scale ID).
func MergeBehavioral(likert map[core.ScaleID]Result, forcedChoice map[core.ScaleID]Result, likertWeight float64) []Result {
	seen := make(map[core.ScaleID]bool)
	merged := make([]Result, 0, len(likert)+len(forcedChoice))

	for scale, lr := range likert {
		seen[scale] = true
		if fr, ok := forcedChoice[scale]; ok {
			merged = append(merged, CombineBehavioral(lr, fr, likertWeight))
			continue
		}
		merged = append(merged, lr)
	}
	for scale, fr := range forcedChoice {
		if !seen[scale] {
			merged = append(merged, fr)
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].ScaleID < merged[j].ScaleID })
	return merged
}
