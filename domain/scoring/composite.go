package scoring

import (
	"psymatch/domain/core"
	"psymatch/domain/norm"
)

// Fallback learning-index bounds, used only when the administered item
// counts of the cognitive sub-scales are unknown. They come from the legacy
// paper battery, which scored cognitive sub-scales on 1-5 item grids.
const (
	learningIndexFallbackMin = 80.0
	learningIndexFallbackMax = 400.0
)

// LearningIndex computes the composite over the cognitive sub-scale results.
// Cognitive raws are correct counts, one point per administered item, so the
// sum is normalized against [0, itemTotal]: an all-incorrect record maps to
// the floor and a perfect record to the ceiling. When no item counts are
// known the historical [80,400] bounds apply.
func LearningIndex(compositeID core.ScaleID, subScores []Result) Result {
	rawSum := 0.0
	itemTotal := 0
	for _, s := range subScores {
		rawSum += s.Raw
		itemTotal += s.ItemCount
	}

	rawMin, rawMax := learningIndexFallbackMin, learningIndexFallbackMax
	if itemTotal > 0 {
		rawMin, rawMax = 0, float64(itemTotal)
	}

	sten := norm.RawToSten(rawSum, rawMin, rawMax)
	return Result{
		ScaleID:    compositeID,
		Raw:        rawSum,
		Sten:       sten,
		Percentile: norm.StenToPercentile(sten),
		ItemCount:  itemTotal,
	}
}
