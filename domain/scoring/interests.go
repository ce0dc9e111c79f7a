package scoring

import (
	"sort"

	"psymatch/domain/core"
	"psymatch/domain/norm"
)

// TopInterestCount is the number of leading interest scales reported for
// rank-order matching.
const TopInterestCount = 3

// ScoreInterests converts ipsative forced-choice win counts into normative
// results. Scales are ranked descending by wins (ties broken by ascending
// scale ID), the rank becomes a mid-rank percentile, and the percentile maps
// to STEN through the inverse normal. Every scale in scaleIDs gets a result,
// including those that never won a pair.
func ScoreInterests(scaleIDs []core.ScaleID, wins map[core.ScaleID]int) []Result {
	n := len(scaleIDs)
	if n == 0 {
		return nil
	}

	ranked := make([]core.ScaleID, n)
	copy(ranked, scaleIDs)
	sort.Slice(ranked, func(i, j int) bool {
		wi, wj := wins[ranked[i]], wins[ranked[j]]
		if wi != wj {
			return wi > wj
		}
		return ranked[i] < ranked[j]
	})

	results := make([]Result, n)
	for rank, scale := range ranked {
		percentile := norm.RankToPercentile(rank+1, n)
		sten := norm.PercentileToSten(percentile)
		results[rank] = Result{
			ScaleID:    scale,
			Raw:        float64(wins[scale]),
			Sten:       sten,
			Percentile: norm.StenToPercentile(sten),
			ItemCount:  wins[scale],
		}
	}
	return results
}

// TopInterests returns the leading interest scales by STEN, breaking ties by
// higher raw win count and then by ascending scale ID.
func TopInterests(results []Result) []core.ScaleID {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Sten != sorted[j].Sten {
			return sorted[i].Sten > sorted[j].Sten
		}
		if sorted[i].Raw != sorted[j].Raw {
			return sorted[i].Raw > sorted[j].Raw
		}
		return sorted[i].ScaleID < sorted[j].ScaleID
	})

	k := TopInterestCount
	if len(sorted) < k {
		k = len(sorted)
	}
	top := make([]core.ScaleID, k)
	for i := 0; i < k; i++ {
		top[i] = sorted[i].ScaleID
	}
	return top
}
