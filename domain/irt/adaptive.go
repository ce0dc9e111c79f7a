package irt

import (
	"sort"

	"psymatch/domain/core"
)

// Config tunes the adaptive (CAT) section: administer at least MinItems,
// never more than MaxItems, and stop early once the standard error of
// measurement reaches TargetSEM.
type Config struct {
	MinItems  int     `json:"min_items"`
	MaxItems  int     `json:"max_items"`
	TargetSEM float64 `json:"target_sem"`
}

// DefaultConfig returns the production CAT tuning.
func DefaultConfig() Config {
	return Config{
		MinItems:  5,
		MaxItems:  20,
		TargetSEM: 0.35,
	}
}

// PoolItem is a not-yet-administered item offered to the selector.
type PoolItem struct {
	ID     core.ItemID
	Params Params
}

// SelectNext picks the pool item with maximum Fisher information at the
// current ability estimate. Ties break on ascending item ID so selection is
// deterministic regardless of pool order. Returns false when the pool is empty.
func SelectNext(theta float64, pool []PoolItem) (PoolItem, bool) {
	if len(pool) == 0 {
		return PoolItem{}, false
	}

	// Stable ordering on item id, then a single max scan
	sorted := make([]PoolItem, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	best := sorted[0]
	bestInfo := Information(theta, best.Params)
	for _, candidate := range sorted[1:] {
		if info := Information(theta, candidate.Params); info > bestInfo {
			best = candidate
			bestInfo = info
		}
	}
	return best, true
}

// Terminated reports whether the adaptive section should stop: the item
// budget is exhausted, or the minimum has been administered and measurement
// precision has reached the target.
func Terminated(administered int, sumInformation float64, cfg Config) bool {
	if administered >= cfg.MaxItems {
		return true
	}
	return administered >= cfg.MinItems && SEM(sumInformation) <= cfg.TargetSEM
}
