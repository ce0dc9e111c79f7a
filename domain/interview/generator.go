package interview

import (
	"fmt"
	"sort"

	"psymatch/domain/core"
	"psymatch/domain/matching"
)

// Block is the interview guidance for one out-of-band scale.
type Block struct {
	ScaleID   core.ScaleID       `json:"scale_id"`
	ScaleName string             `json:"scale_name"`
	Direction matching.Direction `json:"direction"`
	Sten      int                `json:"sten"`
	TargetMin int                `json:"target_min"`
	TargetMax int                `json:"target_max"`
	Questions []Question         `json:"questions"`
}

// Guide is the full generated interview: one block per deviation, ordered by
// distance from the band, largest gap first.
type Guide struct {
	Blocks []Block `json:"blocks"`
}

// genericQuestions covers scales the catalog does not: two templates
// interpolating the scale name and the observed direction.
func genericQuestions(scaleID core.ScaleID, name string, direction matching.Direction) []Question {
	level := "lower"
	if direction == matching.DirectionHigh {
		level = "higher"
	}
	return []Question{
		{
			ID:       fmt.Sprintf("%s-%s-generic-1", scaleID, direction),
			Text:     fmt.Sprintf("Your %s result is %s than this role typically calls for. Tell me about a situation where that showed up in your work.", name, level),
			Category: CategoryBehavioralEvidence,
		},
		{
			ID:       fmt.Sprintf("%s-%s-generic-2", scaleID, direction),
			Text:     fmt.Sprintf("How would you adapt your approach to %s to fit what this role demands?", name),
			Category: CategoryCompensation,
		},
	}
}

// Generate builds the interview guide from match deviations. In-band scales
// produce nothing; scaleNames supplies the display name used by the generic
// templates, falling back to the raw scale ID.
func Generate(deviations []matching.Deviation, scaleNames map[core.ScaleID]string) Guide {
	blocks := make([]Block, 0, len(deviations))
	for _, d := range deviations {
		if d.Direction == matching.DirectionIn {
			continue
		}

		name := scaleNames[d.ScaleID]
		if name == "" {
			name = string(d.ScaleID)
		}

		questions := CatalogQuestions(d.ScaleID, d.Direction)
		if len(questions) == 0 {
			questions = genericQuestions(d.ScaleID, name, d.Direction)
		}

		blocks = append(blocks, Block{
			ScaleID:   d.ScaleID,
			ScaleName: name,
			Direction: d.Direction,
			Sten:      d.Sten,
			TargetMin: d.TargetMin,
			TargetMax: d.TargetMax,
			Questions: questions,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		di := distanceOf(blocks[i])
		dj := distanceOf(blocks[j])
		if di != dj {
			return di > dj
		}
		return blocks[i].ScaleID < blocks[j].ScaleID
	})

	return Guide{Blocks: blocks}
}

func distanceOf(b Block) int {
	if b.Sten > b.TargetMax {
		return b.Sten - b.TargetMax
	}
	return b.TargetMin - b.Sten
}
