package testkit

import (
	"context"
	"fmt"
	"time"

	"psymatch/domain/core"
	"psymatch/models"
)

// BankSpec tunes the synthetic item bank.
type BankSpec struct {
	CognitiveScales   []core.ScaleID
	CognitiveItems    int
	BehavioralScales  []core.ScaleID
	LikertPerScale    int
	DistortionItems   int
	InterestScales    []core.ScaleID
	ForcedChoicePairs int
}

// DefaultBankSpec mirrors the production instrument shape at test size: two
// cognitive scales with a calibrated pool, three behavioral trait scales with
// a distortion scale, and four interest scales paired round-robin.
func DefaultBankSpec() BankSpec {
	return BankSpec{
		CognitiveScales:   []core.ScaleID{"cog-verbal", "cog-numeric"},
		CognitiveItems:    25,
		BehavioralScales:  []core.ScaleID{"beh-assertiveness", "beh-sociability", "beh-stability"},
		LikertPerScale:    6,
		DistortionItems:   5,
		InterestScales:    []core.ScaleID{"int-realistic", "int-social", "int-artistic", "int-conventional"},
		ForcedChoicePairs: 6,
	}
}

// DistortionScaleID is the validity scale of the synthetic bank.
const DistortionScaleID core.ScaleID = "scale-distortion"

// LoadBank builds a synthetic item bank into the store and returns it.
func LoadBank(store *MemoryStore, spec BankSpec) error {
	now := time.Now().UTC()
	var scales []*models.Scale
	var items []*models.Item
	position := 0
	order := 0

	nextScale := func(id core.ScaleID, domain models.ScaleDomain, name string) {
		order++
		scales = append(scales, &models.Scale{
			ID:           id,
			Name:         name,
			Domain:       domain,
			DisplayOrder: order,
			CreatedAt:    now,
		})
	}

	for _, scaleID := range spec.CognitiveScales {
		nextScale(scaleID, models.DomainCognitive, string(scaleID))
		for i := 0; i < spec.CognitiveItems; i++ {
			position++
			// Spread difficulties across the ability range with varied
			// discrimination so the selector has real choices
			a := 0.8 + 0.05*float64(i%10)
			b := -2.4 + 4.8*float64(i)/float64(spec.CognitiveItems-1)
			c := 0.2
			answer := "A"
			items = append(items, &models.Item{
				ID:             core.ItemID(fmt.Sprintf("%s-item-%02d", scaleID, i+1)),
				ScaleID:        scaleID,
				Text:           fmt.Sprintf("Cognitive question %d for %s", i+1, scaleID),
				Format:         models.FormatMultipleChoice,
				Options:        models.StringSlice{"A", "B", "C", "D"},
				CorrectAnswer:  &answer,
				Discrimination: &a,
				Difficulty:     &b,
				Guessing:       &c,
				Active:         true,
				Position:       position,
				CreatedAt:      now,
			})
		}
	}

	for _, scaleID := range spec.BehavioralScales {
		nextScale(scaleID, models.DomainBehavioral, string(scaleID))
		for i := 0; i < spec.LikertPerScale; i++ {
			position++
			items = append(items, &models.Item{
				ID:        core.ItemID(fmt.Sprintf("%s-item-%02d", scaleID, i+1)),
				ScaleID:   scaleID,
				Text:      fmt.Sprintf("Statement %d for %s", i+1, scaleID),
				Format:    models.FormatLikert,
				Reversed:  i%3 == 2, // every third statement reverse-keyed
				Active:    true,
				Position:  position,
				CreatedAt: now,
			})
		}
	}

	if spec.DistortionItems > 0 {
		nextScale(DistortionScaleID, models.DomainValidity, "Social Desirability")
		for i := 0; i < spec.DistortionItems; i++ {
			position++
			items = append(items, &models.Item{
				ID:           core.ItemID(fmt.Sprintf("dist-item-%02d", i+1)),
				ScaleID:      DistortionScaleID,
				Text:         fmt.Sprintf("I have never made a mistake at work (%d)", i+1),
				Format:       models.FormatLikert,
				IsDistortion: true,
				Active:       true,
				Position:     position,
				CreatedAt:    now,
			})
		}
	}

	for _, scaleID := range spec.InterestScales {
		nextScale(scaleID, models.DomainInterests, string(scaleID))
	}
	for i := 0; i < spec.ForcedChoicePairs; i++ {
		if len(spec.InterestScales) < 2 {
			break
		}
		position++
		first := spec.InterestScales[i%len(spec.InterestScales)]
		second := spec.InterestScales[(i+1)%len(spec.InterestScales)]
		items = append(items, &models.Item{
			ID:      core.ItemID(fmt.Sprintf("int-pair-%02d", i+1)),
			ScaleID: first,
			Text:    fmt.Sprintf("Would you rather work on %s or %s?", first, second),
			Format:  models.FormatForcedChoice,
			Options: models.StringSlice{string(first), string(second)},
			// Loading value is the option slot the scale occupies
			Loadings:  models.FloatMap{first: 0, second: 1},
			Active:    true,
			Position:  position,
			CreatedAt: now,
		})
	}

	return store.ReplaceItemBank(context.Background(), scales, items)
}
