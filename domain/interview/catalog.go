// Package interview turns match deviations into structured interview guides.
// Every scale where the candidate landed outside the model band yields a
// block of targeted questions probing the gap in the observed direction.
package interview

import (
	"psymatch/domain/core"
	"psymatch/domain/matching"
)

// Category groups questions by what they probe.
type Category string

const (
	CategoryBehavioralEvidence Category = "behavioral_evidence"
	CategorySelfAwareness      Category = "self_awareness"
	CategoryCompensation       Category = "compensation"
)

// Question is one catalog entry.
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

type catalogKey struct {
	scale     core.ScaleID
	direction matching.Direction
}

// The curated catalog. Keys pair a scale with the out-of-band direction;
// scales without an entry fall back to the generic templates in generator.go.
var catalog = map[catalogKey][]Question{
	{"beh-assertiveness", matching.DirectionHigh}: {
		{ID: "beh-assertiveness-high-1", Text: "Tell me about a time your directness created friction with a colleague. How did you repair it?", Category: CategoryBehavioralEvidence},
		{ID: "beh-assertiveness-high-2", Text: "How do you notice when you are dominating a discussion, and what do you do about it?", Category: CategorySelfAwareness},
		{ID: "beh-assertiveness-high-3", Text: "Describe a situation where you deliberately held back your opinion. What made you choose that?", Category: CategoryCompensation},
	},
	{"beh-assertiveness", matching.DirectionLow}: {
		{ID: "beh-assertiveness-low-1", Text: "Describe a time you had to push back on a decision you disagreed with. What did you actually say?", Category: CategoryBehavioralEvidence},
		{ID: "beh-assertiveness-low-2", Text: "When do you find it hardest to state your position directly?", Category: CategorySelfAwareness},
		{ID: "beh-assertiveness-low-3", Text: "What strategies help you make sure your view is heard in a strong-willed group?", Category: CategoryCompensation},
	},
	{"beh-sociability", matching.DirectionHigh}: {
		{ID: "beh-sociability-high-1", Text: "Tell me about a period of sustained solo work. How did you keep yourself effective?", Category: CategoryBehavioralEvidence},
		{ID: "beh-sociability-high-2", Text: "How does a quiet, heads-down environment affect your energy over a full week?", Category: CategorySelfAwareness},
	},
	{"beh-sociability", matching.DirectionLow}: {
		{ID: "beh-sociability-low-1", Text: "Describe a role that required constant client contact. What parts drained you?", Category: CategoryBehavioralEvidence},
		{ID: "beh-sociability-low-2", Text: "How do you recharge after a day packed with meetings?", Category: CategoryCompensation},
	},
	{"beh-stability", matching.DirectionLow}: {
		{ID: "beh-stability-low-1", Text: "Walk me through the most stressful deadline you have faced. What did the pressure change in how you worked?", Category: CategoryBehavioralEvidence},
		{ID: "beh-stability-low-2", Text: "What are your early warning signs that stress is affecting your judgment?", Category: CategorySelfAwareness},
		{ID: "beh-stability-low-3", Text: "What routines do you rely on to stay level during a rough stretch?", Category: CategoryCompensation},
	},
	{"beh-conscientiousness", matching.DirectionLow}: {
		{ID: "beh-conscientiousness-low-1", Text: "Tell me about a project where the details mattered more than the idea. How did you handle the grind?", Category: CategoryBehavioralEvidence},
		{ID: "beh-conscientiousness-low-2", Text: "What systems do you use to make sure nothing falls through the cracks?", Category: CategoryCompensation},
	},
	{"beh-conscientiousness", matching.DirectionHigh}: {
		{ID: "beh-conscientiousness-high-1", Text: "Describe a time perfectionism slowed a delivery. What would you do differently?", Category: CategorySelfAwareness},
		{ID: "beh-conscientiousness-high-2", Text: "How do you decide something is good enough to ship?", Category: CategoryBehavioralEvidence},
	},
	{"beh-openness", matching.DirectionLow}: {
		{ID: "beh-openness-low-1", Text: "Tell me about the last major change to how you work. How long did it take you to commit to it?", Category: CategoryBehavioralEvidence},
		{ID: "beh-openness-low-2", Text: "When a proven process is replaced with something unfamiliar, what is your first reaction?", Category: CategorySelfAwareness},
	},
	{"cog-verbal", matching.DirectionLow}: {
		{ID: "cog-verbal-low-1", Text: "This role involves dense written material. How do you approach a long technical document under time pressure?", Category: CategoryCompensation},
		{ID: "cog-verbal-low-2", Text: "Give me an example of explaining a complicated topic in writing. How did you check it landed?", Category: CategoryBehavioralEvidence},
	},
	{"cog-numeric", matching.DirectionLow}: {
		{ID: "cog-numeric-low-1", Text: "Describe a decision you made that rested on numbers. How did you validate your reading of the data?", Category: CategoryBehavioralEvidence},
		{ID: "cog-numeric-low-2", Text: "What tools or habits do you use when quantitative work is outside your comfort zone?", Category: CategoryCompensation},
	},
}

// CatalogQuestions returns the curated questions for a scale and direction,
// or nil when the pair is not covered.
func CatalogQuestions(scaleID core.ScaleID, direction matching.Direction) []Question {
	return catalog[catalogKey{scale: scaleID, direction: direction}]
}
