package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"psymatch/domain/core"
	"psymatch/domain/irt"
	"psymatch/domain/scoring"
	"psymatch/internal"
	"psymatch/internal/testkit"
	"psymatch/models"
)

func newTestService(t *testing.T) (*AssessmentService, *testkit.MemoryStore) {
	t.Helper()
	store := testkit.NewMemoryStore()
	if err := testkit.LoadBank(store, testkit.DefaultBankSpec()); err != nil {
		t.Fatalf("loading synthetic bank: %v", err)
	}
	logger := internal.NewLogger(internal.LogLevelError)
	service := NewAssessmentService(store, store, store, store, irt.DefaultConfig(), scoring.DefaultLikertWeight, 72*time.Hour, logger)
	return service, store
}

// runAssessment walks the whole instrument and returns the sections reported
// complete along the way. Cognitive answers alternate correct/incorrect;
// behavioral Likert answers hold a moderate endorsement level for a block of
// statements before shifting, the way a consistent responder does; distortion
// items get low endorsement; forced-choice pairs always take the first option.
func runAssessment(t *testing.T, service *AssessmentService, store *testkit.MemoryStore, id core.AssessmentID) []models.Section {
	t.Helper()
	ctx := context.Background()

	var boundaries []models.Section
	cognitiveCount := 0
	likertCount := 0
	for step := 0; step < 220; step++ {
		next, err := service.NextItem(ctx, id)
		if err != nil {
			t.Fatalf("next item (step %d): %v", step, err)
		}
		if next.Done {
			return boundaries
		}
		if next.SectionComplete {
			if next.Item != nil {
				t.Fatalf("section boundary at step %d carried item %s", step, next.Item.ID)
			}
			boundaries = append(boundaries, next.Section)
			continue
		}

		item := next.Item
		var value models.ResponseValue
		switch item.Format {
		case models.FormatMultipleChoice:
			selected := "A"
			if cognitiveCount%2 == 1 {
				selected = "B"
			}
			cognitiveCount++
			value = models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: selected}
		case models.FormatLikert:
			if item.IsDistortion {
				value = models.ResponseValue{Kind: models.ResponseLikert, Likert: 1}
			} else {
				value = models.ResponseValue{Kind: models.ResponseLikert, Likert: 2 + (likertCount/6)%3}
				likertCount++
			}
		case models.FormatForcedChoice:
			value = models.ResponseValue{Kind: models.ResponseForcedChoice, ChosenIndex: 0}
		default:
			t.Fatalf("unexpected item format %s", item.Format)
		}

		if _, err := service.SubmitResponse(ctx, id, item.ID, value, 1200); err != nil {
			t.Fatalf("submitting %s: %v", item.ID, err)
		}
	}
	t.Fatal("assessment did not finish within the step budget")
	return nil
}

func TestAssessmentFullFlow(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	assessment, err := service.CreateAssessment(ctx, "jordan@example.com", "Jordan Reyes", models.AssessmentFull)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	runAssessment(t, service, store, assessment.ID)

	// Per-section progress is reported alongside the exhaustion signal
	final, err := service.NextItem(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("next after exhaustion: %v", err)
	}
	if !final.Done {
		t.Fatal("instrument should be exhausted")
	}
	for _, section := range []models.Section{models.SectionCognitive, models.SectionBehavioral, models.SectionInterests} {
		if final.Answered[section] == 0 {
			t.Errorf("no answered count reported for %s section", section)
		}
	}

	scores, err := service.Complete(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(scores) == 0 {
		t.Fatal("complete returned no scores")
	}

	byScale := make(map[core.ScaleID]*models.ScaleScore, len(scores))
	for _, score := range scores {
		byScale[score.ScaleID] = score
	}

	// Every cognitive scale scored with an ability estimate
	for _, scaleID := range []core.ScaleID{"cog-verbal", "cog-numeric"} {
		score, ok := byScale[scaleID]
		if !ok {
			t.Fatalf("no score for %s", scaleID)
		}
		if score.Theta == nil || score.ThetaSEM == nil {
			t.Errorf("%s: missing ability estimate", scaleID)
		}
		if score.Sten < 1 || score.Sten > 10 {
			t.Errorf("%s: sten %d outside range", scaleID, score.Sten)
		}
	}

	// Behavioral scales scored from Likert evidence
	for _, scaleID := range []core.ScaleID{"beh-assertiveness", "beh-sociability", "beh-stability"} {
		if _, ok := byScale[scaleID]; !ok {
			t.Errorf("no score for %s", scaleID)
		}
	}

	// Distortion score present with a clean verdict: low endorsement, varied stream
	distortion, ok := byScale[testkit.DistortionScaleID]
	if !ok {
		t.Fatal("no distortion score")
	}
	if distortion.Validity == nil {
		t.Fatal("distortion score has no validity report")
	}
	if distortion.Validity.Category != scoring.ValidityValid {
		t.Errorf("validity category = %s, want valid", distortion.Validity.Category)
	}
	if distortion.Validity.Recommendation != scoring.RecommendUse {
		t.Errorf("recommendation = %s, want use", distortion.Validity.Recommendation)
	}

	// Every interest scale gets a normative result
	for _, scaleID := range []core.ScaleID{"int-realistic", "int-social", "int-artistic", "int-conventional"} {
		if _, ok := byScale[scaleID]; !ok {
			t.Errorf("no score for %s", scaleID)
		}
	}

	reloaded, err := service.GetAssessment(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.AssessmentCompleted {
		t.Errorf("status = %s, want completed", reloaded.Status)
	}
}

func TestAdaptiveSectionTermination(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "sam@example.com", "Sam Okafor", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	runAssessment(t, service, store, assessment.ID)

	cfg := irt.DefaultConfig()
	for _, scaleID := range []core.ScaleID{"cog-verbal", "cog-numeric"} {
		responses, err := store.ListResponsesByScale(ctx, assessment.ID, scaleID)
		if err != nil {
			t.Fatalf("listing responses: %v", err)
		}
		n := len(responses)
		if n < cfg.MinItems || n > cfg.MaxItems {
			t.Errorf("%s: administered %d items, want within [%d,%d]", scaleID, n, cfg.MinItems, cfg.MaxItems)
		}
		// Early stop only happens at target precision
		if n < cfg.MaxItems {
			last := responses[n-1]
			if last.SEMAfter == nil || *last.SEMAfter > cfg.TargetSEM {
				t.Errorf("%s: stopped at %d items with SEM %v above target", scaleID, n, last.SEMAfter)
			}
		}
		// Each response carries its ability snapshot
		for _, r := range responses {
			if r.ThetaAfter == nil || r.SEMAfter == nil {
				t.Errorf("%s: response %s missing ability snapshot", scaleID, r.ID)
			}
		}
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "ada@example.com", "Ada Lindqvist", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	runAssessment(t, service, store, assessment.ID)

	first, err := service.Complete(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	second, err := service.Complete(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("score counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Sten != second[i].Sten {
			t.Errorf("score %d changed on re-complete: %s/%d vs %s/%d",
				i, first[i].ID, first[i].Sten, second[i].ID, second[i].Sten)
		}
	}
}

func TestSubmitResponseRejectsDuplicates(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "kai@example.com", "Kai Tanaka", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	next, err := service.NextItem(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("next item: %v", err)
	}
	value := models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: "A"}
	if _, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, 0); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, 0); !errors.Is(err, core.ErrAlreadyAnswered) {
		t.Errorf("duplicate submit: got %v, want ErrAlreadyAnswered", err)
	}
}

func TestSubmitResponseChecksFormat(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "mika@example.com", "Mika Haraldsen", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	next, _ := service.NextItem(ctx, assessment.ID)
	// First item is cognitive multiple choice; a Likert answer must be rejected
	wrong := models.ResponseValue{Kind: models.ResponseLikert, Likert: 3}
	if _, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, wrong, 0); !core.IsInputError(err) {
		t.Errorf("mismatched format: got %v, want input error", err)
	}
}

func TestGradingIsCaseAndSpaceInsensitive(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "lee@example.com", "Lee Moreau", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	next, _ := service.NextItem(ctx, assessment.ID)
	value := models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: "  a "}
	response, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if response.IsCorrect == nil || !*response.IsCorrect {
		t.Error("case/space variant of the keyed answer should grade correct")
	}

	stored, _ := store.ListResponses(ctx, assessment.ID)
	if len(stored) != 1 {
		t.Fatalf("stored %d responses, want 1", len(stored))
	}
}

func TestExpiredAssessmentRejected(t *testing.T) {
	store := testkit.NewMemoryStore()
	if err := testkit.LoadBank(store, testkit.DefaultBankSpec()); err != nil {
		t.Fatalf("loading synthetic bank: %v", err)
	}
	logger := internal.NewLogger(internal.LogLevelError)
	service := NewAssessmentService(store, store, store, store, irt.DefaultConfig(), scoring.DefaultLikertWeight, -time.Hour, logger)
	ctx := context.Background()

	assessment, err := service.CreateAssessment(ctx, "expired@example.com", "Noor Haddad", models.AssessmentFull)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.Start(ctx, assessment.ID); !errors.Is(err, core.ErrAssessmentExpired) {
		t.Errorf("start on expired: got %v, want ErrAssessmentExpired", err)
	}
}

func TestSectionBoundariesAdvanceCursor(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "sections@example.com", "Femi Ansah", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	boundaries := runAssessment(t, service, store, assessment.ID)
	want := []models.Section{models.SectionCognitive, models.SectionBehavioral}
	if len(boundaries) != len(want) {
		t.Fatalf("boundaries = %v, want %v", boundaries, want)
	}
	for i := range want {
		if boundaries[i] != want[i] {
			t.Fatalf("boundaries = %v, want %v", boundaries, want)
		}
	}

	// The advanced cursor is persisted, not just reported
	reloaded, err := service.GetAssessment(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CurrentSection != models.SectionInterests {
		t.Errorf("cursor = %s, want interests after both boundaries", reloaded.CurrentSection)
	}
}

func TestCognitiveOnlyAssessment(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	if _, err := service.CreateAssessment(ctx, "bad@example.com", "Pat Doyle", "astrological"); !core.IsInputError(err) {
		t.Errorf("unknown type: got %v, want input error", err)
	}

	assessment, err := service.CreateAssessment(ctx, "cog@example.com", "Blair Song", models.AssessmentCognitiveOnly)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if assessment.Type != models.AssessmentCognitiveOnly {
		t.Errorf("type = %s, want cognitive_only", assessment.Type)
	}
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	toggle := 0
	for step := 0; step < 120; step++ {
		next, err := service.NextItem(ctx, assessment.ID)
		if err != nil {
			t.Fatalf("next item: %v", err)
		}
		if next.Done {
			break
		}
		if next.SectionComplete {
			t.Fatalf("single-section assessment reported %s complete mid-run", next.Section)
		}
		if next.Item.Format != models.FormatMultipleChoice {
			t.Fatalf("cognitive-only assessment served %s item %s", next.Item.Format, next.Item.ID)
		}
		selected := "A"
		if toggle%2 == 1 {
			selected = "B"
		}
		toggle++
		value := models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: selected}
		if _, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, 0); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	scores, err := service.Complete(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(scores) == 0 {
		t.Fatal("complete returned no scores")
	}
	for _, score := range scores {
		if !strings.HasPrefix(string(score.ScaleID), "cog-") {
			t.Errorf("cognitive-only assessment scored %s", score.ScaleID)
		}
	}
}

// countingStore wraps the memory store to count response inserts.
type countingStore struct {
	*testkit.MemoryStore
	saves int
}

func (c *countingStore) SaveResponse(ctx context.Context, response *models.Response) error {
	c.saves++
	return c.MemoryStore.SaveResponse(ctx, response)
}

func TestSubmitResponseInsertsOnce(t *testing.T) {
	store := testkit.NewMemoryStore()
	if err := testkit.LoadBank(store, testkit.DefaultBankSpec()); err != nil {
		t.Fatalf("loading synthetic bank: %v", err)
	}
	counting := &countingStore{MemoryStore: store}
	logger := internal.NewLogger(internal.LogLevelError)
	service := NewAssessmentService(counting, store, store, store, irt.DefaultConfig(), scoring.DefaultLikertWeight, 72*time.Hour, logger)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "once@example.com", "Tam Nguyen", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	next, err := service.NextItem(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("next item: %v", err)
	}

	value := models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: "A"}
	if _, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, -5); !core.IsInputError(err) {
		t.Errorf("negative response time: got %v, want input error", err)
	}

	response, err := service.SubmitResponse(ctx, assessment.ID, next.Item.ID, value, 850)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	// A graded answer produces exactly one row, ability snapshot included
	if counting.saves != 1 {
		t.Errorf("response row inserted %d times, want exactly 1", counting.saves)
	}
	if response.ThetaAfter == nil || response.SEMAfter == nil {
		t.Error("graded response missing its ability snapshot")
	}

	stored, _ := store.ListResponses(ctx, assessment.ID)
	if len(stored) != 1 {
		t.Fatalf("stored %d responses, want 1", len(stored))
	}
	if stored[0].ThetaAfter == nil || stored[0].SEMAfter == nil {
		t.Error("persisted row missing the ability snapshot")
	}
	if stored[0].ResponseTimeMs != 850 {
		t.Errorf("response time = %d ms, want 850", stored[0].ResponseTimeMs)
	}
}

func TestInactiveItemsNotServed(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	// Retire one calibrated item and one trait statement
	retired := map[core.ItemID]bool{"cog-verbal-item-05": true, "beh-sociability-item-03": true}
	scales, err := store.ListScales(ctx)
	if err != nil {
		t.Fatalf("listing scales: %v", err)
	}
	var all []*models.Item
	for _, scale := range scales {
		items, err := store.ListItemsByScale(ctx, scale.ID)
		if err != nil {
			t.Fatalf("listing items: %v", err)
		}
		for _, item := range items {
			if retired[item.ID] {
				item.Active = false
			}
			all = append(all, item)
		}
	}
	if err := store.ReplaceItemBank(ctx, scales, all); err != nil {
		t.Fatalf("replacing bank: %v", err)
	}

	assessment, _ := service.CreateAssessment(ctx, "retired@example.com", "Quinn Adeyemi", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	runAssessment(t, service, store, assessment.ID)

	responses, err := store.ListResponses(ctx, assessment.ID)
	if err != nil {
		t.Fatalf("listing responses: %v", err)
	}
	for _, r := range responses {
		if retired[r.ItemID] {
			t.Errorf("retired item %s was administered", r.ItemID)
		}
	}
}

func TestCompleteWithoutResponses(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	assessment, _ := service.CreateAssessment(ctx, "empty@example.com", "Iris Novak", models.AssessmentFull)
	if _, err := service.Start(ctx, assessment.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.Complete(ctx, assessment.ID); !errors.Is(err, core.ErrEmptyResponses) {
		t.Errorf("complete with no responses: got %v, want ErrEmptyResponses", err)
	}
}
