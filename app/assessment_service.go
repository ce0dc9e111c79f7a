package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"psymatch/domain/core"
	"psymatch/domain/irt"
	"psymatch/domain/scoring"
	"psymatch/internal"
	"psymatch/models"
	"psymatch/ports"
)

// AssessmentService drives the assessment lifecycle: creation, the adaptive
// and sequential item flow, response capture, and final scoring.
type AssessmentService struct {
	assessments  ports.AssessmentRepository
	items        ports.ItemRepository
	scores       ports.ScoreRepository
	candidates   ports.CandidateRepository
	adaptive     irt.Config
	likertWeight float64
	ttl          time.Duration
	logger       *internal.Logger
}

// NewAssessmentService wires an assessment service.
func NewAssessmentService(
	assessments ports.AssessmentRepository,
	items ports.ItemRepository,
	scores ports.ScoreRepository,
	candidates ports.CandidateRepository,
	adaptive irt.Config,
	likertWeight float64,
	ttl time.Duration,
	logger *internal.Logger,
) *AssessmentService {
	return &AssessmentService{
		assessments:  assessments,
		items:        items,
		scores:       scores,
		candidates:   candidates,
		adaptive:     adaptive,
		likertWeight: likertWeight,
		ttl:          ttl,
		logger:       logger,
	}
}

// CreateAssessment creates an assessment of the given type for the candidate
// with the given email, creating the candidate on first contact. An empty
// type defaults to the full instrument.
func (s *AssessmentService) CreateAssessment(ctx context.Context, email, fullName string, typ models.AssessmentType) (*models.Assessment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, core.NewInputError("email", "cannot be empty")
	}
	if typ == "" {
		typ = models.AssessmentFull
	}
	if err := typ.Validate(); err != nil {
		return nil, err
	}

	candidate, err := s.candidates.GetCandidateByEmail(ctx, email)
	if core.IsNotFoundError(err) {
		candidate = models.NewCandidate(email, strings.TrimSpace(fullName))
		if err := s.candidates.CreateCandidate(ctx, candidate); err != nil {
			return nil, fmt.Errorf("creating candidate: %w", err)
		}
		s.logger.Info("created candidate %s", candidate.ID)
	} else if err != nil {
		return nil, err
	}

	assessment := models.NewAssessment(candidate.ID, typ, s.ttl)
	if err := s.assessments.CreateAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("creating assessment: %w", err)
	}
	s.logger.Info("created assessment %s for candidate %s", assessment.ID, candidate.ID)
	return assessment, nil
}

// GetAssessment loads an assessment, marking it expired if its TTL passed.
func (s *AssessmentService) GetAssessment(ctx context.Context, id core.AssessmentID) (*models.Assessment, error) {
	assessment, err := s.assessments.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment.Status != models.AssessmentExpired && assessment.IsExpired(time.Now()) {
		assessment.Expire(time.Now())
		if err := s.assessments.UpdateAssessment(ctx, assessment); err != nil {
			return nil, err
		}
	}
	return assessment, nil
}

// Start moves an assessment into progress. Idempotent.
func (s *AssessmentService) Start(ctx context.Context, id core.AssessmentID) (*models.Assessment, error) {
	var started *models.Assessment
	err := s.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context, assessment *models.Assessment) error {
		if assessment.IsExpired(time.Now()) {
			assessment.Expire(time.Now())
			return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, id)
		}
		if err := assessment.Start(time.Now()); err != nil {
			return err
		}
		started = assessment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return started, nil
}

// NextItemResult is the outcome of a next-item request: an item to
// administer, a section boundary, or the signal that the instrument is
// exhausted. A boundary result carries no item; the following call serves
// the first item of NextSection.
type NextItemResult struct {
	Item            *models.Item           `json:"item,omitempty"`
	Section         models.Section         `json:"section"`
	SectionComplete bool                   `json:"section_complete,omitempty"`
	NextSection     models.Section         `json:"next_section,omitempty"`
	Answered        map[models.Section]int `json:"answered,omitempty"`
	Done            bool                   `json:"done"`
}

// NextItem determines the next item to administer. The cognitive section is
// adaptive (maximum-information selection per scale); behavioral and interest
// sections run in fixed order. When the section under the cursor has nothing
// left, the call reports it complete once, persists the advanced cursor, and
// serves the next section's first item on the following call.
func (s *AssessmentService) NextItem(ctx context.Context, id core.AssessmentID) (*NextItemResult, error) {
	var result *NextItemResult
	err := s.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context, assessment *models.Assessment) error {
		now := time.Now()
		if assessment.IsExpired(now) {
			assessment.Expire(now)
			return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, id)
		}
		switch assessment.Status {
		case models.AssessmentExpired:
			return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, id)
		case models.AssessmentCompleted:
			result = &NextItemResult{Section: models.SectionDone, Done: true}
			return nil
		case models.AssessmentCreated:
			return core.NewStateError("next item", string(assessment.Status))
		}

		responses, err := s.assessments.ListResponses(ctx, id)
		if err != nil {
			return err
		}
		answered := make(map[core.ItemID]bool, len(responses))
		for _, r := range responses {
			answered[r.ItemID] = true
		}
		progress, err := s.sectionProgress(ctx, responses)
		if err != nil {
			return err
		}

		// Sections are walked from the assessment's cursor; a section with
		// nothing left to administer surfaces as a boundary before the walk
		// moves on.
		for _, section := range remainingSections(assessment) {
			var item *models.Item
			var err error
			switch section {
			case models.SectionCognitive:
				item, err = s.nextCognitiveItem(ctx, id, answered)
			case models.SectionBehavioral:
				item, err = s.nextSequentialItem(ctx, answered, models.DomainBehavioral, models.DomainValidity)
			case models.SectionInterests:
				item, err = s.nextSequentialItem(ctx, answered, models.DomainInterests)
			}
			if err != nil {
				return err
			}
			if item == nil {
				continue
			}
			if section != assessment.CurrentSection {
				completed := assessment.CurrentSection
				for assessment.CurrentSection != section {
					assessment.AdvanceSection(now)
				}
				result = &NextItemResult{
					Section:         completed,
					SectionComplete: true,
					NextSection:     section,
					Answered:        progress,
				}
				return nil
			}
			result = &NextItemResult{Item: item, Section: section, Answered: progress}
			return nil
		}

		result = &NextItemResult{Section: models.SectionDone, Answered: progress, Done: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// sectionProgress counts answered items per section. Distortion items are
// administered inside the behavioral section and count toward it.
func (s *AssessmentService) sectionProgress(ctx context.Context, responses []*models.Response) (map[models.Section]int, error) {
	if len(responses) == 0 {
		return nil, nil
	}
	scales, err := s.items.ListScales(ctx)
	if err != nil {
		return nil, err
	}
	domains := make(map[core.ScaleID]models.ScaleDomain, len(scales))
	for _, scale := range scales {
		domains[scale.ID] = scale.Domain
	}

	progress := make(map[models.Section]int)
	for _, r := range responses {
		switch domains[r.ScaleID] {
		case models.DomainCognitive:
			progress[models.SectionCognitive]++
		case models.DomainBehavioral, models.DomainValidity:
			progress[models.SectionBehavioral]++
		case models.DomainInterests:
			progress[models.SectionInterests]++
		}
	}
	return progress, nil
}

// remainingSections lists the sections of the assessment's type from the
// cursor onward.
func remainingSections(a *models.Assessment) []models.Section {
	sections := a.Type.Sections()
	for i, s := range sections {
		if s == a.CurrentSection {
			return sections[i:]
		}
	}
	return nil
}

// nextCognitiveItem walks the cognitive scales in display order and selects
// the maximum-information item of the first scale that has not terminated.
func (s *AssessmentService) nextCognitiveItem(ctx context.Context, id core.AssessmentID, answered map[core.ItemID]bool) (*models.Item, error) {
	scales, err := s.scalesInDomain(ctx, models.DomainCognitive)
	if err != nil {
		return nil, err
	}

	for _, scale := range scales {
		items, err := s.items.ListItemsByScale(ctx, scale.ID)
		if err != nil {
			return nil, err
		}

		theta, sumInfo, administered, err := s.cognitiveState(ctx, id, scale.ID, items)
		if err != nil {
			return nil, err
		}
		if irt.Terminated(administered, sumInfo, s.adaptive) {
			continue
		}

		pool := make([]irt.PoolItem, 0, len(items))
		byID := make(map[core.ItemID]*models.Item, len(items))
		for _, item := range items {
			if !item.Active || answered[item.ID] {
				continue
			}
			params, err := item.IRTParams()
			if err != nil {
				return nil, err
			}
			pool = append(pool, irt.PoolItem{ID: item.ID, Params: params})
			byID[item.ID] = item
		}

		next, ok := irt.SelectNext(theta, pool)
		if !ok {
			continue // pool exhausted before termination
		}
		return byID[next.ID], nil
	}
	return nil, nil
}

// cognitiveState rebuilds the ability estimate for one scale from its
// recorded responses.
func (s *AssessmentService) cognitiveState(ctx context.Context, id core.AssessmentID, scaleID core.ScaleID, items []*models.Item) (theta, sumInfo float64, administered int, err error) {
	responses, err := s.assessments.ListResponsesByScale(ctx, id, scaleID)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(responses) == 0 {
		return 0, 0, 0, nil
	}

	paramsByItem := make(map[core.ItemID]irt.Params, len(items))
	for _, item := range items {
		p, err := item.IRTParams()
		if err != nil {
			return 0, 0, 0, err
		}
		paramsByItem[item.ID] = p
	}

	correct := make([]bool, 0, len(responses))
	params := make([]irt.Params, 0, len(responses))
	for _, r := range responses {
		if r.IsCorrect == nil {
			continue
		}
		correct = append(correct, *r.IsCorrect)
		params = append(params, paramsByItem[r.ItemID])
	}
	if len(correct) == 0 {
		return 0, 0, 0, nil
	}

	theta = estimateTheta(correct, params)
	for _, p := range params {
		sumInfo += irt.Information(theta, p)
	}
	return theta, sumInfo, len(correct), nil
}

// estimateTheta produces the working ability estimate used for item
// selection, substituting the sentinel for degenerate patterns.
func estimateTheta(correct []bool, params []irt.Params) float64 {
	var est irt.Estimate
	var err error
	if len(correct) < 5 {
		est, err = irt.EstimateMAP(correct, params, irt.DefaultPriorMean, irt.DefaultPriorVariance)
	} else {
		est, err = irt.EstimateMLE(correct, params)
	}
	if err != nil {
		allCorrect := true
		for _, u := range correct {
			if !u {
				allCorrect = false
				break
			}
		}
		return irt.SentinelTheta(allCorrect)
	}
	return est.Theta
}

// nextSequentialItem returns the first unanswered active item across the
// given domains, merged in position order. Merging the validity domain into
// the behavioral walk interleaves the distortion items with the trait items.
func (s *AssessmentService) nextSequentialItem(ctx context.Context, answered map[core.ItemID]bool, domains ...models.ScaleDomain) (*models.Item, error) {
	var stream []*models.Item
	for _, domain := range domains {
		items, err := s.items.ListItemsByDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		stream = append(stream, items...)
	}

	sort.SliceStable(stream, func(i, j int) bool {
		if stream[i].Position != stream[j].Position {
			return stream[i].Position < stream[j].Position
		}
		return stream[i].ID < stream[j].ID
	})

	for _, item := range stream {
		if item.Active && !answered[item.ID] {
			return item, nil
		}
	}
	return nil, nil
}

// SubmitResponse records one answer under the assessment lock. Cognitive
// answers are graded and the post-response ability snapshot is stamped on the
// row before its single insert. responseTimeMs is the client-reported answer
// latency; zero means unreported.
func (s *AssessmentService) SubmitResponse(ctx context.Context, id core.AssessmentID, itemID core.ItemID, value models.ResponseValue, responseTimeMs int) (*models.Response, error) {
	if err := value.Validate(); err != nil {
		return nil, err
	}
	if responseTimeMs < 0 {
		return nil, core.NewInputError("response_time_ms", "cannot be negative")
	}

	var saved *models.Response
	err := s.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context, assessment *models.Assessment) error {
		now := time.Now()
		if assessment.IsExpired(now) {
			assessment.Expire(now)
			return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, id)
		}
		if assessment.Status != models.AssessmentInProgress {
			return core.NewStateError("submit response", string(assessment.Status))
		}

		already, err := s.assessments.HasResponse(ctx, id, itemID)
		if err != nil {
			return err
		}
		if already {
			return fmt.Errorf("%w: item %s", core.ErrAlreadyAnswered, itemID)
		}

		item, err := s.items.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if err := checkValueFormat(item, value); err != nil {
			return err
		}

		existing, err := s.assessments.ListResponses(ctx, id)
		if err != nil {
			return err
		}

		response := &models.Response{
			ID:             core.NewResponseID(),
			AssessmentID:   id,
			ItemID:         item.ID,
			ScaleID:        item.ScaleID,
			Value:          value,
			Position:       len(existing) + 1,
			ResponseTimeMs: responseTimeMs,
			CreatedAt:      now.UTC(),
		}

		if item.CorrectAnswer != nil {
			correct := isCorrect(item, value)
			response.IsCorrect = &correct
			// Graded items carry the updated ability estimate; the snapshot
			// is computed before the row's single insert.
			if err := s.setAbilitySnapshot(ctx, id, item, response); err != nil {
				return err
			}
		}

		if err := s.assessments.SaveResponse(ctx, response); err != nil {
			return err
		}

		assessment.UpdatedAt = now.UTC()
		saved = response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// checkValueFormat rejects a response whose variant does not match the item.
func checkValueFormat(item *models.Item, value models.ResponseValue) error {
	expected := map[models.ItemFormat]models.ResponseKind{
		models.FormatLikert:         models.ResponseLikert,
		models.FormatMultipleChoice: models.ResponseMultipleChoice,
		models.FormatForcedChoice:   models.ResponseForcedChoice,
		models.FormatBinary:         models.ResponseBinary,
	}[item.Format]
	if value.Kind != expected {
		return core.NewInputError("value", fmt.Sprintf("item %s expects a %s response, got %s", item.ID, expected, value.Kind))
	}
	return nil
}

// isCorrect grades a keyed response. Text answers compare trimmed and
// case-insensitive.
func isCorrect(item *models.Item, value models.ResponseValue) bool {
	key := strings.TrimSpace(*item.CorrectAnswer)
	switch value.Kind {
	case models.ResponseMultipleChoice:
		return strings.EqualFold(strings.TrimSpace(value.Selected), key)
	case models.ResponseBinary:
		keyBool, err := strconv.ParseBool(strings.ToLower(key))
		if err != nil {
			return false
		}
		return value.Answer == keyBool
	}
	return false
}

// setAbilitySnapshot re-estimates the scale ability over the persisted
// responses plus the pending one and stamps theta and SEM on the pending row.
// The row itself is not saved here.
func (s *AssessmentService) setAbilitySnapshot(ctx context.Context, id core.AssessmentID, item *models.Item, response *models.Response) error {
	itemParams, err := item.IRTParams()
	if err != nil {
		return err
	}

	items, err := s.items.ListItemsByScale(ctx, item.ScaleID)
	if err != nil {
		return err
	}
	paramsByItem := make(map[core.ItemID]irt.Params, len(items))
	for _, it := range items {
		p, err := it.IRTParams()
		if err != nil {
			return err
		}
		paramsByItem[it.ID] = p
	}

	persisted, err := s.assessments.ListResponsesByScale(ctx, id, item.ScaleID)
	if err != nil {
		return err
	}
	correct := make([]bool, 0, len(persisted)+1)
	params := make([]irt.Params, 0, len(persisted)+1)
	for _, r := range persisted {
		if r.IsCorrect == nil {
			continue
		}
		correct = append(correct, *r.IsCorrect)
		params = append(params, paramsByItem[r.ItemID])
	}
	correct = append(correct, *response.IsCorrect)
	params = append(params, itemParams)

	theta := estimateTheta(correct, params)
	sumInfo := 0.0
	for _, p := range params {
		sumInfo += irt.Information(theta, p)
	}
	sem := irt.SEM(sumInfo)
	response.ThetaAfter = &theta
	response.SEMAfter = &sem
	return nil
}

func (s *AssessmentService) scalesInDomain(ctx context.Context, domain models.ScaleDomain) ([]*models.Scale, error) {
	scales, err := s.items.ListScales(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []*models.Scale
	for _, scale := range scales {
		if scale.Domain == domain {
			filtered = append(filtered, scale)
		}
	}
	return filtered, nil
}

// Complete finalizes an assessment: every scale is scored and the score set
// is persisted atomically. Completing an already completed assessment returns
// the stored scores unchanged.
func (s *AssessmentService) Complete(ctx context.Context, id core.AssessmentID) ([]*models.ScaleScore, error) {
	var computed []*models.ScaleScore
	err := s.assessments.WithAssessmentLock(ctx, id, func(ctx context.Context, assessment *models.Assessment) error {
		if assessment.Status == models.AssessmentCompleted {
			return nil
		}
		now := time.Now()
		if assessment.IsExpired(now) {
			assessment.Expire(now)
			return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, id)
		}
		if assessment.Status != models.AssessmentInProgress {
			return core.NewStateError("complete", string(assessment.Status))
		}

		scores, err := s.scoreAssessment(ctx, id)
		if err != nil {
			return err
		}
		if err := s.scores.SaveScores(ctx, id, scores); err != nil {
			return fmt.Errorf("saving scores: %w", err)
		}
		computed = scores
		return assessment.Complete(now)
	})
	if err != nil {
		return nil, err
	}
	if computed == nil {
		// Idempotent path: return the persisted set
		return s.scores.ListScores(ctx, id)
	}
	s.logger.Info("completed assessment %s with %d scale scores", id, len(computed))
	return computed, nil
}

// scoreAssessment runs the full scoring pipeline. The three sections score
// concurrently; the learning index composite follows the cognitive results.
func (s *AssessmentService) scoreAssessment(ctx context.Context, id core.AssessmentID) ([]*models.ScaleScore, error) {
	scales, err := s.items.ListScales(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.assessments.ListResponses(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, core.ErrEmptyResponses
	}

	byScale := make(map[core.ScaleID][]*models.Response)
	for _, r := range responses {
		byScale[r.ScaleID] = append(byScale[r.ScaleID], r)
	}

	var cognitive, behavioral, interests []*models.ScaleScore
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cognitive, err = s.scoreCognitiveSection(gctx, id, scales, byScale)
		return err
	})
	g.Go(func() error {
		var err error
		behavioral, err = s.scoreBehavioralSection(gctx, id, scales, responses, byScale)
		return err
	})
	g.Go(func() error {
		var err error
		interests, err = s.scoreInterestSection(gctx, id, scales, byScale)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := append(append(cognitive, behavioral...), interests...)
	sort.Slice(all, func(i, j int) bool { return all[i].ScaleID < all[j].ScaleID })
	return all, nil
}

func (s *AssessmentService) scoreCognitiveSection(ctx context.Context, id core.AssessmentID, scales []*models.Scale, byScale map[core.ScaleID][]*models.Response) ([]*models.ScaleScore, error) {
	var out []*models.ScaleScore
	var subResults []scoring.Result

	for _, scale := range scales {
		if scale.Domain != models.DomainCognitive {
			continue
		}
		responses := byScale[scale.ID]
		if len(responses) == 0 {
			continue
		}

		items, err := s.items.ListItemsByScale(ctx, scale.ID)
		if err != nil {
			return nil, err
		}
		paramsByItem := make(map[core.ItemID]irt.Params, len(items))
		for _, item := range items {
			p, err := item.IRTParams()
			if err != nil {
				return nil, err
			}
			paramsByItem[item.ID] = p
		}

		var correct []bool
		var params []irt.Params
		for _, r := range responses {
			if r.IsCorrect == nil {
				continue
			}
			correct = append(correct, *r.IsCorrect)
			params = append(params, paramsByItem[r.ItemID])
		}
		if len(correct) == 0 {
			continue
		}

		result, err := scoring.ScoreCognitive(scale.ID, correct, params)
		if err != nil {
			return nil, fmt.Errorf("scoring scale %s: %w", scale.ID, err)
		}
		subResults = append(subResults, result)
		out = append(out, models.ScoreFromResult(id, result))
	}

	// The composite rides on the cognitive sub-scale results
	for _, scale := range scales {
		if scale.Domain == models.DomainComposite && len(subResults) > 0 {
			composite := scoring.LearningIndex(scale.ID, subResults)
			out = append(out, models.ScoreFromResult(id, composite))
		}
	}
	return out, nil
}

func (s *AssessmentService) scoreBehavioralSection(ctx context.Context, id core.AssessmentID, scales []*models.Scale, ordered []*models.Response, byScale map[core.ScaleID][]*models.Response) ([]*models.ScaleScore, error) {
	itemsByID, err := s.itemIndex(ctx, scales)
	if err != nil {
		return nil, err
	}

	domainOf := make(map[core.ScaleID]models.ScaleDomain, len(scales))
	for _, scale := range scales {
		domainOf[scale.ID] = scale.Domain
	}

	// Likert evidence per behavioral scale
	likert := make(map[core.ScaleID]scoring.Result)
	for _, scale := range scales {
		if scale.Domain != models.DomainBehavioral {
			continue
		}
		var responses []scoring.LikertResponse
		for _, r := range byScale[scale.ID] {
			if r.Value.Kind != models.ResponseLikert {
				continue
			}
			item := itemsByID[r.ItemID]
			responses = append(responses, scoring.LikertResponse{Value: r.Value.Likert, Reversed: item != nil && item.Reversed})
		}
		if len(responses) == 0 {
			continue
		}
		result, err := scoring.ScoreLikert(scale.ID, responses)
		if err != nil {
			return nil, fmt.Errorf("scoring scale %s: %w", scale.ID, err)
		}
		likert[scale.ID] = result
	}

	// Forced-choice evidence across behavioral traits
	var observations []scoring.ForcedChoiceObservation
	for _, r := range ordered {
		if r.Value.Kind != models.ResponseForcedChoice || domainOf[r.ScaleID] != models.DomainBehavioral {
			continue
		}
		item := itemsByID[r.ItemID]
		if item == nil || len(item.Loadings) == 0 {
			continue
		}
		loadings := make(map[core.ScaleID]float64, len(item.Loadings))
		for scale, loading := range item.Loadings {
			if r.Value.ChosenIndex == 0 {
				loadings[scale] = loading
			} else {
				loadings[scale] = -loading
			}
		}
		observations = append(observations, scoring.ForcedChoiceObservation{Loadings: loadings})
	}
	forcedChoice := scoring.IntegrateForcedChoice(observations)

	merged := scoring.MergeBehavioral(likert, forcedChoice, s.likertWeight)

	out := make([]*models.ScaleScore, 0, len(merged)+1)
	for _, result := range merged {
		out = append(out, models.ScoreFromResult(id, result))
	}

	// Distortion layer: the validity scale plus pattern checks over the full
	// Likert stream in administration order
	for _, scale := range scales {
		if scale.Domain != models.DomainValidity {
			continue
		}
		var distortion []int
		var stream []int
		for _, r := range ordered {
			if r.Value.Kind != models.ResponseLikert {
				continue
			}
			domain := domainOf[r.ScaleID]
			if domain != models.DomainBehavioral && domain != models.DomainValidity {
				continue
			}
			stream = append(stream, r.Value.Likert)
			if r.ScaleID == scale.ID {
				distortion = append(distortion, r.Value.Likert)
			}
		}
		if len(distortion) == 0 {
			continue
		}
		result, err := scoring.ScoreDistortion(scale.ID, distortion, stream)
		if err != nil {
			return nil, fmt.Errorf("scoring scale %s: %w", scale.ID, err)
		}
		out = append(out, models.ScoreFromDistortion(id, result))
	}
	return out, nil
}

func (s *AssessmentService) scoreInterestSection(ctx context.Context, id core.AssessmentID, scales []*models.Scale, byScale map[core.ScaleID][]*models.Response) ([]*models.ScaleScore, error) {
	itemsByID, err := s.itemIndex(ctx, scales)
	if err != nil {
		return nil, err
	}

	var scaleIDs []core.ScaleID
	wins := make(map[core.ScaleID]int)
	answeredAny := false
	for _, scale := range scales {
		if scale.Domain != models.DomainInterests {
			continue
		}
		scaleIDs = append(scaleIDs, scale.ID)
		for _, r := range byScale[scale.ID] {
			if r.Value.Kind != models.ResponseForcedChoice {
				continue
			}
			item := itemsByID[r.ItemID]
			if item == nil {
				continue
			}
			// Loadings map each competing scale to its option slot; the
			// chosen slot's scale takes the win.
			for winner, slot := range item.Loadings {
				if int(slot) == r.Value.ChosenIndex {
					wins[winner]++
					answeredAny = true
				}
			}
		}
	}
	if !answeredAny {
		return nil, nil
	}

	results := scoring.ScoreInterests(scaleIDs, wins)
	out := make([]*models.ScaleScore, 0, len(results))
	for _, result := range results {
		out = append(out, models.ScoreFromResult(id, result))
	}
	return out, nil
}

// itemIndex loads every item keyed by ID.
func (s *AssessmentService) itemIndex(ctx context.Context, scales []*models.Scale) (map[core.ItemID]*models.Item, error) {
	index := make(map[core.ItemID]*models.Item)
	for _, scale := range scales {
		items, err := s.items.ListItemsByScale(ctx, scale.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			index[item.ID] = item
		}
	}
	return index, nil
}

// Scores returns the persisted score set of a completed assessment.
func (s *AssessmentService) Scores(ctx context.Context, id core.AssessmentID) ([]*models.ScaleScore, error) {
	assessment, err := s.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment.Status != models.AssessmentCompleted {
		return nil, fmt.Errorf("%w: assessment %s", core.ErrAssessmentNotCompleted, id)
	}
	return s.scores.ListScores(ctx, id)
}
