package app

import (
	"context"
	"fmt"

	"psymatch/domain/core"
	"psymatch/domain/interview"
	"psymatch/domain/matching"
	"psymatch/domain/scoring"
	"psymatch/internal"
	"psymatch/models"
	"psymatch/ports"
)

// MatchService computes job-fit reports and interview guides for completed
// assessments.
type MatchService struct {
	assessments ports.AssessmentRepository
	items       ports.ItemRepository
	scores      ports.ScoreRepository
	modelsRepo  ports.ModelRepository
	logger      *internal.Logger
}

// NewMatchService wires a match service.
func NewMatchService(
	assessments ports.AssessmentRepository,
	items ports.ItemRepository,
	scores ports.ScoreRepository,
	modelsRepo ports.ModelRepository,
	logger *internal.Logger,
) *MatchService {
	return &MatchService{
		assessments: assessments,
		items:       items,
		scores:      scores,
		modelsRepo:  modelsRepo,
		logger:      logger,
	}
}

// MatchReport is a match result with the validity verdict attached, so a
// consumer sees a distorted profile's fit and its reliability together.
type MatchReport struct {
	AssessmentID core.AssessmentID      `json:"assessment_id"`
	ModelID      core.ModelID           `json:"model_id"`
	ModelName    string                 `json:"model_name"`
	Match        matching.JobMatch      `json:"match"`
	Validity     *models.ValidityReport `json:"validity,omitempty"`
}

// ComputeMatch matches a completed assessment's profile against a
// Performance Model.
func (s *MatchService) ComputeMatch(ctx context.Context, assessmentID core.AssessmentID, modelID core.ModelID) (*MatchReport, error) {
	scores, validity, err := s.completedScores(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	model, err := s.modelsRepo.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	input, err := s.matchInput(ctx, model, scores)
	if err != nil {
		return nil, err
	}

	report := &MatchReport{
		AssessmentID: assessmentID,
		ModelID:      model.ID,
		ModelName:    model.Name,
		Match:        matching.Compute(*input),
		Validity:     validity,
	}
	s.logger.Debug("match %s vs %s: overall %d", assessmentID, modelID, report.Match.Overall)
	return report, nil
}

// InterviewQuestions generates the interview guide for the deviations of a
// match.
func (s *MatchService) InterviewQuestions(ctx context.Context, assessmentID core.AssessmentID, modelID core.ModelID) (*interview.Guide, error) {
	report, err := s.ComputeMatch(ctx, assessmentID, modelID)
	if err != nil {
		return nil, err
	}

	scales, err := s.items.ListScales(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[core.ScaleID]string, len(scales))
	for _, scale := range scales {
		names[scale.ID] = scale.Name
	}

	guide := interview.Generate(report.Match.Deviations, names)
	return &guide, nil
}

// completedScores loads the score set of a completed assessment plus the
// distortion verdict if one was recorded.
func (s *MatchService) completedScores(ctx context.Context, assessmentID core.AssessmentID) ([]*models.ScaleScore, *models.ValidityReport, error) {
	assessment, err := s.assessments.GetAssessment(ctx, assessmentID)
	if err != nil {
		return nil, nil, err
	}
	if assessment.Status != models.AssessmentCompleted {
		return nil, nil, fmt.Errorf("%w: assessment %s", core.ErrAssessmentNotCompleted, assessmentID)
	}

	scores, err := s.scores.ListScores(ctx, assessmentID)
	if err != nil {
		return nil, nil, err
	}

	var validity *models.ValidityReport
	for _, score := range scores {
		if score.Validity != nil {
			validity = score.Validity
			break
		}
	}
	return scores, validity, nil
}

// matchInput assembles the pre-partitioned matching input from the model and
// the candidate's scores.
func (s *MatchService) matchInput(ctx context.Context, model *models.PerformanceModel, scores []*models.ScaleScore) (*matching.Input, error) {
	scales, err := s.items.ListScales(ctx)
	if err != nil {
		return nil, err
	}
	domainOf := make(map[core.ScaleID]models.ScaleDomain, len(scales))
	for _, scale := range scales {
		domainOf[scale.ID] = scale.Domain
	}

	stens := make(map[core.ScaleID]int, len(scores))
	var interestResults []scoring.Result
	for _, score := range scores {
		if domainOf[score.ScaleID] == models.DomainValidity {
			continue
		}
		stens[score.ScaleID] = score.Sten
		if domainOf[score.ScaleID] == models.DomainInterests {
			interestResults = append(interestResults, scoring.Result{
				ScaleID: score.ScaleID,
				Raw:     score.Raw,
				Sten:    score.Sten,
			})
		}
	}

	cognitive, behavioral, interests := model.RangesByDomain()
	return &matching.Input{
		CognitiveRanges:  cognitive,
		BehavioralRanges: behavioral,
		InterestRanges:   interests,
		Stens:            stens,
		TopInterests:     scoring.TopInterests(interestResults),
	}, nil
}
