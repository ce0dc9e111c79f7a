// Package testkit provides in-memory adapters and a synthetic item bank for
// exercising the assessment pipeline without a database.
package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"psymatch/domain/core"
	"psymatch/models"
	"psymatch/ports"
)

// MemoryStore implements every repository port over in-process maps. The
// assessment mutex stands in for the database's row locks, so
// WithAssessmentLock serializes the way the real adapter does; the item bank
// has its own mutex because lock callbacks read it.
type MemoryStore struct {
	mu          sync.Mutex
	bankMu      sync.Mutex
	scales      map[core.ScaleID]*models.Scale
	items       map[core.ItemID]*models.Item
	candidates  map[core.CandidateID]*models.Candidate
	assessments map[core.AssessmentID]*models.Assessment
	responses   map[core.AssessmentID][]*models.Response
	scores      map[core.AssessmentID][]*models.ScaleScore
	models      map[core.ModelID]*models.PerformanceModel
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scales:      make(map[core.ScaleID]*models.Scale),
		items:       make(map[core.ItemID]*models.Item),
		candidates:  make(map[core.CandidateID]*models.Candidate),
		assessments: make(map[core.AssessmentID]*models.Assessment),
		responses:   make(map[core.AssessmentID][]*models.Response),
		scores:      make(map[core.AssessmentID][]*models.ScaleScore),
		models:      make(map[core.ModelID]*models.PerformanceModel),
	}
}

var (
	_ ports.AssessmentRepository = (*MemoryStore)(nil)
	_ ports.ItemRepository       = (*MemoryStore)(nil)
	_ ports.ItemBankWriter       = (*MemoryStore)(nil)
	_ ports.ScoreRepository      = (*MemoryStore)(nil)
	_ ports.ModelRepository      = (*MemoryStore)(nil)
	_ ports.CandidateRepository  = (*MemoryStore)(nil)
)

// --- AssessmentRepository ---

func (m *MemoryStore) CreateAssessment(ctx context.Context, assessment *models.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *assessment
	m.assessments[assessment.ID] = &copied
	return nil
}

func (m *MemoryStore) GetAssessment(ctx context.Context, id core.AssessmentID) (*models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getAssessmentLocked(id)
}

func (m *MemoryStore) getAssessmentLocked(id core.AssessmentID) (*models.Assessment, error) {
	assessment, ok := m.assessments[id]
	if !ok {
		return nil, core.NewNotFoundError("assessment", id.String())
	}
	copied := *assessment
	return &copied, nil
}

func (m *MemoryStore) UpdateAssessment(ctx context.Context, assessment *models.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateAssessmentLocked(assessment)
}

func (m *MemoryStore) updateAssessmentLocked(assessment *models.Assessment) error {
	if _, ok := m.assessments[assessment.ID]; !ok {
		return core.NewNotFoundError("assessment", assessment.ID.String())
	}
	copied := *assessment
	m.assessments[assessment.ID] = &copied
	return nil
}

func (m *MemoryStore) WithAssessmentLock(ctx context.Context, id core.AssessmentID, fn func(ctx context.Context, assessment *models.Assessment) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	assessment, err := m.getAssessmentLocked(id)
	if err != nil {
		return err
	}
	if err := fn(ctx, assessment); err != nil {
		return err
	}
	return m.updateAssessmentLocked(assessment)
}

func (m *MemoryStore) SaveResponse(ctx context.Context, response *models.Response) error {
	// Called while the store mutex is held when inside WithAssessmentLock;
	// the map append itself needs no extra coordination in tests because the
	// lock callback is the only writer. Insert-only, mirroring the primary
	// key and the (assessment, item) uniqueness of the responses table.
	list := m.responses[response.AssessmentID]
	for _, existing := range list {
		if existing.ID == response.ID || existing.ItemID == response.ItemID {
			return fmt.Errorf("%w: response for item %s already recorded", core.ErrInvalidInput, response.ItemID)
		}
	}
	copied := *response
	m.responses[response.AssessmentID] = append(list, &copied)
	return nil
}

func (m *MemoryStore) ListResponses(ctx context.Context, assessmentID core.AssessmentID) ([]*models.Response, error) {
	list := m.responses[assessmentID]
	out := make([]*models.Response, len(list))
	for i, r := range list {
		copied := *r
		out[i] = &copied
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *MemoryStore) ListResponsesByScale(ctx context.Context, assessmentID core.AssessmentID, scaleID core.ScaleID) ([]*models.Response, error) {
	all, _ := m.ListResponses(ctx, assessmentID)
	var out []*models.Response
	for _, r := range all {
		if r.ScaleID == scaleID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) HasResponse(ctx context.Context, assessmentID core.AssessmentID, itemID core.ItemID) (bool, error) {
	for _, r := range m.responses[assessmentID] {
		if r.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

// --- ItemRepository / ItemBankWriter ---

func (m *MemoryStore) ListScales(ctx context.Context) ([]*models.Scale, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	out := make([]*models.Scale, 0, len(m.scales))
	for _, s := range m.scales {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) GetScale(ctx context.Context, id core.ScaleID) (*models.Scale, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	scale, ok := m.scales[id]
	if !ok {
		return nil, core.NewNotFoundError("scale", id.String())
	}
	copied := *scale
	return &copied, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, id core.ItemID) (*models.Item, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, core.NewNotFoundError("item", id.String())
	}
	copied := *item
	return &copied, nil
}

func (m *MemoryStore) ListItemsByScale(ctx context.Context, scaleID core.ScaleID) ([]*models.Item, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	var out []*models.Item
	for _, item := range m.items {
		if item.ScaleID == scaleID {
			copied := *item
			out = append(out, &copied)
		}
	}
	sortItems(out)
	return out, nil
}

func (m *MemoryStore) ListItemsByDomain(ctx context.Context, domain models.ScaleDomain) ([]*models.Item, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	var out []*models.Item
	for _, item := range m.items {
		scale, ok := m.scales[item.ScaleID]
		if ok && scale.Domain == domain {
			copied := *item
			out = append(out, &copied)
		}
	}
	sortItems(out)
	return out, nil
}

func sortItems(items []*models.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})
}

func (m *MemoryStore) ReplaceItemBank(ctx context.Context, scales []*models.Scale, items []*models.Item) error {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	m.scales = make(map[core.ScaleID]*models.Scale, len(scales))
	m.items = make(map[core.ItemID]*models.Item, len(items))
	for _, scale := range scales {
		copied := *scale
		m.scales[scale.ID] = &copied
	}
	for _, item := range items {
		copied := *item
		m.items[item.ID] = &copied
	}
	return nil
}

// --- ScoreRepository ---

func (m *MemoryStore) SaveScores(ctx context.Context, assessmentID core.AssessmentID, scores []*models.ScaleScore) error {
	copied := make([]*models.ScaleScore, len(scores))
	for i, score := range scores {
		c := *score
		copied[i] = &c
	}
	m.scores[assessmentID] = copied
	return nil
}

func (m *MemoryStore) ListScores(ctx context.Context, assessmentID core.AssessmentID) ([]*models.ScaleScore, error) {
	list := m.scores[assessmentID]
	out := make([]*models.ScaleScore, len(list))
	for i, score := range list {
		copied := *score
		out[i] = &copied
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScaleID < out[j].ScaleID })
	return out, nil
}

func (m *MemoryStore) HasScores(ctx context.Context, assessmentID core.AssessmentID) (bool, error) {
	return len(m.scores[assessmentID]) > 0, nil
}

// --- ModelRepository ---

func (m *MemoryStore) CreateModel(ctx context.Context, model *models.PerformanceModel) error {
	if err := model.Validate(); err != nil {
		return err
	}
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	copied := *model
	copied.Ranges = append([]models.ModelScaleRange(nil), model.Ranges...)
	m.models[model.ID] = &copied
	return nil
}

func (m *MemoryStore) GetModel(ctx context.Context, id core.ModelID) (*models.PerformanceModel, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	model, ok := m.models[id]
	if !ok {
		return nil, core.NewNotFoundError("performance model", id.String())
	}
	copied := *model
	copied.Ranges = append([]models.ModelScaleRange(nil), model.Ranges...)
	return &copied, nil
}

func (m *MemoryStore) ListModels(ctx context.Context) ([]*models.PerformanceModel, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	out := make([]*models.PerformanceModel, 0, len(m.models))
	for _, model := range m.models {
		if !model.IsActive {
			continue
		}
		copied := *model
		copied.Ranges = append([]models.ModelScaleRange(nil), model.Ranges...)
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// --- CandidateRepository ---

func (m *MemoryStore) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	for _, existing := range m.candidates {
		if existing.Email == candidate.Email {
			return fmt.Errorf("%w: candidate email %s taken", core.ErrInvalidInput, candidate.Email)
		}
	}
	copied := *candidate
	m.candidates[candidate.ID] = &copied
	return nil
}

func (m *MemoryStore) GetCandidate(ctx context.Context, id core.CandidateID) (*models.Candidate, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	candidate, ok := m.candidates[id]
	if !ok {
		return nil, core.NewNotFoundError("candidate", id.String())
	}
	copied := *candidate
	return &copied, nil
}

func (m *MemoryStore) GetCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	m.bankMu.Lock()
	defer m.bankMu.Unlock()
	for _, candidate := range m.candidates {
		if candidate.Email == email {
			copied := *candidate
			return &copied, nil
		}
	}
	return nil, core.NewNotFoundError("candidate", email)
}
