package models

import (
	"fmt"
	"time"

	"psymatch/domain/core"
)

// AssessmentStatus is the lifecycle state of an assessment.
type AssessmentStatus string

const (
	AssessmentCreated    AssessmentStatus = "created"
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentExpired    AssessmentStatus = "expired"
)

// Section is one block of the instrument, administered in fixed order.
type Section string

const (
	SectionCognitive  Section = "cognitive"
	SectionBehavioral Section = "behavioral"
	SectionInterests  Section = "interests"
	SectionDone       Section = "done"
)

// AssessmentType selects which sections of the instrument a candidate sits.
type AssessmentType string

const (
	AssessmentFull           AssessmentType = "full"
	AssessmentCognitiveOnly  AssessmentType = "cognitive_only"
	AssessmentBehavioralOnly AssessmentType = "behavioral_only"
	AssessmentInterestsOnly  AssessmentType = "interests_only"
)

// Validate rejects unknown assessment types.
func (t AssessmentType) Validate() error {
	switch t {
	case AssessmentFull, AssessmentCognitiveOnly, AssessmentBehavioralOnly, AssessmentInterestsOnly:
		return nil
	}
	return fmt.Errorf("%w: unknown assessment type %q", core.ErrInvalidInput, t)
}

// Sections returns the section order this type administers.
func (t AssessmentType) Sections() []Section {
	switch t {
	case AssessmentCognitiveOnly:
		return []Section{SectionCognitive}
	case AssessmentBehavioralOnly:
		return []Section{SectionBehavioral}
	case AssessmentInterestsOnly:
		return []Section{SectionInterests}
	}
	return []Section{SectionCognitive, SectionBehavioral, SectionInterests}
}

// Assessment is one candidate's pass through the instrument.
//
// CurrentSection and SectionIndex locate the next item to serve; the actual
// response history lives in the responses table.
type Assessment struct {
	ID             core.AssessmentID `json:"id" db:"id"`
	CandidateID    core.CandidateID  `json:"candidate_id" db:"candidate_id"`
	Type           AssessmentType    `json:"type" db:"type"`
	Status         AssessmentStatus  `json:"status" db:"status"`
	CurrentSection Section           `json:"current_section" db:"current_section"`
	SectionIndex   int               `json:"section_index" db:"section_index"`
	StartedAt      *time.Time        `json:"started_at,omitempty" db:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	ExpiresAt      time.Time         `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// NewAssessment builds an assessment in the created state with the given TTL,
// cued up at the first section of its type.
func NewAssessment(candidateID core.CandidateID, typ AssessmentType, ttl time.Duration) *Assessment {
	now := time.Now().UTC()
	return &Assessment{
		ID:             core.NewAssessmentID(),
		CandidateID:    candidateID,
		Type:           typ,
		Status:         AssessmentCreated,
		CurrentSection: typ.Sections()[0],
		SectionIndex:   0,
		ExpiresAt:      now.Add(ttl),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsExpired reports whether the TTL has passed for a still-open assessment.
func (a *Assessment) IsExpired(now time.Time) bool {
	if a.Status == AssessmentCompleted {
		return false
	}
	return now.After(a.ExpiresAt)
}

// Start moves created to in_progress. Starting an already started assessment
// is a no-op so the operation stays idempotent.
func (a *Assessment) Start(now time.Time) error {
	switch a.Status {
	case AssessmentCreated:
		started := now.UTC()
		a.Status = AssessmentInProgress
		a.StartedAt = &started
		a.UpdatedAt = started
		return nil
	case AssessmentInProgress:
		return nil
	case AssessmentCompleted:
		return fmt.Errorf("%w: assessment %s already completed", core.ErrStateInvalid, a.ID)
	case AssessmentExpired:
		return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, a.ID)
	}
	return fmt.Errorf("%w: unknown status %q", core.ErrStateInvalid, a.Status)
}

// AdvanceSection moves the cursor to the next section of this assessment's
// type, or to done past the last one, and resets the item cursor.
func (a *Assessment) AdvanceSection(now time.Time) {
	sections := a.Type.Sections()
	next := SectionDone
	for i, s := range sections {
		if s == a.CurrentSection && i+1 < len(sections) {
			next = sections[i+1]
			break
		}
	}
	a.CurrentSection = next
	a.SectionIndex = 0
	a.UpdatedAt = now.UTC()
}

// Complete moves in_progress to completed. Completing twice is a no-op.
func (a *Assessment) Complete(now time.Time) error {
	switch a.Status {
	case AssessmentCompleted:
		return nil
	case AssessmentInProgress:
		completed := now.UTC()
		a.Status = AssessmentCompleted
		a.CurrentSection = SectionDone
		a.CompletedAt = &completed
		a.UpdatedAt = completed
		return nil
	case AssessmentExpired:
		return fmt.Errorf("%w: assessment %s", core.ErrAssessmentExpired, a.ID)
	}
	return fmt.Errorf("%w: cannot complete assessment in status %q", core.ErrStateInvalid, a.Status)
}

// Expire marks an open assessment expired.
func (a *Assessment) Expire(now time.Time) {
	if a.Status == AssessmentCompleted {
		return
	}
	a.Status = AssessmentExpired
	a.UpdatedAt = now.UTC()
}
