package models

import (
	"time"

	"psymatch/domain/core"
)

// Candidate is the person taking an assessment.
type Candidate struct {
	ID        core.CandidateID `json:"id" db:"id"`
	Email     string           `json:"email" db:"email"`
	FullName  string           `json:"full_name" db:"full_name"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// NewCandidate builds a candidate with a fresh ID and timestamps.
func NewCandidate(email, fullName string) *Candidate {
	now := time.Now().UTC()
	return &Candidate{
		ID:        core.NewCandidateID(),
		Email:     email,
		FullName:  fullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
