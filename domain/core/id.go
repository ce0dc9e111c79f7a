package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	CandidateID  ID
	AssessmentID ID
	ScaleID      ID
	ItemID       ID
	ResponseID   ID
	ScoreID      ID
	ModelID      ID
)

// Typed constructors
func NewCandidateID() CandidateID   { return CandidateID(NewID()) }
func NewAssessmentID() AssessmentID { return AssessmentID(NewID()) }
func NewResponseID() ResponseID     { return ResponseID(NewID()) }
func NewScoreID() ScoreID           { return ScoreID(NewID()) }
func NewModelID() ModelID           { return ModelID(NewID()) }

// String conversions for domain IDs
func (id CandidateID) String() string  { return ID(id).String() }
func (id AssessmentID) String() string { return ID(id).String() }
func (id ScaleID) String() string      { return ID(id).String() }
func (id ItemID) String() string       { return ID(id).String() }
func (id ResponseID) String() string   { return ID(id).String() }
func (id ScoreID) String() string      { return ID(id).String() }
func (id ModelID) String() string      { return ID(id).String() }

// Emptiness checks for IDs validated at operation boundaries
func (id AssessmentID) IsEmpty() bool { return ID(id).IsEmpty() }
func (id CandidateID) IsEmpty() bool  { return ID(id).IsEmpty() }
func (id ItemID) IsEmpty() bool       { return ID(id).IsEmpty() }
func (id ModelID) IsEmpty() bool      { return ID(id).IsEmpty() }
func (id ScaleID) IsEmpty() bool      { return ID(id).IsEmpty() }

// ParseAssessmentID parses a string into AssessmentID
func ParseAssessmentID(s string) (AssessmentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("assessment ID cannot be empty")
	}
	return AssessmentID(s), nil
}

// ParseCandidateID parses a string into CandidateID
func ParseCandidateID(s string) (CandidateID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("candidate ID cannot be empty")
	}
	return CandidateID(s), nil
}

// ParseItemID parses a string into ItemID
func ParseItemID(s string) (ItemID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("item ID cannot be empty")
	}
	return ItemID(s), nil
}

// ParseModelID parses a string into ModelID
func ParseModelID(s string) (ModelID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("model ID cannot be empty")
	}
	return ModelID(s), nil
}

// ParseScaleID parses a string into ScaleID
func ParseScaleID(s string) (ScaleID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("scale ID cannot be empty")
	}
	return ScaleID(s), nil
}
