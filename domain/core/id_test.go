package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	// Generate many IDs
	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDString tests ID string conversion
func TestIDString(t *testing.T) {
	id := ID("test-123")
	if id.String() != "test-123" {
		t.Errorf("Expected String() to return 'test-123', got '%s'", id.String())
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseAssessmentID tests assessment ID parsing
func TestParseAssessmentID(t *testing.T) {
	if _, err := ParseAssessmentID("  "); err == nil {
		t.Error("Expected error for blank assessment ID")
	}

	id, err := ParseAssessmentID("a-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id.String() != "a-1" {
		t.Errorf("Expected 'a-1', got '%s'", id.String())
	}
}

// TestErrorHelpers tests the errors.Is classification helpers
func TestErrorHelpers(t *testing.T) {
	if !IsNotFoundError(NewNotFoundError("item", "i-9")) {
		t.Error("Expected wrapped not-found error to classify as not found")
	}
	if !IsInputError(NewInputError("sten", "out of range")) {
		t.Error("Expected input error to classify as input error")
	}
	if !IsStateError(NewStateError("respond", "completed")) {
		t.Error("Expected state error to classify as state error")
	}
	if !IsStateError(ErrAssessmentExpired) {
		t.Error("Expected expiry to classify as state error")
	}
	if IsNotFoundError(ErrInvalidInput) {
		t.Error("Did not expect input error to classify as not found")
	}
}
