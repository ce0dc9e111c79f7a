package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"psymatch/app"
	"psymatch/domain/core"
	"psymatch/domain/irt"
	"psymatch/domain/scoring"
	"psymatch/internal"
	"psymatch/internal/testkit"
	"psymatch/models"
)

func newTestApp(t *testing.T) (*App, *testkit.MemoryStore) {
	t.Helper()
	store := testkit.NewMemoryStore()
	if err := testkit.LoadBank(store, testkit.DefaultBankSpec()); err != nil {
		t.Fatalf("loading synthetic bank: %v", err)
	}
	logger := internal.NewLogger(internal.LogLevelError)
	assessments := app.NewAssessmentService(store, store, store, store, irt.DefaultConfig(), scoring.DefaultLikertWeight, 72*time.Hour, logger)
	matches := app.NewMatchService(store, store, store, store, logger)
	return NewApp(assessments, matches, store, logger), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	webApp, _ := newTestApp(t)
	rec := doJSON(t, webApp.Router(), http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAssessmentEndToEnd(t *testing.T) {
	webApp, _ := newTestApp(t)
	router := webApp.Router()

	// Create
	rec := doJSON(t, router, http.MethodPost, "/api/assessments", map[string]string{
		"email":     "api@example.com",
		"full_name": "Quinn Abebe",
		"type":      "full",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Assessment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding assessment: %v", err)
	}
	if created.Type != models.AssessmentFull {
		t.Errorf("type = %s, want full", created.Type)
	}
	base := "/api/assessments/" + created.ID.String()

	// Start
	if rec := doJSON(t, router, http.MethodPost, base+"/start", nil); rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body.String())
	}

	// Walk the instrument through the API
	cognitive := 0
	likert := 0
	for step := 0; step < 200; step++ {
		rec := doJSON(t, router, http.MethodGet, base+"/next", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("next status = %d: %s", rec.Code, rec.Body.String())
		}
		var next struct {
			Item            *models.Item `json:"item"`
			SectionComplete bool         `json:"section_complete"`
			Done            bool         `json:"done"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &next); err != nil {
			t.Fatalf("decoding next: %v", err)
		}
		if next.Done {
			break
		}
		if next.SectionComplete {
			continue
		}

		var value models.ResponseValue
		switch next.Item.Format {
		case models.FormatMultipleChoice:
			selected := "A"
			if cognitive%2 == 1 {
				selected = "B"
			}
			cognitive++
			value = models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: selected}
		case models.FormatLikert:
			value = models.ResponseValue{Kind: models.ResponseLikert, Likert: likert%5 + 1}
			likert++
		case models.FormatForcedChoice:
			value = models.ResponseValue{Kind: models.ResponseForcedChoice, ChosenIndex: 0}
		}

		rec = doJSON(t, router, http.MethodPost, base+"/responses", map[string]interface{}{
			"item_id":          next.Item.ID,
			"value":            value,
			"response_time_ms": 900,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("respond status = %d: %s", rec.Code, rec.Body.String())
		}
		var saved models.Response
		if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if saved.ResponseTimeMs != 900 {
			t.Fatalf("response time = %d ms, want 900", saved.ResponseTimeMs)
		}
	}

	// Complete
	rec = doJSON(t, router, http.MethodPost, base+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}
	var completed struct {
		Scores []*models.ScaleScore `json:"scores"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &completed); err != nil {
		t.Fatalf("decoding scores: %v", err)
	}
	if len(completed.Scores) == 0 {
		t.Fatal("complete returned no scores")
	}

	// Scores endpoint mirrors the stored set
	if rec := doJSON(t, router, http.MethodGet, base+"/scores", nil); rec.Code != http.StatusOK {
		t.Fatalf("scores status = %d", rec.Code)
	}
}

func TestMatchEndpoint(t *testing.T) {
	webApp, store := newTestApp(t)
	router := webApp.Router()

	// Complete an assessment directly through the service layer
	rec := doJSON(t, router, http.MethodPost, "/api/assessments", map[string]string{"email": "fit@example.com", "full_name": "Tal Ben-Ami"})
	var created models.Assessment
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	base := "/api/assessments/" + created.ID.String()
	doJSON(t, router, http.MethodPost, base+"/start", nil)

	for step := 0; step < 200; step++ {
		rec := doJSON(t, router, http.MethodGet, base+"/next", nil)
		var next struct {
			Item            *models.Item `json:"item"`
			SectionComplete bool         `json:"section_complete"`
			Done            bool         `json:"done"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &next)
		if next.Done {
			break
		}
		if next.SectionComplete {
			continue
		}
		var value models.ResponseValue
		switch next.Item.Format {
		case models.FormatMultipleChoice:
			value = models.ResponseValue{Kind: models.ResponseMultipleChoice, Selected: "A"}
			if step%2 == 1 {
				value.Selected = "B"
			}
		case models.FormatLikert:
			value = models.ResponseValue{Kind: models.ResponseLikert, Likert: step%5 + 1}
		case models.FormatForcedChoice:
			value = models.ResponseValue{Kind: models.ResponseForcedChoice, ChosenIndex: 0}
		}
		doJSON(t, router, http.MethodPost, base+"/responses", map[string]interface{}{"item_id": next.Item.ID, "value": value})
	}
	doJSON(t, router, http.MethodPost, base+"/complete", nil)

	model := &models.PerformanceModel{
		ID:       core.NewModelID(),
		Name:     "API Model",
		IsActive: true,
		Ranges: []models.ModelScaleRange{
			{ID: core.NewID(), ScaleID: "cog-verbal", Domain: models.DomainCognitive, TargetMin: 1, TargetMax: 10, Weight: 1},
			{ID: core.NewID(), ScaleID: "beh-stability", Domain: models.DomainBehavioral, TargetMin: 1, TargetMax: 10, Weight: 1},
		},
	}
	if err := store.CreateModel(context.Background(), model); err != nil {
		t.Fatalf("creating model: %v", err)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("%s/match/%s", base, model.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("match status = %d: %s", rec.Code, rec.Body.String())
	}
	var report app.MatchReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.Match.Overall < 0 || report.Match.Overall > 100 {
		t.Errorf("overall = %d outside [0,100]", report.Match.Overall)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("%s/interview/%s", base, model.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("interview status = %d: %s", rec.Code, rec.Body.String())
	}

	// Model listing
	rec = doJSON(t, router, http.MethodGet, "/api/models", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("models status = %d", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	webApp, _ := newTestApp(t)
	router := webApp.Router()

	// Unknown assessment: 404
	rec := doJSON(t, router, http.MethodGet, "/api/assessments/"+core.NewAssessmentID().String()+"/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown assessment status = %d, want 404", rec.Code)
	}

	// Malformed body: 400
	req := httptest.NewRequest(http.MethodPost, "/api/assessments", bytes.NewBufferString("{"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", recorder.Code)
	}

	// Next item before starting: 409
	rec = doJSON(t, router, http.MethodPost, "/api/assessments", map[string]string{"email": "state@example.com"})
	var created models.Assessment
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	rec = doJSON(t, router, http.MethodGet, "/api/assessments/"+created.ID.String()+"/next", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("next before start status = %d, want 409", rec.Code)
	}
}
