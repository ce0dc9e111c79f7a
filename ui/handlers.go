package ui

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"psymatch/domain/core"
	"psymatch/internal/errors"
	"psymatch/models"
)

// ModelLister is the slice of the model repository the API needs.
type ModelLister interface {
	ListModels(ctx context.Context) ([]*models.PerformanceModel, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON body with the given status.
func (a *App) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("encoding response: %v", err)
	}
}

// writeError maps an error to its HTTP status through the app error codes.
func (a *App) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeStateInvalid, errors.CodeEstimationDiverged:
		status = http.StatusConflict
	case errors.CodeAssessmentExpired:
		status = http.StatusGone
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListModels(w http.ResponseWriter, r *http.Request) {
	list, err := a.models.ListModels(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"models": list})
}

type createAssessmentRequest struct {
	Email    string                `json:"email"`
	FullName string                `json:"full_name"`
	Type     models.AssessmentType `json:"type,omitempty"`
}

func (a *App) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, core.NewInputError("body", "malformed JSON"))
		return
	}

	assessment, err := a.assessments.CreateAssessment(r.Context(), req.Email, req.FullName, req.Type)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, assessment)
}

func (a *App) assessmentID(r *http.Request) (core.AssessmentID, error) {
	return core.ParseAssessmentID(chi.URLParam(r, "assessmentID"))
}

func (a *App) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}
	assessment, err := a.assessments.GetAssessment(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, assessment)
}

func (a *App) handleStartAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}
	assessment, err := a.assessments.Start(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, assessment)
}

func (a *App) handleNextItem(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}
	next, err := a.assessments.NextItem(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, next)
}

type submitResponseRequest struct {
	ItemID         string               `json:"item_id"`
	Value          models.ResponseValue `json:"value"`
	ResponseTimeMs int                  `json:"response_time_ms,omitempty"`
}

func (a *App) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}

	var req submitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, core.NewInputError("body", "malformed JSON"))
		return
	}
	itemID, err := core.ParseItemID(req.ItemID)
	if err != nil {
		a.writeError(w, core.NewInputError("item_id", err.Error()))
		return
	}

	response, err := a.assessments.SubmitResponse(r.Context(), id, itemID, req.Value, req.ResponseTimeMs)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, response)
}

func (a *App) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}
	scores, err := a.assessments.Complete(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

func (a *App) handleScores(w http.ResponseWriter, r *http.Request) {
	id, err := a.assessmentID(r)
	if err != nil {
		a.writeError(w, core.NewInputError("assessmentID", err.Error()))
		return
	}
	scores, err := a.assessments.Scores(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

func (a *App) matchParams(r *http.Request) (core.AssessmentID, core.ModelID, error) {
	id, err := a.assessmentID(r)
	if err != nil {
		return "", "", core.NewInputError("assessmentID", err.Error())
	}
	modelID, err := core.ParseModelID(chi.URLParam(r, "modelID"))
	if err != nil {
		return "", "", core.NewInputError("modelID", err.Error())
	}
	return id, modelID, nil
}

func (a *App) handleMatch(w http.ResponseWriter, r *http.Request) {
	id, modelID, err := a.matchParams(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	report, err := a.matches.ComputeMatch(r.Context(), id, modelID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, report)
}

func (a *App) handleInterview(w http.ResponseWriter, r *http.Request) {
	id, modelID, err := a.matchParams(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	guide, err := a.matches.InterviewQuestions(r.Context(), id, modelID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, guide)
}
