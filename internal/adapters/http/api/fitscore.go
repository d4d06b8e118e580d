package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/hirefunnel/internal/domain/scoring"
)

type candidateRequest struct {
	ID              string   `json:"id" validate:"required"`
	Skills          []string `json:"skills" validate:"dive,required"`
	YearsExperience float64  `json:"years_experience" validate:"gte=0"`
}

type jobRequest struct {
	ID                 string   `json:"id" validate:"required"`
	Title              string   `json:"title"`
	RequiredSkills     []string `json:"required_skills" validate:"dive,required"`
	MinYearsExperience float64  `json:"min_years_experience" validate:"gte=0"`
}

// fitScoreRequest mirrors the body of POST /fit-scores.
type fitScoreRequest struct {
	Candidate candidateRequest `json:"candidate"`
	Job       jobRequest       `json:"job"`
}

// FitScoreHandler handles candidate fit score requests.
type FitScoreHandler struct {
	deps     FitScoreDependencies
	validate *validator.Validate
}

// NewFitScoreHandler creates a new fit score handler.
func NewFitScoreHandler(deps FitScoreDependencies, validate *validator.Validate) *FitScoreHandler {
	if validate == nil {
		validate = newValidator()
	}
	return &FitScoreHandler{deps: deps, validate: validate}
}

// HandleFitScore handles POST /fit-scores requests.
func (h *FitScoreHandler) HandleFitScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.fit_score"
	var body fitScoreRequest
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.FitScore(r.Context(),
		scoring.CandidateProfile{
			ID:              body.Candidate.ID,
			Skills:          body.Candidate.Skills,
			YearsExperience: body.Candidate.YearsExperience,
		},
		scoring.JobProfile{
			ID:                 body.Job.ID,
			Title:              body.Job.Title,
			RequiredSkills:     body.Job.RequiredSkills,
			MinYearsExperience: body.Job.MinYearsExperience,
		},
	)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
