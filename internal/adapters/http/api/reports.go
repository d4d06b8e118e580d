package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/domain/types"
)

// ReportsHandler handles report requests.
type ReportsHandler struct {
	deps     ReportDependencies
	validate *validator.Validate
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies, validate *validator.Validate) *ReportsHandler {
	if validate == nil {
		validate = newValidator()
	}
	return &ReportsHandler{deps: deps, validate: validate}
}

// HandleCompute handles POST /reports/compute requests.
func (h *ReportsHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.compute_report"
	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rep, err := h.deps.BuildReport(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleSubmit handles POST /reports requests.
func (h *ReportsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_report"
	req, err := h.decode(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := h.deps.SubmitReport(r.Context(), req)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if sub.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", JobID: sub.JobID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: sub.JobID})
}

// HandleGet handles GET /reports/{id} requests.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.Report(r.Context(), id)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *ReportsHandler) decode(w http.ResponseWriter, r *http.Request) (types.ReportRequest, error) {
	var body reportRequest
	if err := decodeJSON(w, r, h.validate, &body); err != nil {
		return types.ReportRequest{}, err
	}
	return body.toRequest()
}

func (b reportRequest) toRequest() (types.ReportRequest, error) {
	cur, err := model.NewWindow(b.Current.From, b.Current.To)
	if err != nil {
		return types.ReportRequest{}, err
	}
	req := types.ReportRequest{RequestID: b.RequestID, Current: cur}
	if b.Previous != nil {
		prev, err := model.NewWindow(b.Previous.From, b.Previous.To)
		if err != nil {
			return types.ReportRequest{}, err
		}
		req.Previous = prev
	}
	return req, nil
}
