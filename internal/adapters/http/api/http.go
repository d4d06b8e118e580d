// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/okian/hirefunnel/internal/adapters/http/swagger"
	"github.com/okian/hirefunnel/internal/domain/report"
	"github.com/okian/hirefunnel/internal/domain/scoring"
	"github.com/okian/hirefunnel/internal/domain/types"
)

const (
	requestTimeout = 30 * time.Second
	maxBodyBytes   = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReportDependencies
	FitScoreDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	reportsHandler  *ReportsHandler
	fitScoreHandler *FitScoreHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	validate := newValidator()
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		reportsHandler:  NewReportsHandler(deps, validate),
		fitScoreHandler: NewFitScoreHandler(deps, validate),
	}
}

// Router returns the handler serving every API route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(instrument(endpointUnmatched, func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	}))
	r.MethodNotAllowed(instrument(endpointUnmatched, func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errorTypeMethodInvalid, nil)
	}))

	r.Get("/healthz", instrument(endpointHealth, s.healthHandler.HandleHealth))
	r.Method(http.MethodGet, "/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", instrument(endpointStats, s.statsHandler.HandleStats))

	r.Post("/reports", instrument(endpointReportSubmit, s.reportsHandler.HandleSubmit))
	r.Post("/reports/compute", instrument(endpointReportCompute, s.reportsHandler.HandleCompute))
	r.Get("/reports/{id}", instrument(endpointReportGet, s.reportsHandler.HandleGet))

	r.Post("/fit-scores", instrument(endpointFitScore, s.fitScoreHandler.HandleFitScore))

	swagger.Register(r)

	return r
}

// windowRequest is a reporting window as posted by clients. Bounds accept
// calendar dates or RFC3339 timestamps.
type windowRequest struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// reportRequest mirrors the body of POST /reports and POST /reports/compute.
type reportRequest struct {
	RequestID string         `json:"request_id" validate:"omitempty,max=128"`
	Current   windowRequest  `json:"current"`
	Previous  *windowRequest `json:"previous,omitempty" validate:"omitempty"`
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response so an unencodable value
// becomes a 500 instead of a truncated 2xx body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		markError(w, "encode_failed")
		body, _ = json.Marshal(errorResponse{Code: "encode_failed", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	markError(w, code)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func markError(w http.ResponseWriter, code string) {
	if ec, ok := w.(errorCoder); ok {
		ec.setErrorCode(code)
	}
}

// writeFailure answers with the status matching err's kind.
func writeFailure(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	writeError(w, status, code, Wrap(op, err))
}

// decodeJSON reads a single JSON object from the request body into dst and
// validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return errors.New("body must contain a single JSON object")
	}
	if err := v.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation reports the first failed field by its JSON path.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	if fe.Param() != "" {
		return fmt.Errorf("field %s failed %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("field %s failed %s", field, fe.Tag())
}

// ReportDependencies defines the report operations used by the handlers.
type ReportDependencies interface {
	BuildReport(ctx context.Context, req types.ReportRequest) (report.Report, error)
	SubmitReport(ctx context.Context, req types.ReportRequest) (types.Submission, error)
	Report(ctx context.Context, id string) (types.ReportJob, error)
}

// FitScoreDependencies defines the scoring operation used by the handlers.
type FitScoreDependencies interface {
	FitScore(ctx context.Context, candidate scoring.CandidateProfile, job scoring.JobProfile) (scoring.Result, error)
}
