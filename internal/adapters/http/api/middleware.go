package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/hirefunnel/pkg/metrics"
)

// Endpoint labels used on the HTTP metrics.
const (
	endpointHealth         = "healthz"
	endpointStats          = "stats"
	endpointReportSubmit   = "reports_submit"
	endpointReportCompute  = "reports_compute"
	endpointReportGet      = "reports_get"
	endpointFitScore       = "fit_scores"
	endpointUnmatched      = "unmatched"
	errorTypeUnclassified  = "unclassified"
	errorTypeMethodInvalid = "method_not_allowed"
)

// instrument records request count, latency and error responses for one
// route. The error_type label is the code carried in the error body when the
// handler wrote one, and is otherwise derived from the status.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status, float64(time.Since(start).Milliseconds()))
		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.code
		if code == "" {
			code = errorCodeFor(rec.status)
		}
		metrics.RecordHTTPError(endpoint, r.Method, code)
	}
}

// errorCodeFor names responses written outside writeError, such as chi's
// own 404/405 or the timeout middleware's 503.
func errorCodeFor(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return errorTypeMethodInvalid
	case http.StatusTooManyRequests:
		return "backpressure"
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return "unavailable"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return errorTypeUnclassified
}

// statusRecorder keeps the status and error code a handler answered with.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) setErrorCode(code string) { rec.code = code }

// errorCoder is implemented by writers that label error metrics.
type errorCoder interface {
	setErrorCode(code string)
}
