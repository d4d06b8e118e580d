package smoke

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
)

// Verification errors.
var (
	ErrSubmissionFailed = errors.New("submission failed")
	ErrNothingAccepted  = errors.New("no report job was accepted")
	ErrDuplicateMissed  = errors.New("resubmission created a second job")
	ErrJobFailed        = errors.New("report job failed")
	ErrWrongWindow      = errors.New("report window does not match request")
)

// verifyResults checks that resubmissions collapse onto one job and that
// every job produced a report for the requested window.
func verifyResults(ctx context.Context, plan []Request, subs []submission, jobs map[string]JobResponse) error {
	logger.Get().Info(ctx, "verifying results")

	windows := make(map[string]WindowParam, len(plan))
	for _, req := range plan {
		windows[req.RequestID] = req.Current
	}

	jobOf := make(map[string]string)
	accepted := make(map[string]int)
	for _, s := range subs {
		switch s.outcome {
		case outcomeFailed:
			return fmt.Errorf("%w: %s", ErrSubmissionFailed, s.requestID)
		case outcomeRejected:
			continue
		case outcomeAccepted:
			accepted[s.requestID]++
		}
		if prev, ok := jobOf[s.requestID]; ok && prev != s.jobID {
			return fmt.Errorf("%w: %s mapped to %s and %s", ErrDuplicateMissed, s.requestID, prev, s.jobID)
		}
		jobOf[s.requestID] = s.jobID
	}
	if len(jobOf) == 0 {
		return ErrNothingAccepted
	}
	for id, n := range accepted {
		if n > 1 {
			return fmt.Errorf("%w: %s accepted %d times", ErrDuplicateMissed, id, n)
		}
	}

	for requestID, jobID := range jobOf {
		job, ok := jobs[jobID]
		if !ok || job.Status != statusDone || job.Report == nil {
			return fmt.Errorf("%w: %s (%s): %s", ErrJobFailed, jobID, job.Status, job.Error)
		}
		if !sameWindow(job.Report.Window, windows[requestID]) {
			return fmt.Errorf("%w: job %s", ErrWrongWindow, jobID)
		}
	}

	logger.Get().Info(ctx, "result verification completed", logger.Int("jobs", len(jobs)))
	return nil
}

func sameWindow(w model.Window, p WindowParam) bool {
	return w.From.Format(model.DateLayout) == p.From && w.To.Format(model.DateLayout) == p.To
}
