package smoke

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/pkg/logger"
)

// submission is the outcome of one POST /reports call.
type submission struct {
	requestID string
	outcome   string
	jobID     string
}

// Run executes the complete smoke test and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	client := NewClient(config.BaseURL, config.Timeout)

	logger.Get().Info(ctx, "starting hirefunnel smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.String("runID", config.RunID),
		logger.Int("requests", config.Requests),
		logger.Int("duplicateEvery", config.DuplicateEvery),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Build the request plan
	plan := generateRequests(config)
	stats.RequestsGenerated = len(plan)

	// Step 3: Submit concurrently
	subs := submitRequests(ctx, config, client, plan, stats)

	// Step 4: Wait for every job to settle
	jobs, err := pollJobs(ctx, config, client, subs, stats)
	if err != nil {
		return stats, fmt.Errorf("job polling failed: %w", err)
	}

	// Step 5: Verify results
	if err := verifyResults(ctx, plan, subs, jobs); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *Client) error {
	logger.Get().Info(ctx, "checking service health")

	status, err := client.Get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// generateRequests cuts config.Window into calendar months and assigns one
// to each request in turn. Every DuplicateEvery-th request is sent twice;
// the resubmissions go last.
func generateRequests(config *Config) []Request {
	months := monthsOf(config.Window)
	plan := make([]Request, 0, config.Requests)
	for i := 0; i < config.Requests; i++ {
		m := months[i%len(months)]
		plan = append(plan, Request{
			RequestID: fmt.Sprintf("%s-%05d", config.RunID, i),
			Current: WindowParam{
				From: m.From.Format(model.DateLayout),
				To:   m.To.Format(model.DateLayout),
			},
		})
	}
	if config.DuplicateEvery > 0 {
		for i := config.DuplicateEvery - 1; i < config.Requests; i += config.DuplicateEvery {
			plan = append(plan, plan[i])
		}
	}
	return plan
}

// monthsOf yields the calendar months overlapping w, clipped to w.
func monthsOf(w model.Window) []model.Window {
	var out []model.Window
	start := time.Date(w.From.Year(), w.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	for start.Before(w.To) {
		end := start.AddDate(0, 1, 0)
		m := model.Window{From: start, To: end}
		if m.From.Before(w.From) {
			m.From = w.From
		}
		if m.To.After(w.To) {
			m.To = w.To
		}
		out = append(out, m)
		start = end
	}
	return out
}

// submitRequests submits the plan concurrently using a worker pool.
func submitRequests(ctx context.Context, config *Config, client *Client, plan []Request, stats *Stats) []submission {
	logger.Get().Info(ctx, "submitting report requests",
		logger.Int("requests", len(plan)),
		logger.Int("workers", config.Workers))

	var (
		accepted  int64
		duplicate int64
		rejected  int64
		failed    int64
		submitted int64

		mu   sync.Mutex
		subs = make([]submission, 0, len(plan))
	)

	reqChan := make(chan Request, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range reqChan {
				sub := submitSingleRequest(ctx, client, req)

				atomic.AddInt64(&submitted, 1)
				switch sub.outcome {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				case outcomeRejected:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if config.Verbose {
					logger.Get().Debug(ctx, "report request submitted",
						logger.String("requestID", sub.requestID),
						logger.String("outcome", sub.outcome),
						logger.String("jobID", sub.jobID))
				}

				mu.Lock()
				subs = append(subs, sub)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(reqChan)
		for _, req := range plan {
			select {
			case <-ctx.Done():
				return
			case reqChan <- req:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Accepted = int(atomic.LoadInt64(&accepted))
	stats.Duplicate = int(atomic.LoadInt64(&duplicate))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "report submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))
	return subs
}

// submitSingleRequest submits one request and classifies the response.
func submitSingleRequest(ctx context.Context, client *Client, req Request) submission {
	sub := submission{requestID: req.RequestID, outcome: outcomeFailed}

	var ack AckResponse
	status, err := client.Post(ctx, "/reports", req, &ack)
	if err != nil {
		return sub
	}
	switch status {
	case http.StatusAccepted:
		sub.outcome, sub.jobID = outcomeAccepted, ack.JobID
	case http.StatusOK:
		if ack.Duplicate {
			sub.outcome, sub.jobID = outcomeDuplicate, ack.JobID
		}
	case http.StatusTooManyRequests:
		sub.outcome = outcomeRejected
	}
	return sub
}

// pollJobs waits until every acknowledged job leaves the pending state.
func pollJobs(ctx context.Context, config *Config, client *Client, subs []submission, stats *Stats) (map[string]JobResponse, error) {
	ids := make(map[string]struct{})
	for _, s := range subs {
		if s.jobID != "" {
			ids[s.jobID] = struct{}{}
		}
	}
	logger.Get().Info(ctx, "waiting for report jobs", logger.Int("jobs", len(ids)))

	var mu sync.Mutex
	jobs := make(map[string]JobResponse, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for id := range ids {
		g.Go(func() error {
			job, err := pollJob(gctx, config, client, id)
			if err != nil {
				return err
			}
			mu.Lock()
			jobs[id] = job
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if job.Status == statusDone {
			stats.JobsDone++
		} else {
			stats.JobsFailed++
		}
	}
	return jobs, nil
}

func pollJob(ctx context.Context, config *Config, client *Client, id string) (JobResponse, error) {
	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	for {
		var job JobResponse
		status, err := client.Get(ctx, "/reports/"+id, &job)
		switch {
		case err != nil:
			return JobResponse{}, fmt.Errorf("job %s: %w", id, err)
		case status != http.StatusOK:
			return JobResponse{}, fmt.Errorf("job %s: unexpected status %d", id, status)
		case job.Status != statusPending:
			return job, nil
		}

		select {
		case <-ctx.Done():
			return JobResponse{}, fmt.Errorf("job %s still pending: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, requestsPerSecond float64

	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted+stats.Duplicate) / float64(stats.Submitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("jobsDone", stats.JobsDone),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
