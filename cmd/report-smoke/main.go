package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/smoke"
)

// Default configuration constants.
const (
	defaultRequests       = 200
	defaultDuplicateEvery = 5
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultPollInterval   = 100 * time.Millisecond
	defaultTestTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests       = flag.Int("requests", defaultRequests, "Number of distinct report requests")
		duplicateEvery = flag.Int("duplicate-every", defaultDuplicateEvery, "Resubmit every Nth request (0 disables)")
		workers        = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		from           = flag.String("from", "2024-01-01", "Start of the range report windows are cut from")
		to             = flag.String("to", "2024-07-01", "End of the range report windows are cut from")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		poll           = flag.Duration("poll", defaultPollInterval, "Delay between job status polls")
		logFormat      = flag.String("log-format", "text", "Log format: text or json")
		verbose        = flag.Bool("verbose", false, "Log every submission")
		help           = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoke.ShowHelp()
		return
	}

	if err := smoke.SetupLogging(*logFormat); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	window, err := model.NewWindow(*from, *to)
	if err != nil {
		os.Stderr.WriteString("Invalid window: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoke.Config{
		BaseURL:        *baseURL,
		RunID:          "smoke-" + uuid.NewString()[:8],
		Requests:       *requests,
		DuplicateEvery: *duplicateEvery,
		Workers:        *workers,
		Timeout:        *timeout,
		PollInterval:   *poll,
		Window:         window,
		Verbose:        *verbose,
	}

	if _, err := smoke.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
