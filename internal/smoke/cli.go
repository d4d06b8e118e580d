package smoke

import (
	"fmt"
	"os"

	"github.com/okian/hirefunnel/pkg/logger"
)

// SetupLogging initializes the logger in the given format.
func SetupLogging(format string) error {
	if err := logger.InitWith(os.Stdout, format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Hirefunnel Report Smoke Tool
============================

Submits report jobs to a running hirefunnel service, waits for them to
finish and verifies deduplication and report windows.

Usage:
  go run ./cmd/report-smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of distinct report requests (default 200)
  -duplicate-every int
        Resubmit every Nth request, 0 disables (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -from string, -to string
        Range the monthly report windows are cut from
        (default 2024-01-01 to 2024-07-01)
  -timeout duration
        HTTP request timeout (default 30s)
  -poll duration
        Delay between job status polls (default 100ms)
  -log-format string
        text or json (default "text")
  -verbose
        Log every submission
  -help
        Show this help message

Examples:
  # Smoke test a local service seeded with sample data
  go run ./cmd/report-smoke

  # Push harder to exercise backpressure
  go run ./cmd/report-smoke -requests 5000 -workers 64
`)
}
