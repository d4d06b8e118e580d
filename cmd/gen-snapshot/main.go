package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/hirefunnel/internal/adapters/repository"
	"github.com/okian/hirefunnel/internal/domain/model"
	"github.com/okian/hirefunnel/internal/sampledata"
	"github.com/okian/hirefunnel/pkg/logger"
)

const outputFilePermission = 0o600

func main() {
	defaults := sampledata.DefaultConfig()
	var (
		seed       = flag.Uint64("seed", defaults.Seed, "Random seed; the same seed yields the same snapshot")
		jobs       = flag.Int("jobs", defaults.Jobs, "Number of job openings")
		applicants = flag.Int("applicants", defaults.ApplicantsPerJob, "Upper bound of applicants per opening")
		from       = flag.String("from", defaults.Window.From.Format(model.DateLayout), "Start of the posting window")
		to         = flag.String("to", defaults.Window.To.Format(model.DateLayout), "End of the posting window")
		channels   = flag.String("channels", strings.Join(defaults.Channels, ","), "Comma separated sourcing channels")
		out        = flag.String("out", "", "Output YAML file (default: stdout)")
	)
	flag.Parse()

	// Logs go to stderr so the snapshot can be piped from stdout.
	if err := logger.InitWith(os.Stderr, "text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	window, err := model.NewWindow(*from, *to)
	if err != nil {
		fail(err)
	}
	cfg := sampledata.Config{
		Seed:             *seed,
		Window:           window,
		Jobs:             *jobs,
		ApplicantsPerJob: *applicants,
		Channels:         splitChannels(*channels),
	}

	if err := run(context.Background(), cfg, *out); err != nil {
		fail(err)
	}
}

func run(ctx context.Context, cfg sampledata.Config, out string) error {
	snap, err := sampledata.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Get().Error(ctx, "failed to close output file", logger.Error(err))
			}
		}()
		w = f
	}

	if err := repository.EncodeSnapshot(w, snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if out != "" {
		logger.Get().Info(ctx, "snapshot written", logger.String("path", out))
	}
	return nil
}

func splitChannels(s string) []string {
	var out []string
	for _, ch := range strings.Split(s, ",") {
		if ch = strings.TrimSpace(ch); ch != "" {
			out = append(out, ch)
		}
	}
	return out
}

func fail(err error) {
	logger.Get().Error(context.Background(), "gen-snapshot failed", logger.Error(err))
	os.Exit(1)
}
