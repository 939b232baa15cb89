package suite

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/psantana5/encoder-quality/internal/asset"
	"github.com/psantana5/encoder-quality/internal/encoder"
)

// Config describes one suite: an asset set plus everything its jobs need.
type Config struct {
	// Name of the suite; also the output subdirectory.
	Name string
	// Assets are the entries every encoder run of this suite will test.
	Assets []asset.Entry
	// Workers bounds parallel jobs.
	Workers int
	// Timeout applies to each encode independently.
	Timeout time.Duration
	// FailFast stops the run at the first non-passing result.
	FailFast bool
	// Quiet suppresses per-result lines.
	Quiet bool
	// Scorer scores every encoded output.
	Scorer Scorer
	// ResourcesDir holds the downloaded asset files.
	ResourcesDir string
	// OutputRoot is the parent of the suite's output directory.
	OutputRoot string
	// KeepFiles leaves encoded outputs behind for inspection.
	KeepFiles bool
	// Verbose forwards subprocess output.
	Verbose bool
	// Observer defaults to NopObserver.
	Observer Observer
	// Output receives progress lines; defaults to os.Stdout.
	Output io.Writer
}

// Suite runs one asset set against encoders, one encoder at a time.
type Suite struct {
	cfg       Config
	outputDir string
	observer  Observer
	out       io.Writer
}

// New builds a suite from cfg.
func New(cfg Config) *Suite {
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Suite{
		cfg:       cfg,
		outputDir: filepath.Join(cfg.OutputRoot, cfg.Name),
		observer:  observer,
		out:       out,
	}
}

// OutputDir returns the directory the suite encodes into.
func (s *Suite) OutputDir() string {
	return s.outputDir
}

// Run executes every asset of the suite against enc. An unavailable encoder
// skips cleanly with nil results and leaves the output directory untouched.
// Otherwise the output directory is reset so stale files from an earlier run
// of the same suite never leak into scoring.
func (s *Suite) Run(ctx context.Context, enc encoder.Encoder) ([]*Result, time.Duration, error) {
	if !enc.Check(ctx, s.cfg.Verbose) {
		fmt.Fprintf(s.out, "Skipping encoder %s because it cannot run\n", enc.Name())
		return nil, 0, nil
	}

	if err := os.RemoveAll(s.outputDir); err != nil {
		return nil, 0, fmt.Errorf("failed to reset output dir: %w", err)
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	jobs := make([]*Job, 0, len(s.cfg.Assets))
	for _, entry := range s.cfg.Assets {
		jobs = append(jobs, &Job{
			Encoder:      enc,
			Entry:        entry,
			Scorer:       s.cfg.Scorer,
			ResourcesDir: s.cfg.ResourcesDir,
			OutputDir:    s.outputDir,
			Timeout:      s.cfg.Timeout,
			KeepFiles:    s.cfg.KeepFiles,
			Verbose:      s.cfg.Verbose,
		})
	}

	fmt.Fprintf(s.out, "Running %s [%d tests] for encoder %s\n", s.cfg.Name, len(jobs), enc.Name())

	engine := NewEngine(EngineConfig{
		Workers:  s.cfg.Workers,
		FailFast: s.cfg.FailFast,
		Quiet:    s.cfg.Quiet,
		Observer: s.observer,
		Output:   s.out,
	})
	results, elapsed := engine.Run(ctx, jobs)

	fmt.Fprintf(s.out, "Ran %d tests in %.3f secs\n\n", len(results), elapsed.Seconds())
	s.observer.SuiteFinished(s.cfg.Name, len(results), elapsed)

	return results, elapsed, nil
}
