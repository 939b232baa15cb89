package suite

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Observer receives engine lifecycle events. Implementations must be safe
// for concurrent use; the metrics exporter and tests hook in here.
type Observer interface {
	// JobStarted fires when a worker picks up a job.
	JobStarted()
	// JobFinished fires with the completed result, from the worker that
	// ran it.
	JobFinished(r *Result)
	// SuiteFinished fires once per suite run with the collected totals.
	SuiteFinished(name string, results int, elapsed time.Duration)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) JobStarted()                              {}
func (NopObserver) JobFinished(*Result)                      {}
func (NopObserver) SuiteFinished(string, int, time.Duration) {}

// EngineConfig configures a run of the execution engine.
type EngineConfig struct {
	// Workers bounds parallel jobs; values below 1 are clamped to 1.
	Workers int
	// FailFast cancels the run on the first result that did not pass.
	FailFast bool
	// Quiet suppresses the per-result report lines.
	Quiet bool
	// Observer defaults to NopObserver.
	Observer Observer
	// Output receives report lines; defaults to os.Stdout.
	Output io.Writer
}

// Engine runs jobs on a bounded worker pool. Workers hand finished results
// to a single collector goroutine, which owns the result slice and the
// fail-fast decision; nothing else touches either.
type Engine struct {
	workers  int
	failFast bool
	quiet    bool
	observer Observer
	out      io.Writer
}

// NewEngine builds an engine from cfg.
func NewEngine(cfg EngineConfig) *Engine {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	return &Engine{
		workers:  workers,
		failFast: cfg.FailFast,
		quiet:    cfg.Quiet,
		observer: observer,
		out:      out,
	}
}

// Run executes jobs and returns the collected results in completion order
// with the batch wall time. Without fail-fast there is one result per job;
// with it, scheduling stops at the first non-passing result while in-flight
// jobs drain into the collection.
func (e *Engine) Run(ctx context.Context, jobs []*Job) ([]*Result, time.Duration) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *Result)
	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup

	start := time.Now()

	go func() {
		defer close(results)

	schedule:
		for _, job := range jobs {
			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				break schedule
			}
			if runCtx.Err() != nil {
				break schedule
			}

			wg.Add(1)
			go func(j *Job) {
				defer wg.Done()
				defer func() { <-sem }()

				e.observer.JobStarted()
				r := j.Run(runCtx)
				e.observer.JobFinished(r)
				results <- r
			}(job)
		}
		wg.Wait()
	}()

	var collected []*Result
	for r := range results {
		collected = append(collected, r)
		if !e.quiet {
			fmt.Fprintln(e.out, r)
		}
		if e.failFast && !r.Passed() {
			cancel()
		}
	}

	return collected, time.Since(start)
}
