package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/encoder-quality/internal/asset"
	"github.com/psantana5/encoder-quality/internal/metrics"
	"github.com/psantana5/encoder-quality/internal/suite"
	"github.com/psantana5/encoder-quality/internal/sysinfo"
	"github.com/psantana5/encoder-quality/internal/vmaf"
)

var (
	runJobs          int
	runTimeout       int
	runFailFast      bool
	runQuiet         bool
	runAssetLists    []string
	runAssets        []string
	runSkipAssets    []string
	runEncoders      []string
	runKeep          bool
	runThreshold     float64
	runTimeThreshold float64
	runVerbose       bool
	runCatalog       string
	runMetricsPort   int
	runMetricsOut    string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"r"},
	Short:   "Run tests for encoders",
	Long: `Runs every selected asset against every selected encoder: each asset is
encoded, decoded back to y4m and scored against its source with VMAF on a
bounded worker pool.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", sysinfo.LogicalCores(),
		"number of parallel jobs to use, 0 means all logical cores")
	runCmd.Flags().IntVarP(&runTimeout, "timeout", "t", 350, "timeout in secs for each encoding")
	runCmd.Flags().BoolVar(&runFailFast, "fail-fast", false, "stop after the first fail")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "don't show every test run")
	runCmd.Flags().StringSliceVar(&runAssetLists, "asset-lists", nil, "run only the specific asset lists")
	runCmd.Flags().StringSliceVarP(&runAssets, "assets", "a", nil, "run only the specific assets")
	runCmd.Flags().StringSliceVar(&runSkipAssets, "skip-assets", nil, "skip the specific assets")
	runCmd.Flags().StringSliceVarP(&runEncoders, "encoders", "e", nil, "run only the specific encoders")
	runCmd.Flags().BoolVarP(&runKeep, "keep", "k", false, "keep output files generated during test")
	runCmd.Flags().Float64Var(&runThreshold, "threshold", 0,
		"exit with code 2 when any test fails or scores below this VMAF value (0 disables)")
	runCmd.Flags().Float64Var(&runTimeThreshold, "time-threshold", 0,
		"exit with code 3 when the whole run takes longer than this many seconds (0 disables)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "show stdout and stderr of executed commands")
	runCmd.Flags().StringVar(&runCatalog, "encoder-catalog", "", "YAML file with extra encoder variants")
	runCmd.Flags().IntVar(&runMetricsPort, "metrics-port", 0,
		"serve Prometheus metrics on this port while running (0 disables)")
	runCmd.Flags().StringVar(&runMetricsOut, "metrics-out", "",
		"write metrics in Prometheus text format to this file after the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()

	jobs := runJobs
	if jobs <= 0 {
		jobs = sysinfo.LogicalCores()
	}

	if runVerbose {
		fmt.Printf("NOTE: Internal dirs used:\n * assets_dir: %s\n * resources_dir: %s\n", assetsDir, resourcesDir)
		fmt.Printf("Host: %s\n", sysinfo.Detect())
	}

	vmafBinary, err := vmaf.Locate(resourcesDir)
	if err != nil {
		return err
	}
	log.Debug("located VMAF binary", map[string]interface{}{"path": vmafBinary})

	registry, err := buildRegistry(runCatalog)
	if err != nil {
		return err
	}
	encoders, err := registry.Match(runEncoders)
	if err != nil {
		return err
	}

	library := asset.NewLibrary(assetsDir, log)
	lists, err := library.Match(runAssetLists)
	if err != nil {
		return err
	}
	suiteName, entries, err := asset.BuildSet(lists, runAssets, runSkipAssets)
	if err != nil {
		return err
	}

	var observer suite.Observer = suite.NopObserver{}
	var collector *metrics.Collector
	if runMetricsPort > 0 || runMetricsOut != "" {
		collector = metrics.NewCollector()
		observer = collector
	}
	if runMetricsPort > 0 {
		server := metrics.NewServer(fmt.Sprintf(":%d", runMetricsPort), collector)
		go func() {
			log.Info("serving metrics", map[string]interface{}{"addr": server.Addr})
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer server.Close()
	}

	s := suite.New(suite.Config{
		Name:         suiteName,
		Assets:       entries,
		Workers:      jobs,
		Timeout:      time.Duration(runTimeout) * time.Second,
		FailFast:     runFailFast,
		Quiet:        runQuiet,
		Scorer:       &vmaf.Scorer{Binary: vmafBinary, Verbose: runVerbose},
		ResourcesDir: resourcesDir,
		OutputRoot:   outputDir,
		KeepFiles:    runKeep,
		Verbose:      runVerbose,
		Observer:     observer,
	})

	start := time.Now()
	var all []*suite.Result
	for _, enc := range encoders {
		if ctx.Err() != nil {
			break
		}
		results, _, err := s.Run(ctx, enc)
		if err != nil {
			return err
		}
		all = append(all, results...)
	}
	elapsed := time.Since(start)

	if collector != nil && runMetricsOut != "" {
		if err := dumpMetrics(collector, runMetricsOut); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}

	return evaluateThresholds(all, elapsed)
}

func dumpMetrics(c *metrics.Collector, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	if err := c.WriteText(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return f.Close()
}

// evaluateThresholds maps the collected results onto the documented exit
// codes: 2 when any test failed or scored below the quality threshold, 3
// when the run exceeded the time budget. Without thresholds, failed tests
// alone do not change the exit code.
func evaluateThresholds(results []*suite.Result, elapsed time.Duration) error {
	if runThreshold > 0 {
		below := 0
		for _, r := range results {
			if !r.Passed() || r.VMAFScore < runThreshold {
				below++
			}
		}
		if below > 0 {
			return &ExitCodeError{
				Code:    2,
				Message: fmt.Sprintf("%d of %d tests below VMAF threshold %.2f", below, len(results), runThreshold),
			}
		}
	}
	if runTimeThreshold > 0 && elapsed.Seconds() > runTimeThreshold {
		return &ExitCodeError{
			Code:    3,
			Message: fmt.Sprintf("run took %.3f secs, over the %.3f secs time threshold", elapsed.Seconds(), runTimeThreshold),
		}
	}
	return nil
}
