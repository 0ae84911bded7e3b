package evaluation

import (
	"context"
	"fmt"
	"math"
	"time"

	"tetra-simulator/metrics"
	"tetra-simulator/simulation"
)

// BenchmarkResult contains the results of one measured simulation run
type BenchmarkResult struct {
	Name            string                `json:"name"`
	RunID           string                `json:"run_id"`
	Experiment      simulation.Experiment `json:"experiment"`
	Workers         int                   `json:"workers"`
	Trials          int64                 `json:"trials"`
	Duration        time.Duration         `json:"duration"`
	TrialsPerSecond float64               `json:"trials_per_second"`
	Estimate        float64               `json:"estimate"`
	StdErr          float64               `json:"std_err"`
	Deviation       float64               `json:"deviation"`
	AvgBatchLatency time.Duration         `json:"avg_batch_latency"`
	PeakMemoryMB    float64               `json:"peak_memory_mb"`
	MaxGoroutines   int                   `json:"max_goroutines"`
	GCPauseTimeMs   float64               `json:"gc_pause_time_ms"`
}

// ConcurrencyComparison compares a sequential run with a parallel one of the
// same size and seed
type ConcurrencyComparison struct {
	SequentialResult BenchmarkResult `json:"sequential_result"`
	ConcurrentResult BenchmarkResult `json:"concurrent_result"`
	SpeedupRatio     float64         `json:"speedup_ratio"`
	Efficiency       float64         `json:"efficiency"`
	EstimateGap      float64         `json:"estimate_gap"`
}

// ConvergencePoint is one row of a convergence study
type ConvergencePoint struct {
	Trials           int     `json:"trials"`
	Estimate         float64 `json:"estimate"`
	StdErr           float64 `json:"std_err"`
	AbsError         float64 `json:"abs_error"`
	WithinThreeSigma bool    `json:"within_three_sigma"`
}

// RunBenchmark runs one simulation while sampling runtime metrics
func RunBenchmark(ctx context.Context, cfg simulation.Config) (BenchmarkResult, error) {
	fmt.Printf("Running %s benchmark: %d trials on %d worker(s)\n", cfg.Experiment, cfg.Trials, cfg.Workers)

	collector := metrics.NewMetricsCollector()
	cfg.Recorder = collector

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector.Start()
	collector.TakeSnapshot()

	// Take periodic snapshots until the run finishes
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				collector.TakeSnapshot()
			}
		}
	}()

	res, err := simulation.Run(runCtx, cfg)
	cancel()
	<-done

	collector.TakeSnapshot()
	collector.Stop()
	if err != nil {
		return BenchmarkResult{}, err
	}

	m := collector.GetMetrics()
	return BenchmarkResult{
		Name:            fmt.Sprintf("%s_%d_workers", cfg.Experiment, cfg.Workers),
		RunID:           res.RunID,
		Experiment:      res.Experiment,
		Workers:         res.Workers,
		Trials:          res.Trials,
		Duration:        res.Duration,
		TrialsPerSecond: float64(res.Trials) / res.Duration.Seconds(),
		Estimate:        res.Estimate,
		StdErr:          res.StdErr,
		Deviation:       res.Deviation(),
		AvgBatchLatency: m.AvgBatchLatency,
		PeakMemoryMB:    float64(m.PeakMemoryUsage) / 1024 / 1024,
		MaxGoroutines:   m.MaxGoroutines,
		GCPauseTimeMs:   float64(m.TotalGCPauses) / 1e6,
	}, nil
}

// RunConcurrencyComparison runs the same experiment sequentially and on
// several workers
func RunConcurrencyComparison(ctx context.Context, experiment simulation.Experiment, trials, workers int, seed int64) (ConcurrencyComparison, error) {
	fmt.Printf("\n=== Running Concurrency Comparison ===\n")

	cfg := simulation.Config{Experiment: experiment, Trials: trials, Workers: 1, Seed: seed}
	sequential, err := RunBenchmark(ctx, cfg)
	if err != nil {
		return ConcurrencyComparison{}, fmt.Errorf("sequential run: %w", err)
	}

	cfg.Workers = workers
	concurrent, err := RunBenchmark(ctx, cfg)
	if err != nil {
		return ConcurrencyComparison{}, fmt.Errorf("concurrent run: %w", err)
	}

	speedup := 1.0
	if concurrent.Duration > 0 {
		speedup = float64(sequential.Duration) / float64(concurrent.Duration)
	}

	return ConcurrencyComparison{
		SequentialResult: sequential,
		ConcurrentResult: concurrent,
		SpeedupRatio:     speedup,
		Efficiency:       speedup / float64(workers),
		EstimateGap:      concurrent.Estimate - sequential.Estimate,
	}, nil
}

// RunConvergenceStudy estimates the experiment at every trial count and
// checks each estimate against the exact value
func RunConvergenceStudy(ctx context.Context, experiment simulation.Experiment, trialCounts []int, workers int, seed int64) ([]ConvergencePoint, error) {
	fmt.Printf("\n=== Running Convergence Study ===\n")

	points := make([]ConvergencePoint, 0, len(trialCounts))
	for _, n := range trialCounts {
		res, err := simulation.Run(ctx, simulation.Config{Experiment: experiment, Trials: n, Workers: workers, Seed: seed})
		if err != nil {
			return points, fmt.Errorf("%d trials: %w", n, err)
		}

		abs := math.Abs(res.Deviation())
		points = append(points, ConvergencePoint{
			Trials:           n,
			Estimate:         res.Estimate,
			StdErr:           res.StdErr,
			AbsError:         abs,
			WithinThreeSigma: abs <= 3*math.Sqrt(res.Reference*(1-res.Reference)/float64(n)),
		})
	}
	return points, nil
}

// PrintComparisonReport prints a detailed comparison report
func PrintComparisonReport(c ConcurrencyComparison) {
	fmt.Printf("\n========== CONCURRENCY COMPARISON REPORT ==========\n")
	for _, r := range []BenchmarkResult{c.SequentialResult, c.ConcurrentResult} {
		fmt.Printf("%s:\n", r.Name)
		fmt.Printf("  - Trials/Second: %.2f\n", r.TrialsPerSecond)
		fmt.Printf("  - Estimate: %.6f ± %.6f (deviation %+.6f)\n", r.Estimate, r.StdErr, r.Deviation)
		fmt.Printf("  - Average Batch Latency: %v\n", r.AvgBatchLatency)
		fmt.Printf("  - Peak Memory: %.2f MB\n", r.PeakMemoryMB)
		fmt.Printf("  - Max Goroutines: %d\n", r.MaxGoroutines)
		fmt.Printf("  - GC Pause Time: %.2f ms\n", r.GCPauseTimeMs)
	}

	fmt.Printf("\nComparison Results:\n")
	fmt.Printf("  - Speedup Ratio: %.2fx\n", c.SpeedupRatio)
	fmt.Printf("  - Parallel Efficiency: %.2f%%\n", c.Efficiency*100)
	fmt.Printf("  - Estimate Gap: %+.6f\n", c.EstimateGap)
	fmt.Printf("==================================================\n")
}

// PrintConvergenceReport prints one line per convergence point
func PrintConvergenceReport(points []ConvergencePoint) {
	fmt.Printf("%-12s %-12s %-12s %-12s %-8s\n", "Trials", "Estimate", "StdErr", "AbsError", "3-sigma")
	for _, p := range points {
		fmt.Printf("%-12d %-12.6f %-12.6f %-12.6f %-8t\n", p.Trials, p.Estimate, p.StdErr, p.AbsError, p.WithinThreeSigma)
	}
}
