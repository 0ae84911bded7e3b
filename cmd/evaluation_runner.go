package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"tetra-simulator/diagnostics"
	"tetra-simulator/evaluation"
	"tetra-simulator/sampler"
	"tetra-simulator/simulation"
)

var (
	outputDir       = flag.String("output", "evaluation_results", "output directory for results")
	fullBenchmark   = flag.Bool("full-benchmark", false, "run comprehensive benchmark suite")
	quickTest       = flag.Bool("quick", false, "run quick evaluation tests")
	convergenceTest = flag.Bool("convergence", false, "run convergence study")
	generateCharts  = flag.Bool("charts", true, "render sampler diagnostic charts")
	seed            = flag.Int64("seed", 0, "root seed (0 picks one from the clock)")
	workers         = flag.Int("workers", runtime.NumCPU(), "workers used by parallel runs")
)

func main() {
	flag.Parse()

	fmt.Println("========== Sphere Containment Simulator Evaluation Runner ==========")

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	root := sampler.RootSeed(*seed)
	fmt.Printf("Root seed: %d\n", root)

	ctx := context.Background()
	var err error
	switch {
	case *quickTest:
		err = runQuickEvaluation(ctx, root)
	case *convergenceTest:
		err = runConvergenceEvaluation(ctx, root)
	case *fullBenchmark:
		err = runFullBenchmarkSuite(ctx, root)
	default:
		err = runBasicComparison(ctx, root)
	}
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}

	if *generateCharts {
		if err := generateDiagnosticCharts(root); err != nil {
			log.Printf("charts: %v", err)
		}
	}

	fmt.Printf("\nEvaluation completed. Results saved to: %s\n", *outputDir)
}

// runBasicComparison runs a sequential vs parallel comparison at the default size
func runBasicComparison(ctx context.Context, root int64) error {
	fmt.Println("\n=== Running Basic Concurrency Comparison ===")

	comparison, err := evaluation.RunConcurrencyComparison(ctx, simulation.Tetrahedron, simulation.DefaultTrials, *workers, root)
	if err != nil {
		return err
	}
	evaluation.PrintComparisonReport(comparison)
	return saveJSON(comparison, "basic_comparison.json")
}

// runQuickEvaluation runs small benchmarks of both experiments for rapid feedback
func runQuickEvaluation(ctx context.Context, root int64) error {
	fmt.Println("\n=== Running Quick Evaluation Tests ===")

	tests := []struct {
		name       string
		experiment simulation.Experiment
		trials     int
	}{
		{"Small", simulation.Tetrahedron, 10000},
		{"Medium", simulation.Tetrahedron, 100000},
		{"Triangle", simulation.Triangle, 100000},
	}

	var results []evaluation.BenchmarkResult
	for _, test := range tests {
		fmt.Printf("Running %s test (%d trials)...\n", test.name, test.trials)
		result, err := evaluation.RunBenchmark(ctx, simulation.Config{
			Experiment: test.experiment,
			Trials:     test.trials,
			Workers:    *workers,
			Seed:       root,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", test.name, err)
		}
		results = append(results, result)

		fmt.Printf("  - Estimate: %.6f (deviation %+.6f)\n", result.Estimate, result.Deviation)
		fmt.Printf("  - Throughput: %.2f trials/sec\n", result.TrialsPerSecond)
		fmt.Printf("  - Memory: %.2f MB\n", result.PeakMemoryMB)
	}

	return saveJSON(results, "quick_evaluation.json")
}

// runConvergenceEvaluation shows the estimate tightening as trials grow
func runConvergenceEvaluation(ctx context.Context, root int64) error {
	fmt.Println("\n=== Running Convergence Evaluation ===")

	counts := []int{1000, 10000, 100000, 1000000, 10000000}
	studies := make(map[simulation.Experiment][]evaluation.ConvergencePoint)
	for _, e := range []simulation.Experiment{simulation.Tetrahedron, simulation.Triangle} {
		points, err := evaluation.RunConvergenceStudy(ctx, e, counts, *workers, root)
		if err != nil {
			return fmt.Errorf("%s: %w", e, err)
		}
		fmt.Printf("\n%s (exact %.4f):\n", e, e.Reference())
		evaluation.PrintConvergenceReport(points)
		studies[e] = points
	}

	return saveJSON(studies, "convergence_evaluation.json")
}

// runFullBenchmarkSuite runs comparisons at several scales, a worker sweep
// and a precision audit
func runFullBenchmarkSuite(ctx context.Context, root int64) error {
	fmt.Println("\n=== Running Full Benchmark Suite ===")

	fmt.Println("1. Concurrency Comparison Tests...")
	comparisons := make(map[string]evaluation.ConcurrencyComparison)
	scales := []struct {
		name   string
		trials int
	}{
		{"Small", 100000},
		{"Medium", 1000000},
		{"Large", 10000000},
	}
	for _, s := range scales {
		fmt.Printf("  Running %s scale test...\n", s.name)
		c, err := evaluation.RunConcurrencyComparison(ctx, simulation.Tetrahedron, s.trials, *workers, root)
		if err != nil {
			return fmt.Errorf("%s scale: %w", s.name, err)
		}
		comparisons[s.name] = c
		fmt.Printf("    Speedup: %.2fx, Efficiency: %.2f%%\n", c.SpeedupRatio, c.Efficiency*100)
	}

	fmt.Println("\n2. Worker Sweep...")
	var sweep []evaluation.BenchmarkResult
	for w := 1; w <= 2*runtime.NumCPU(); w *= 2 {
		r, err := evaluation.RunBenchmark(ctx, simulation.Config{
			Experiment: simulation.Tetrahedron,
			Trials:     simulation.DefaultTrials,
			Workers:    w,
			Seed:       root,
		})
		if err != nil {
			return fmt.Errorf("sweep with %d workers: %w", w, err)
		}
		sweep = append(sweep, r)
	}

	fmt.Println("\n3. Precision Audit...")
	audit := evaluation.PrecisionAudit(sampler.New(root), 1000000)
	evaluation.PrintAuditReport(audit)

	if err := saveJSON(comparisons, "full_benchmark_comparison.json"); err != nil {
		return err
	}
	if err := saveJSON(sweep, "full_benchmark_sweep.json"); err != nil {
		return err
	}
	if err := saveJSON(audit, "full_benchmark_audit.json"); err != nil {
		return err
	}
	return generateBenchmarkReport(comparisons, sweep, audit)
}

// saveJSON writes v as indented JSON into the output directory
func saveJSON(v interface{}, filename string) error {
	path := filepath.Join(*outputDir, filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filename, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Results saved to: %s\n", path)
	return nil
}

// generateDiagnosticCharts histograms sampler output and renders one chart per axis
func generateDiagnosticCharts(root int64) error {
	fmt.Println("\n=== Generating Sampler Diagnostic Charts ===")

	h, err := diagnostics.Sample(sampler.New(root), 1000000, 100)
	if err != nil {
		return err
	}
	h.Report().Print()

	chartsDir := filepath.Join(*outputDir, "charts")
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return err
	}
	files, err := h.SavePlots(chartsDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("Chart saved to: %s\n", f)
	}
	return saveJSON(h.Report(), "sampler_diagnostics.json")
}

// generateBenchmarkReport creates a plain text report of the full suite
func generateBenchmarkReport(
	comparisons map[string]evaluation.ConcurrencyComparison,
	sweep []evaluation.BenchmarkResult,
	audit evaluation.AuditResult,
) error {
	reportPath := filepath.Join(*outputDir, "benchmark_report.txt")

	file, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Sphere Containment Simulator - Benchmark Report\n")
	fmt.Fprintf(file, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(file, "===============================================\n\n")

	fmt.Fprintf(file, "CONCURRENCY COMPARISON RESULTS\n")
	fmt.Fprintf(file, "------------------------------\n")
	for _, name := range []string{"Small", "Medium", "Large"} {
		comp, ok := comparisons[name]
		if !ok {
			continue
		}
		fmt.Fprintf(file, "%s Scale (%d trials):\n", name, comp.SequentialResult.Trials)
		fmt.Fprintf(file, "  Sequential: %.2f trials/sec, estimate %.6f\n",
			comp.SequentialResult.TrialsPerSecond, comp.SequentialResult.Estimate)
		fmt.Fprintf(file, "  Concurrent: %.2f trials/sec, estimate %.6f\n",
			comp.ConcurrentResult.TrialsPerSecond, comp.ConcurrentResult.Estimate)
		fmt.Fprintf(file, "  Speedup: %.2fx, Efficiency: %.2f%%\n\n",
			comp.SpeedupRatio, comp.Efficiency*100)
	}

	fmt.Fprintf(file, "WORKER SWEEP\n")
	fmt.Fprintf(file, "------------\n")
	fmt.Fprintf(file, "Workers  Trials/Sec    Estimate  Memory(MB)\n")
	for _, r := range sweep {
		fmt.Fprintf(file, "%-7d  %-12.2f  %.6f  %.2f\n", r.Workers, r.TrialsPerSecond, r.Estimate, r.PeakMemoryMB)
	}

	fmt.Fprintf(file, "\nPRECISION AUDIT\n")
	fmt.Fprintf(file, "---------------\n")
	fmt.Fprintf(file, "Samples: %d, disagreements: %d, agreement: %.4f%%\n",
		audit.Samples, audit.Disagreements, audit.AgreementRate*100)

	fmt.Printf("Comprehensive report saved to: %s\n", reportPath)
	return nil
}
