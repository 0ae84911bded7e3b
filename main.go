package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"

	"tetra-simulator/diagnostics"
	"tetra-simulator/metrics"
	"tetra-simulator/sampler"
	"tetra-simulator/simulation"
)

var (
	trials     = flag.Int("trials", simulation.DefaultTrials, "number of independent trials")
	workers    = flag.Int("workers", 1, "number of goroutines sharing the trials")
	seed       = flag.Int64("seed", 0, "root random seed (0 picks one from the clock)")
	experiment = flag.String("experiment", string(simulation.Tetrahedron), "experiment to run: "+strings.Join(simulation.Experiments(), ", "))
	progress   = flag.Bool("progress", false, "show a progress bar on stderr")
	exportPath = flag.String("export", "", "path to export the result and run metrics (JSON format)")
	verbose    = flag.Bool("verbose", false, "print run metrics after the result")
	diagnose   = flag.Int("diagnose", 0, "histogram this many sphere samples before the run")
	plotDir    = flag.String("plots", "", "directory for diagnostic histogram charts (needs -diagnose)")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg := simulation.Config{
		Experiment: simulation.Experiment(*experiment),
		Trials:     *trials,
		Workers:    *workers,
		Seed:       sampler.RootSeed(*seed),
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *diagnose > 0 {
		if err := runDiagnostics(cfg.Seed, *diagnose, *plotDir); err != nil {
			log.Fatalf("diagnostics: %v", err)
		}
	}

	// Interrupts stop the workers between batches
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var collector *metrics.MetricsCollector
	if *verbose || *exportPath != "" {
		collector = metrics.NewMetricsCollector()
		cfg.Recorder = collector
		collector.Start()
		collector.TakeSnapshot()
	}

	var bar *pb.ProgressBar
	if *progress {
		bar = pb.New(cfg.Trials)
		bar.SetWriter(os.Stderr)
		bar.Start()
		cfg.Progress = func(n int) { bar.Add(n) }
	}

	res, err := runSimulation(ctx, cfg, os.Stdout)

	if bar != nil {
		bar.Finish()
	}
	if collector != nil {
		collector.TakeSnapshot()
		collector.Stop()
	}

	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	if *verbose {
		fmt.Printf("run %s: seed %d, %d worker(s), %d/%d inside, std-err %.6f, %v\n",
			res.RunID, res.Seed, res.Workers, res.Successes, res.Trials, res.StdErr, res.Duration.Truncate(time.Millisecond))
		collector.PrintSummary()
	}

	if *exportPath != "" {
		if err := exportRun(res, collector, *exportPath); err != nil {
			log.Printf("export failed: %v", err)
		}
	}
}

// runSimulation runs cfg and writes the one line result to w. An interrupted
// run still reports the estimate over the trials it finished.
func runSimulation(ctx context.Context, cfg simulation.Config, w io.Writer) (simulation.Result, error) {
	res, err := simulation.Run(ctx, cfg)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return res, err
		}
		log.Printf("interrupted after %d of %d trials", res.Trials, cfg.Trials)
	}

	if _, err := fmt.Fprintln(w, res); err != nil {
		return res, err
	}
	return res, nil
}

// runExport is the JSON document written by -export.
type runExport struct {
	Result  simulation.Result          `json:"result"`
	Metrics metrics.PerformanceMetrics `json:"metrics"`
}

// exportRun saves the result and metrics to a JSON file
func exportRun(res simulation.Result, collector *metrics.MetricsCollector, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	data, err := json.MarshalIndent(runExport{Result: res, Metrics: collector.GetMetrics()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	log.Printf("run %s exported to %s", res.RunID, path)
	return nil
}

// runDiagnostics checks the sphere sampler on its own source and optionally
// renders the coordinate histograms
func runDiagnostics(root int64, n int, dir string) error {
	h, err := diagnostics.Sample(sampler.New(root), n, 50)
	if err != nil {
		return err
	}
	h.Report().Print()

	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files, err := h.SavePlots(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		log.Printf("chart saved to %s", f)
	}
	return nil
}
