package simulation

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTrials is the number of trials of the reference run.
const DefaultTrials = 1000000

// batchSize is how many trials a worker runs between progress reports and
// cancellation checks.
const batchSize = 1 << 14

var (
	ErrInvalidTrials     = errors.New("trial count must be positive")
	ErrInvalidWorkers    = errors.New("worker count must be at least 1")
	ErrUnknownExperiment = errors.New("unknown experiment")
)

// Recorder receives per-batch statistics while a run is in progress.
type Recorder interface {
	RecordBatch(trials, successes int, elapsed time.Duration)
}

// Config describes one simulation run.
type Config struct {
	Experiment Experiment
	Trials     int
	// Workers above Trials are capped at Trials.
	Workers int
	// Seed roots every worker's random source. Zero picks a time based seed.
	Seed int64

	// Progress, if set, is called with the number of trials just finished.
	// It may be called from several goroutines at once.
	Progress func(n int)
	Recorder Recorder
}

// DefaultConfig returns the reference configuration: a million sequential
// tetrahedron trials.
func DefaultConfig() Config {
	return Config{
		Experiment: Tetrahedron,
		Trials:     DefaultTrials,
		Workers:    1,
	}
}

// Validate checks that c describes a runnable simulation.
func (c Config) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTrials, c.Trials)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if _, ok := experiments[c.Experiment]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExperiment, c.Experiment)
	}
	return nil
}
