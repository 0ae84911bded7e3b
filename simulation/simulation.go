package simulation

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tetra-simulator/sampler"
)

// Accumulator counts successful trials out of a total.
type Accumulator struct {
	Successes int64
	Trials    int64
}

// Add records the outcome of one trial.
func (a *Accumulator) Add(ok bool) {
	a.Trials++
	if ok {
		a.Successes++
	}
}

// Merge folds the counts of b into a.
func (a *Accumulator) Merge(b Accumulator) {
	a.Successes += b.Successes
	a.Trials += b.Trials
}

// Estimate returns the fraction of successful trials, or 0 before any trial.
func (a Accumulator) Estimate() float64 {
	if a.Trials == 0 {
		return 0
	}
	return float64(a.Successes) / float64(a.Trials)
}

// StdErr returns the binomial standard error of the estimate.
func (a Accumulator) StdErr() float64 {
	if a.Trials == 0 {
		return 0
	}
	p := a.Estimate()
	return math.Sqrt(p * (1 - p) / float64(a.Trials))
}

// Result is the outcome of a run.
type Result struct {
	RunID      string        `json:"run_id"`
	Experiment Experiment    `json:"experiment"`
	Seed       int64         `json:"seed"`
	Workers    int           `json:"workers"`
	Trials     int64         `json:"trials"`
	Successes  int64         `json:"successes"`
	Estimate   float64       `json:"estimate"`
	StdErr     float64       `json:"std_err"`
	Reference  float64       `json:"reference"`
	Duration   time.Duration `json:"duration"`
}

// Deviation returns how far the estimate lies from the exact probability.
func (r Result) Deviation() float64 {
	return r.Estimate - r.Reference
}

func (r Result) String() string {
	x := experiments[r.Experiment]
	return fmt.Sprintf("probability that the %s contains the origin %v. Which is very close to %s (%v)",
		x.label, float32(r.Estimate), x.fraction, r.Reference)
}

// Sim holds the shared state of a run. Workers add their partial counts to
// it as they finish batches. A Sim is meant to be run once.
type Sim struct {
	cfg       Config
	seed      int64
	trial     TrialFunc
	workers   []*worker
	trials    int64
	successes int64
}

// New prepares a run described by cfg.
func New(cfg Config) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	trial, err := cfg.Experiment.Trial()
	if err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:   cfg,
		seed:  sampler.RootSeed(cfg.Seed),
		trial: trial,
	}

	// No worker is started without a trial to run.
	workers := min(cfg.Workers, cfg.Trials)

	// Split the trials evenly; the last worker takes the remainder.
	per := cfg.Trials / workers
	rem := cfg.Trials % workers
	for i := 0; i < workers; i++ {
		n := per
		if i == workers-1 {
			n += rem
		}
		s.workers = append(s.workers, newWorker(i, n, sampler.DeriveSeed(s.seed, i)))
	}
	return s, nil
}

// Seed returns the root seed of the run.
func (s *Sim) Seed() int64 {
	return s.seed
}

// Counts returns the trials and successes recorded so far.
func (s *Sim) Counts() Accumulator {
	return Accumulator{
		Successes: atomic.LoadInt64(&s.successes),
		Trials:    atomic.LoadInt64(&s.trials),
	}
}

func (s *Sim) record(acc Accumulator, elapsed time.Duration) {
	atomic.AddInt64(&s.trials, acc.Trials)
	atomic.AddInt64(&s.successes, acc.Successes)
	if s.cfg.Recorder != nil {
		s.cfg.Recorder.RecordBatch(int(acc.Trials), int(acc.Successes), elapsed)
	}
	if s.cfg.Progress != nil {
		s.cfg.Progress(int(acc.Trials))
	}
}

// Run executes every worker's share of trials. When ctx is cancelled first,
// Run returns the partial result together with ctx.Err().
func (s *Sim) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	var wg sync.WaitGroup
	for _, w := range s.workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.run(ctx, s)
		}(w)
	}
	wg.Wait()

	acc := s.Counts()
	res := Result{
		RunID:      uuid.NewString(),
		Experiment: s.cfg.Experiment,
		Seed:       s.seed,
		Workers:    len(s.workers),
		Trials:     acc.Trials,
		Successes:  acc.Successes,
		Estimate:   acc.Estimate(),
		StdErr:     acc.StdErr(),
		Reference:  s.cfg.Experiment.Reference(),
		Duration:   time.Since(start),
	}
	if acc.Trials < int64(s.cfg.Trials) {
		return res, ctx.Err()
	}
	return res, nil
}

// Run prepares and executes a run in one call.
func Run(ctx context.Context, cfg Config) (Result, error) {
	s, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	return s.Run(ctx)
}
