package simulation

import (
	"context"
	"math/rand"
	"time"

	"tetra-simulator/sampler"
)

// worker runs a fixed share of a simulation's trials from its own source.
type worker struct {
	ID     int
	Trials int
	rnd    *rand.Rand
}

func newWorker(id, trials int, seed int64) *worker {
	return &worker{
		ID:     id,
		Trials: trials,
		rnd:    sampler.New(seed),
	}
}

// run works through the worker's trials in batches, handing each batch's
// counts to sim. It stops between batches once ctx is done.
func (w *worker) run(ctx context.Context, sim *Sim) {
	for done := 0; done < w.Trials; {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n := min(batchSize, w.Trials-done)
		start := time.Now()

		var acc Accumulator
		for i := 0; i < n; i++ {
			acc.Add(sim.trial(w.rnd))
		}
		done += n

		sim.record(acc, time.Since(start))
	}
}
