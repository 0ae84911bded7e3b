package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tetra-simulator/simulation"
)

func TestRunSimulationPrintsOneLine(t *testing.T) {
	tests := []struct {
		experiment simulation.Experiment
		wants      []string
	}{
		{simulation.Tetrahedron, []string{"S^2", "1/8", "(0.125)"}},
		{simulation.Triangle, []string{"1/4", "(0.25)"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.experiment), func(t *testing.T) {
			var out bytes.Buffer
			cfg := simulation.Config{Experiment: tt.experiment, Trials: 20000, Workers: 2, Seed: 7}
			res, err := runSimulation(context.Background(), cfg, &out)
			if err != nil {
				t.Fatalf("runSimulation: %v", err)
			}
			if res.Trials != 20000 {
				t.Errorf("ran %d trials, want 20000", res.Trials)
			}

			s := out.String()
			if strings.Count(s, "\n") != 1 || !strings.HasSuffix(s, "\n") {
				t.Fatalf("output %q is not a single line", s)
			}
			for _, want := range tt.wants {
				if !strings.Contains(s, want) {
					t.Errorf("%q does not contain %q", s, want)
				}
			}
		})
	}
}

func TestRunSimulationInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := runSimulation(ctx, simulation.Config{Experiment: simulation.Tetrahedron, Trials: 100000, Workers: 1, Seed: 7}, &out)
	if err != nil {
		t.Errorf("interrupted run returned %v", err)
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("interrupted run printed %q", out.String())
	}
}

func TestRunSimulationInvalidConfig(t *testing.T) {
	var out bytes.Buffer
	_, err := runSimulation(context.Background(), simulation.Config{Experiment: simulation.Tetrahedron, Workers: 1}, &out)
	if !errors.Is(err, simulation.ErrInvalidTrials) {
		t.Errorf("runSimulation() error = %v, want ErrInvalidTrials", err)
	}
	if out.Len() != 0 {
		t.Errorf("failed run printed %q", out.String())
	}
}
