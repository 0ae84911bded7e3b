package simulation

import (
	"fmt"
	"sort"

	"tetra-simulator/geom"
	"tetra-simulator/sampler"
)

// Experiment names a random shape whose chance of containing the origin is
// estimated.
type Experiment string

const (
	Tetrahedron Experiment = "tetrahedron"
	Triangle    Experiment = "triangle"
)

// TrialFunc runs one independent trial, drawing from src.
type TrialFunc func(src sampler.Source) bool

type experiment struct {
	trial     TrialFunc
	reference float64
	label     string
	fraction  string
}

var experiments = map[Experiment]experiment{
	Tetrahedron: {
		trial:     TetrahedronTrial,
		reference: 1.0 / 8.0,
		label:     "tetrahedron determined by 4 randomly chosen points on S^2",
		fraction:  "1/8",
	},
	Triangle: {
		trial:     TriangleTrial,
		reference: 1.0 / 4.0,
		label:     "triangle determined by 3 randomly chosen points on S^1",
		fraction:  "1/4",
	},
}

// TetrahedronTrial samples four sphere points and reports whether their
// tetrahedron contains the origin.
func TetrahedronTrial(src sampler.Source) bool {
	return geom.OriginInTetrahedron(sampler.Tetrahedron(src))
}

// TriangleTrial samples three circle points and reports whether their
// triangle contains the origin.
func TriangleTrial(src sampler.Source) bool {
	p := sampler.Triangle(src)
	return geom.OriginInTriangle(p[0], p[1], p[2])
}

// Trial returns the trial function of e.
func (e Experiment) Trial() (TrialFunc, error) {
	x, ok := experiments[e]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExperiment, e)
	}
	return x.trial, nil
}

// Reference returns the exact probability that e estimates, or 0 for an
// unknown experiment.
func (e Experiment) Reference() float64 {
	return experiments[e].reference
}

// Experiments lists the known experiment names in sorted order.
func Experiments() []string {
	names := make([]string, 0, len(experiments))
	for e := range experiments {
		names = append(names, string(e))
	}
	sort.Strings(names)
	return names
}
