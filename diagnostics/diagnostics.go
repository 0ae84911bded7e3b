// Package diagnostics checks the sphere sampler's output distribution by
// histogramming the coordinates of many samples.
//
// By Archimedes' hat-box theorem each coordinate of a uniform point on the
// unit sphere is itself uniform on [-1, 1], so every histogram should come out
// flat with mean 0 and standard deviation 1/sqrt(3).
package diagnostics

import (
	"fmt"
	"math"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"tetra-simulator/sampler"
)

// ExpectedStdDev is the standard deviation of a uniform variable on [-1, 1].
var ExpectedStdDev = 1 / math.Sqrt(3)

var axes = [3]string{"x", "y", "z"}

// Histograms holds one coordinate histogram per axis.
type Histograms struct {
	Axes [3]*hbook.H1D

	samples      int
	maxNormError float64
}

// Report summarizes a batch of samples.
type Report struct {
	Samples      int        `json:"samples"`
	Mean         [3]float64 `json:"mean"`
	StdDev       [3]float64 `json:"std_dev"`
	Flatness     [3]float64 `json:"flatness"`
	MaxNormError float64    `json:"max_norm_error"`
}

// Sample draws n sphere points from src and fills bins-wide histograms of
// their coordinates.
func Sample(src sampler.Source, n, bins int) (*Histograms, error) {
	if n <= 0 || bins <= 0 {
		return nil, fmt.Errorf("diagnostics: need positive samples and bins, got %d and %d", n, bins)
	}

	h := &Histograms{samples: n}
	for i := range h.Axes {
		h.Axes[i] = hbook.NewH1D(bins, -1, 1)
	}

	for i := 0; i < n; i++ {
		p := sampler.SpherePoint(src)
		h.Axes[0].Fill(float64(p.X), 1)
		h.Axes[1].Fill(float64(p.Y), 1)
		h.Axes[2].Fill(float64(p.Z), 1)

		if e := math.Abs(float64(p.Len()) - 1); e > h.maxNormError {
			h.maxNormError = e
		}
	}
	return h, nil
}

// Report computes the moments and flatness of every axis.
func (h *Histograms) Report() Report {
	r := Report{Samples: h.samples, MaxNormError: h.maxNormError}
	for i, a := range h.Axes {
		r.Mean[i] = a.XMean()
		r.StdDev[i] = a.XStdDev()
		r.Flatness[i] = flatness(a, h.samples)
	}
	return r
}

// flatness returns the largest relative deviation of a bin from the count a
// uniform distribution would put there.
func flatness(h *hbook.H1D, n int) float64 {
	bins := h.Binning.Bins
	want := float64(n) / float64(len(bins))
	worst := 0.0
	for _, b := range bins {
		if d := math.Abs(b.SumW()-want) / want; d > worst {
			worst = d
		}
	}
	return worst
}

// Print writes a human readable version of r to stdout.
func (r Report) Print() {
	fmt.Printf("Sampler diagnostics over %d points (max | |p|-1 | = %.2g)\n", r.Samples, r.MaxNormError)
	for i, name := range axes {
		fmt.Printf("  %s: mean=% .5f std-dev=%.5f (want %.5f) flatness=%.2f%%\n",
			name, r.Mean[i], r.StdDev[i], ExpectedStdDev, r.Flatness[i]*100)
	}
}

// SavePlots writes one PNG per axis into dir and returns their paths.
func (h *Histograms) SavePlots(dir string) ([]string, error) {
	var files []string
	for i, a := range h.Axes {
		p := hplot.New()
		p.Title.Text = fmt.Sprintf("sphere sample %s coordinate", axes[i])
		p.X.Label.Text = axes[i]
		p.Y.Label.Text = "entries"
		p.Add(hplot.NewH1D(a), hplot.NewGrid())

		fname := filepath.Join(dir, fmt.Sprintf("sphere-%s.png", axes[i]))
		if err := p.Save(10*vg.Centimeter, -1, fname); err != nil {
			return files, fmt.Errorf("diagnostics: saving %s: %w", fname, err)
		}
		files = append(files, fname)
	}
	return files, nil
}
