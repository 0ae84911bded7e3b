package evaluation

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"tetra-simulator/geom"
	"tetra-simulator/sampler"
)

// AuditResult compares the single-precision containment test against exact
// orientation arithmetic over a batch of sampled tetrahedra.
type AuditResult struct {
	Samples       int     `json:"samples"`
	Disagreements int     `json:"disagreements"`
	FloatInside   int     `json:"float_inside"`
	ExactInside   int     `json:"exact_inside"`
	AgreementRate float64 `json:"agreement_rate"`
}

// toS2 widens v to float64 and rescales it to unit length, which s2's error
// bounds assume. Scaling leaves every orientation sign unchanged, but the
// rounding of Normalize means the audit is exact for the normalized points,
// not the float32 inputs, so a nearly flat sub-volume can still flip.
func toS2(v geom.Vec3) s2.Point {
	return s2.Point{Vector: r3.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}.Normalize()}
}

// ExactOriginInTetrahedron answers the same question as
// geom.OriginInTetrahedron using s2.RobustSign for every sub-volume. Exactly
// coplanar inputs are resolved by s2's symbolic perturbation rather than by
// the float tie rule, so the two can disagree there.
func ExactOriginInTetrahedron(p [4]geom.Vec3) bool {
	q := [4]s2.Point{toS2(p[0]), toS2(p[1]), toS2(p[2]), toS2(p[3])}
	signs := [4]int{
		int(s2.RobustSign(q[1], q[2], q[3])),
		-int(s2.RobustSign(q[0], q[2], q[3])),
		int(s2.RobustSign(q[0], q[1], q[3])),
		-int(s2.RobustSign(q[0], q[1], q[2])),
	}
	for i := 0; i+1 < len(signs); i++ {
		if (signs[i] > 0) != (signs[i+1] > 0) {
			return false
		}
	}
	return true
}

// PrecisionAudit samples n tetrahedra from src and counts how often the
// float32 predicate disagrees with the exact one.
func PrecisionAudit(src sampler.Source, n int) AuditResult {
	res := AuditResult{Samples: n}
	for i := 0; i < n; i++ {
		p := sampler.Tetrahedron(src)
		f, e := geom.OriginInTetrahedron(p), ExactOriginInTetrahedron(p)
		if f {
			res.FloatInside++
		}
		if e {
			res.ExactInside++
		}
		if f != e {
			res.Disagreements++
		}
	}
	if n > 0 {
		res.AgreementRate = 1 - float64(res.Disagreements)/float64(n)
	}
	return res
}

// PrintAuditReport prints the outcome of a precision audit
func PrintAuditReport(a AuditResult) {
	fmt.Printf("\n========== PRECISION AUDIT ==========\n")
	fmt.Printf("Samples: %d\n", a.Samples)
	fmt.Printf("Inside (float32): %d\n", a.FloatInside)
	fmt.Printf("Inside (exact):   %d\n", a.ExactInside)
	fmt.Printf("Disagreements: %d (agreement %.4f%%)\n", a.Disagreements, a.AgreementRate*100)
	fmt.Printf("=====================================\n")
}
