package geom

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func approxEqual(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5*(1+math32.Abs(a)+math32.Abs(b))
}

var detCases = [][3]Vec3{
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}},
	{{0.3, -0.7, 0.2}, {-0.1, 0.4, 0.9}, {0.5, 0.5, -0.5}},
	{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}},
}

func TestDet3x3MatchesMatrixDeterminant(t *testing.T) {
	for i, tc := range detCases {
		a, b, c := tc[0], tc[1], tc[2]
		m := mgl32.Mat3FromCols(
			mgl32.Vec3{a.X, a.Y, a.Z},
			mgl32.Vec3{b.X, b.Y, b.Z},
			mgl32.Vec3{c.X, c.Y, c.Z},
		)
		got, want := Det3x3(a, b, c), m.Det()
		if !approxEqual(got, want) {
			t.Errorf("case %d: Det3x3 = %v, want %v", i, got, want)
		}
		// a·(b×c) is the same quantity
		if triple := a.Dot(b.Cross(c)); !approxEqual(got, triple) {
			t.Errorf("case %d: Det3x3 = %v, triple product %v", i, got, triple)
		}
	}
}

func TestDet3x3Antisymmetric(t *testing.T) {
	for i, tc := range detCases {
		a, b, c := tc[0], tc[1], tc[2]
		d := Det3x3(a, b, c)
		swaps := map[string]float32{
			"ab": Det3x3(b, a, c),
			"bc": Det3x3(a, c, b),
			"ac": Det3x3(c, b, a),
		}
		for name, s := range swaps {
			if !approxEqual(d, -s) {
				t.Errorf("case %d swap %s: got %v, want %v", i, name, s, -d)
			}
		}
	}
}

func regularTetrahedron() [4]Vec3 {
	return [4]Vec3{
		Vec3{1, 1, 1}.Norm(),
		Vec3{1, -1, -1}.Norm(),
		Vec3{-1, 1, -1}.Norm(),
		Vec3{-1, -1, 1}.Norm(),
	}
}

func TestOriginInTetrahedron(t *testing.T) {
	tests := []struct {
		name string
		p    [4]Vec3
		want bool
	}{
		{"regular", regularTetrahedron(), true},
		{"regular reversed", func() [4]Vec3 {
			r := regularTetrahedron()
			return [4]Vec3{r[3], r[2], r[1], r[0]}
		}(), true},
		{"corner", [4]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, Vec3{-1, -1, -1}.Norm()}, true},
		{"one hemisphere", [4]Vec3{{0, 0, 1}, {0.8, 0, 0.6}, {0, 0.8, 0.6}, {-0.48, -0.64, 0.6}}, false},
		{"shifted off origin", [4]Vec3{{1, 1, 1}, {2, 1, 1}, {1, 2, 1}, {1, 1, 2}}, false},
		// every weight is exactly zero, which groups with the negative side
		{"coplanar through origin", [4]Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OriginInTetrahedron(tt.p); got != tt.want {
				t.Errorf("OriginInTetrahedron(%v) = %v, want %v (weights %v)", tt.p, got, tt.want, TetrahedronWeights(tt.p))
			}
		})
	}
}

func TestCoplanarWeightsAreZero(t *testing.T) {
	w := TetrahedronWeights([4]Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}})
	for i, v := range w {
		if v != 0 {
			t.Errorf("weight %d = %v, want 0", i, v)
		}
	}
}

func TestRegularTetrahedronWeightsShareSign(t *testing.T) {
	w := TetrahedronWeights(regularTetrahedron())
	for i := 1; i < len(w); i++ {
		if !approxEqual(w[i], w[0]) {
			t.Errorf("weight %d = %v, want %v", i, w[i], w[0])
		}
	}
	if w[0] == 0 {
		t.Error("regular tetrahedron has zero signed volume")
	}
}

func circlePoint(theta float32) Vec2 {
	return Vec2{X: math32.Cos(theta), Y: math32.Sin(theta)}
}

func TestOriginInTriangle(t *testing.T) {
	third := float32(2 * math32.Pi / 3)
	tests := []struct {
		a, b, c Vec2
		want    bool
	}{
		{circlePoint(0), circlePoint(third), circlePoint(2 * third), true},
		{circlePoint(2 * third), circlePoint(third), circlePoint(0), true},
		{circlePoint(0), circlePoint(0.1), circlePoint(0.2), false},
		{circlePoint(-1), circlePoint(0), circlePoint(1), false},
		// origin on the edge a-b
		{Vec2{1, 0}, Vec2{-1, 0}, Vec2{0, 1}, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v %v %v", tt.a, tt.b, tt.c), func(t *testing.T) {
			if got := OriginInTriangle(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("got %v, want %v (weights %v)", got, tt.want, TriangleWeights(tt.a, tt.b, tt.c))
			}
		})
	}
}

func BenchmarkOriginInTetrahedron(b *testing.B) {
	p := regularTetrahedron()
	for i := 0; i < b.N; i++ {
		OriginInTetrahedron(p)
	}
}
