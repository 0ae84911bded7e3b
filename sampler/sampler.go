// Package sampler draws uniformly distributed points on the unit sphere and
// the unit circle from an explicitly passed random source.
package sampler

import (
	"math/rand"

	"github.com/chewxy/math32"

	"tetra-simulator/geom"
)

// Source is the random stream a sampler draws from. *rand.Rand satisfies it.
type Source interface {
	// Float32 returns a uniform value in [0, 1).
	Float32() float32
}

// New returns a source seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SpherePoint draws one point uniformly distributed over the surface of the
// unit sphere. It consumes exactly two values from src.
func SpherePoint(src Source) geom.Vec3 {
	x, y := src.Float32(), src.Float32()

	// cos(phi) must be uniform on [-1, 1] for equal area.
	phi := math32.Acos(2*x - 1)
	theta := 2 * math32.Pi * y

	sinPhi := math32.Sin(phi)
	return geom.Vec3{
		X: math32.Cos(theta) * sinPhi,
		Y: math32.Sin(theta) * sinPhi,
		Z: math32.Cos(phi),
	}
}

// Tetrahedron draws four independent sphere points.
func Tetrahedron(src Source) [4]geom.Vec3 {
	var p [4]geom.Vec3
	for i := range p {
		p[i] = SpherePoint(src)
	}
	return p
}

// CirclePoint draws one point uniformly distributed on the unit circle,
// with the angle taken from [-pi, pi).
func CirclePoint(src Source) geom.Vec2 {
	theta := -math32.Pi + 2*math32.Pi*src.Float32()
	return geom.Vec2{X: math32.Cos(theta), Y: math32.Sin(theta)}
}

// Triangle draws three independent circle points.
func Triangle(src Source) [3]geom.Vec2 {
	var p [3]geom.Vec2
	for i := range p {
		p[i] = CirclePoint(src)
	}
	return p
}
