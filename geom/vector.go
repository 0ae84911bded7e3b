// Package geom provides the single-precision vector types and orientation
// predicates used by the simulator.
package geom

import "github.com/chewxy/math32"

// Vec3 represents a point or vector in 3-dimensional space.
type Vec3 struct {
	X float32
	Y float32
	Z float32
}

// Vec2 represents a point or vector in the plane.
type Vec2 struct {
	X float32
	Y float32
}

// Dot returns the dot product of the vectors a and b.
func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product of the vectors a and b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{X: a.Y*b.Z - a.Z*b.Y, Y: a.Z*b.X - a.X*b.Z, Z: a.X*b.Y - a.Y*b.X}
}

// Len returns the length of the vector a.
func (a Vec3) Len() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Norm returns the normalized form of the vector a.
func (a Vec3) Norm() Vec3 {
	l := a.Len()
	return Vec3{X: a.X / l, Y: a.Y / l, Z: a.Z / l}
}

// Len returns the length of the vector a.
func (a Vec2) Len() float32 {
	return math32.Sqrt(a.X*a.X + a.Y*a.Y)
}
