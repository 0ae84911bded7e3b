package geom

// Det3x3 returns the determinant of the matrix whose columns are a, b and c.
// It equals the signed volume (times six) of the tetrahedron spanned by the
// origin and the three points.
func Det3x3(a, b, c Vec3) float32 {
	return a.X*(b.Y*c.Z-b.Z*c.Y) - b.X*(a.Y*c.Z-a.Z*c.Y) + c.X*(a.Y*b.Z-a.Z*b.Y)
}

// TetrahedronWeights returns the signed sub-volumes obtained by replacing each
// vertex of p with the origin, with alternating signs so that all four share a
// sign exactly when the origin is inside.
func TetrahedronWeights(p [4]Vec3) [4]float32 {
	return [4]float32{
		Det3x3(p[1], p[2], p[3]),
		-Det3x3(p[0], p[2], p[3]),
		Det3x3(p[0], p[1], p[3]),
		-Det3x3(p[0], p[1], p[2]),
	}
}

// OriginInTetrahedron reports whether the origin lies inside the tetrahedron
// with vertices p.
//
// A weight of exactly zero counts as not positive, so an origin lying on a
// face (or a fully degenerate tetrahedron) may report true.
func OriginInTetrahedron(p [4]Vec3) bool {
	w := TetrahedronWeights(p)
	return sameSide(w[:])
}

// TriangleWeights returns the edge cross products of the triangle a, b, c
// taken against the origin.
func TriangleWeights(a, b, c Vec2) [3]float32 {
	return [3]float32{
		a.X*b.Y - a.Y*b.X,
		a.Y*c.X - a.X*c.Y,
		b.X*c.Y - b.Y*c.X,
	}
}

// OriginInTriangle reports whether the origin lies inside the triangle a, b, c.
// Ties follow the same rule as OriginInTetrahedron.
func OriginInTriangle(a, b, c Vec2) bool {
	w := TriangleWeights(a, b, c)
	return sameSide(w[:])
}

// sameSide checks that no two consecutive weights disagree on being positive.
func sameSide(w []float32) bool {
	for i := 0; i+1 < len(w); i++ {
		if (w[i] > 0) != (w[i+1] > 0) {
			return false
		}
	}
	return true
}
