package geom

import "math"

// Transform is an affine world-space transform: a 3×3 basis applied to a
// point, followed by a translation. The basis is stored as rows.
type Transform struct {
	Basis  [3]Vector3
	Origin Vector3
}

// Identity returns the transform that maps every point to itself.
func Identity() Transform {
	return Transform{
		Basis: [3]Vector3{
			{X: 1},
			{Y: 1},
			{Z: 1},
		},
	}
}

// Translation returns a transform that only offsets by origin.
func Translation(origin Vector3) Transform {
	t := Identity()
	t.Origin = origin
	return t
}

// Rotation returns a rotation by angle (radians) around the given axis.
// The axis must be normalized.
func Rotation(axis Vector3, angle float64) Transform {
	c := math.Cos(angle)
	s := math.Sin(angle)
	ic := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return Transform{
		Basis: [3]Vector3{
			{X: c + x*x*ic, Y: x*y*ic - z*s, Z: x*z*ic + y*s},
			{X: x*y*ic + z*s, Y: c + y*y*ic, Z: y*z*ic - x*s},
			{X: x*z*ic - y*s, Y: y*z*ic + x*s, Z: c + z*z*ic},
		},
	}
}

// Xform applies the transform to a point.
func (t Transform) Xform(v Vector3) Vector3 {
	return Vector3{
		X: t.Basis[0].Dot(v),
		Y: t.Basis[1].Dot(v),
		Z: t.Basis[2].Dot(v),
	}.Add(t.Origin)
}

// Translated returns a copy of the transform with the offset added to its
// origin.
func (t Transform) Translated(offset Vector3) Transform {
	t.Origin = t.Origin.Add(offset)
	return t
}
