package geom

import "math"

// Vector3 is a point or direction in world space.
// Value type, passed by value (immutable).
type Vector3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Mulf returns v scaled by s.
func (v Vector3) Mulf(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Divf returns v scaled by 1/s.
func (v Vector3) Divf(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

// Dot returns the dot product of v and other.
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of v and other.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared length (no sqrt for performance).
func (v Vector3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of the vector.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// DistanceTo returns the distance between v and other.
func (v Vector3) DistanceTo(other Vector3) float64 {
	return other.Sub(v).Length()
}

// Normalized returns v scaled to unit length (zero vector stays zero).
func (v Vector3) Normalized() Vector3 {
	l := v.Length()
	if l == 0 {
		return Vector3{}
	}
	return v.Divf(l)
}
