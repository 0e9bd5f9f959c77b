package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector3_Arithmetic(t *testing.T) {
	a := Vector3{X: 1, Y: 2, Z: 3}
	b := Vector3{X: -4, Y: 0.5, Z: 2}

	assert.Equal(t, Vector3{X: -3, Y: 2.5, Z: 5}, a.Add(b))
	assert.Equal(t, Vector3{X: 5, Y: 1.5, Z: 1}, a.Sub(b))
	assert.Equal(t, Vector3{X: 2, Y: 4, Z: 6}, a.Mulf(2))
	assert.Equal(t, Vector3{X: 0.5, Y: 1, Z: 1.5}, a.Divf(2))
}

func TestVector3_DotCross(t *testing.T) {
	x := Vector3{X: 1}
	y := Vector3{Y: 1}
	z := Vector3{Z: 1}

	// Right-handed basis: x × y = z, y × z = x, z × x = y.
	assert.Equal(t, z, x.Cross(y))
	assert.Equal(t, x, y.Cross(z))
	assert.Equal(t, y, z.Cross(x))

	assert.Equal(t, 0.0, x.Dot(y))
	assert.Equal(t, 1.0, x.Dot(x))

	a := Vector3{X: 2, Y: -1, Z: 3}
	assert.Equal(t, Vector3{}, a.Cross(a))
}

func TestVector3_Lengths(t *testing.T) {
	v := Vector3{X: 3, Y: 4}
	assert.Equal(t, 25.0, v.LengthSquared())
	assert.Equal(t, 5.0, v.Length())
	assert.Equal(t, 5.0, Vector3{}.DistanceTo(v))

	n := Vector3{X: 0, Y: 0, Z: -7}.Normalized()
	assert.Equal(t, Vector3{Z: -1}, n)
	assert.Equal(t, Vector3{}, Vector3{}.Normalized())
}

func TestTransform_Identity(t *testing.T) {
	v := Vector3{X: 1.5, Y: -2, Z: 9}
	assert.Equal(t, v, Identity().Xform(v))
}

func TestTransform_Translation(t *testing.T) {
	tr := Translation(Vector3{X: 10, Y: 1, Z: -3})
	assert.Equal(t, Vector3{X: 11, Y: 1, Z: -3}, tr.Xform(Vector3{X: 1}))

	moved := tr.Translated(Vector3{Y: 4})
	assert.Equal(t, Vector3{X: 10, Y: 5, Z: -3}, moved.Origin)
	// The receiver is a value; the original transform is untouched.
	assert.Equal(t, Vector3{X: 10, Y: 1, Z: -3}, tr.Origin)
}

func TestTransform_Rotation(t *testing.T) {
	// Quarter turn around Y maps +X to -Z.
	rot := Rotation(Vector3{Y: 1}, math.Pi/2)
	got := rot.Xform(Vector3{X: 1})
	assert.InDelta(t, 0, got.X, 1e-12)
	assert.InDelta(t, 0, got.Y, 1e-12)
	assert.InDelta(t, -1, got.Z, 1e-12)

	// The rotation axis is fixed.
	up := rot.Xform(Vector3{Y: 2})
	assert.InDelta(t, 2, up.Y, 1e-12)
	assert.InDelta(t, 0, up.X, 1e-12)
	assert.InDelta(t, 0, up.Z, 1e-12)
}

func TestTransform_RotationPreservesLength(t *testing.T) {
	axis := Vector3{X: 1, Y: 1, Z: 1}.Normalized()
	rot := Rotation(axis, 1.234)

	v := Vector3{X: 3, Y: -2, Z: 0.5}
	require.InDelta(t, v.Length(), rot.Xform(v).Length(), 1e-12)
}
