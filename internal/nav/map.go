package nav

import "github.com/udisondev/navgo/internal/geom"

// PointKey is an opaque identity token for a world-space vertex, supplied by
// the owning map. Two coincident vertices (up to the map's quantization) get
// equal keys; the map uses them to match polygon corners across regions when
// it builds connectivity. This package never interprets a key, it only stores
// and compares them.
type PointKey uint64

// Map is the owning navigation map as seen from a region. The map decides the
// orientation convention for winding and computes vertex identity keys; the
// region never initiates any cross-region work itself.
type Map interface {
	// Up returns the orientation axis the map's navigation plane is
	// projected on. Used for the polygon winding sign.
	Up() geom.Vector3

	// PointKey returns the identity key for a world-space position.
	PointKey(pos geom.Vector3) PointKey
}
