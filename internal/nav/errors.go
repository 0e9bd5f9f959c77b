package nav

import "errors"

var (
	// ErrInvalidMeshIndex is reported when a mesh polygon references a
	// vertex outside the mesh's vertex array. The rebuild stops at the
	// offending polygon.
	ErrInvalidMeshIndex = errors.New("navigation mesh contains an invalid vertex reference")

	// ErrConnectionIndex is reported by connection accessors when the
	// given index is outside the region's connection list.
	ErrConnectionIndex = errors.New("connection index out of range")

	// ErrForeignConnection is reported by Absorb when a connection in the
	// absorbed region targets a polygon that is not in that region's own
	// storage. This is a contract violation on the caller's side.
	ErrForeignConnection = errors.New("connection targets a polygon outside the absorbed region")
)
