package nav

import "github.com/udisondev/navgo/internal/geom"

// Mesh is a shared, immutable geometry source: a vertex array plus ordered
// per-polygon index lists into it. A Mesh is never modified after
// construction, so any number of regions may hold the same handle without
// synchronization.
type Mesh struct {
	vertices []geom.Vector3
	polygons [][]int32
}

// NewMesh builds a mesh from a vertex array and polygon index lists.
// Both inputs are copied; the caller keeps ownership of its slices.
func NewMesh(vertices []geom.Vector3, polygons [][]int32) *Mesh {
	m := &Mesh{
		vertices: make([]geom.Vector3, len(vertices)),
		polygons: make([][]int32, len(polygons)),
	}
	copy(m.vertices, vertices)
	for i, poly := range polygons {
		m.polygons[i] = make([]int32, len(poly))
		copy(m.polygons[i], poly)
	}
	return m
}

// Vertices returns the vertex array.
// IMPORTANT: Returned slice is immutable — DO NOT modify.
func (m *Mesh) Vertices() []geom.Vector3 {
	return m.vertices
}

// PolygonCount returns the number of polygons in the mesh.
func (m *Mesh) PolygonCount() int {
	return len(m.polygons)
}

// Polygon returns the ordered vertex index list of polygon i.
// IMPORTANT: Returned slice is immutable — DO NOT modify.
func (m *Mesh) Polygon(i int) []int32 {
	return m.polygons[i]
}
