package nav

import (
	"fmt"

	"github.com/udisondev/navgo/internal/geom"
)

// Region is a transformed piece of walkable mesh geometry managed as one
// unit. Its polygon graph is rebuilt lazily: setters only mark the region
// dirty, Sync performs the rebuild. The dirty flag is a two-state machine —
// the only Dirty→Clean transition happens inside rebuildPolygons.
//
// A Region is not safe for concurrent use. The canonical region is mutated
// only by its owning goroutine; a consumer that needs the polygon graph on
// another goroutine takes a private snapshot with Duplicate and, if it
// computed new connectivity, hands it back through Absorb on the owning
// goroutine. There is no shared mutable polygon storage at any point.
type Region struct {
	m         Map
	transform geom.Transform
	mesh      *Mesh

	navigationLayers uint32
	enterCost        float64
	travelCost       float64

	dirty bool

	// polygons is the region's polygon arena: one contiguous owned slice,
	// replaced wholesale on every rebuild. PolyRef indices point into it.
	polygons    []Polygon
	connections []Connection
}

// NewRegion returns an unregistered region with an identity transform and no
// mesh. It starts dirty so the first Sync reports a change.
func NewRegion() *Region {
	return &Region{
		transform:  geom.Identity(),
		travelCost: 1,
		dirty:      true,
	}
}

// Map returns the owning map, or nil if the region is unregistered.
func (r *Region) Map() Map {
	return r.m
}

// SetMap registers the region against a map (or detaches it when m is nil)
// and marks it dirty. Detaching clears connections immediately: stale
// cross-region links must never outlive deregistration.
func (r *Region) SetMap(m Map) {
	r.m = m
	r.dirty = true
	if r.m == nil {
		r.connections = nil
	}
}

// Transform returns the region's world transform.
func (r *Region) Transform() geom.Transform {
	return r.transform
}

// SetTransform replaces the transform and marks the region dirty.
// No rebuild happens until the next Sync, even if t equals the old value.
func (r *Region) SetTransform(t geom.Transform) {
	r.transform = t
	r.dirty = true
}

// Mesh returns the region's geometry source (may be nil).
func (r *Region) Mesh() *Mesh {
	return r.mesh
}

// SetMesh replaces the geometry source and marks the region dirty.
func (r *Region) SetMesh(m *Mesh) {
	r.mesh = m
	r.dirty = true
}

// NavigationLayers returns the traversal filter bitmask.
func (r *Region) NavigationLayers() uint32 {
	return r.navigationLayers
}

// SetNavigationLayers replaces the traversal filter bitmask. Layers do not
// affect the built geometry, so the region is not marked dirty.
func (r *Region) SetNavigationLayers(layers uint32) {
	r.navigationLayers = layers
}

// EnterCost returns the cost of entering this region.
func (r *Region) EnterCost() float64 {
	return r.enterCost
}

// SetEnterCost sets the cost of entering this region (negative clamps to 0).
func (r *Region) SetEnterCost(cost float64) {
	r.enterCost = max(cost, 0)
}

// TravelCost returns the cost multiplier for traveling through this region.
func (r *Region) TravelCost() float64 {
	return r.travelCost
}

// SetTravelCost sets the travel cost multiplier (negative clamps to 0).
func (r *Region) SetTravelCost(cost float64) {
	r.travelCost = max(cost, 0)
}

// Polygons returns the region's built polygon arena.
// IMPORTANT: Returned slice is the live storage, owned by the region. The
// owning map writes edge connections into it during its connectivity pass;
// nobody else may modify it, and it is replaced wholesale by the next
// rebuild.
func (r *Region) Polygons() []Polygon {
	return r.polygons
}

// SetConnections replaces the region's boundary connection list. Called by
// the owning map after its connectivity pass; the region itself never
// discovers connections.
func (r *Region) SetConnections(connections []Connection) {
	r.connections = connections
}

// AppendConnection adds one boundary connection.
func (r *Region) AppendConnection(c Connection) {
	r.connections = append(r.connections, c)
}

// ConnectionsCount returns the number of boundary connections, or 0 for an
// unregistered region (connections cannot exist without a map).
func (r *Region) ConnectionsCount() int {
	if r.m == nil {
		return 0
	}
	return len(r.connections)
}

// ConnectionPathwayStart returns the world-space start of connection i's
// portal segment. An unregistered region yields a zero vector without error;
// an index outside [0, ConnectionsCount()) is an error.
func (r *Region) ConnectionPathwayStart(i int) (geom.Vector3, error) {
	if r.m == nil {
		return geom.Vector3{}, nil
	}
	if i < 0 || i >= len(r.connections) {
		return geom.Vector3{}, fmt.Errorf("pathway start %d of %d: %w", i, len(r.connections), ErrConnectionIndex)
	}
	return r.connections[i].PathwayStart, nil
}

// ConnectionPathwayEnd returns the world-space end of connection i's portal
// segment, with the same error contract as ConnectionPathwayStart.
func (r *Region) ConnectionPathwayEnd(i int) (geom.Vector3, error) {
	if r.m == nil {
		return geom.Vector3{}, nil
	}
	if i < 0 || i >= len(r.connections) {
		return geom.Vector3{}, fmt.Errorf("pathway end %d of %d: %w", i, len(r.connections), ErrConnectionIndex)
	}
	return r.connections[i].PathwayEnd, nil
}

// Sync rebuilds the polygon graph if the region is dirty.
//
// The returned bool reports whether the region was dirty on entry — "did
// state change since the last sync" — NOT whether the rebuild produced
// different polygon content. A rebuild that regenerates identical data still
// returns true. A failed rebuild keeps the polygons built before the error
// and leaves the region clean; callers that want a retry re-mark it dirty by
// setting the mesh or transform again.
func (r *Region) Sync() (bool, error) {
	changed := r.dirty
	err := r.rebuildPolygons()
	return changed, err
}

// rebuildPolygons regenerates the polygon arena from the mesh, the current
// transform and the owning map's orientation. This is the only place the
// dirty flag transitions back to clean.
func (r *Region) rebuildPolygons() error {
	if !r.dirty {
		return nil
	}
	r.polygons = nil
	r.dirty = false

	if r.m == nil || r.mesh == nil {
		return nil
	}

	vertices := r.mesh.Vertices()
	if len(vertices) == 0 {
		return nil
	}

	up := r.m.Up()
	r.polygons = make([]Polygon, 0, r.mesh.PolygonCount())

	for i := range r.mesh.PolygonCount() {
		indices := r.mesh.Polygon(i)
		p := Polygon{
			Owner:  r,
			Points: make([]Point, len(indices)),
			Edges:  make([]Edge, len(indices)),
		}

		var center geom.Vector3
		var sum float64

		for j, idx := range indices {
			if idx < 0 || int(idx) >= len(vertices) {
				// Data-integrity error: keep the polygons built so
				// far, drop this one and everything after it.
				return fmt.Errorf("polygon %d point %d references vertex %d of %d: %w",
					i, j, idx, len(vertices), ErrInvalidMeshIndex)
			}

			pos := r.transform.Xform(vertices[idx])
			p.Points[j] = Point{Position: pos, Key: r.m.PointKey(pos)}

			center = center.Add(pos)

			if j >= 2 {
				// Signed area contribution of the triangle fan,
				// projected on the map's up axis.
				epa := r.transform.Xform(vertices[indices[j-2]])
				epb := r.transform.Xform(vertices[indices[j-1]])
				sum += up.Dot(epb.Sub(epa).Cross(pos.Sub(epa)))
			}
		}

		p.Clockwise = sum > 0
		if len(indices) != 0 {
			p.Center = center.Divf(float64(len(indices)))
		}

		r.polygons = append(r.polygons, p)
	}

	return nil
}
