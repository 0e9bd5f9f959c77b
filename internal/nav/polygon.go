package nav

import "github.com/udisondev/navgo/internal/geom"

// Point is a single polygon corner: its world-space position and the
// map-supplied identity key used for cross-region vertex matching.
type Point struct {
	Position geom.Vector3
	Key      PointKey
}

// PolyRef identifies a polygon by its owning region and its stable slot in
// that region's polygon storage. Connections hold a PolyRef instead of an
// interior pointer: a rebuild replaces the whole polygon slice, so a pointer
// into it would silently pin a stale array, while an index pair stays valid
// for exactly as long as the referenced region's current storage does.
type PolyRef struct {
	Region *Region
	Index  int32
}

// Resolve returns the referenced polygon, or false if the reference does not
// point into its region's current storage.
func (ref PolyRef) Resolve() (*Polygon, bool) {
	if ref.Region == nil || ref.Index < 0 || int(ref.Index) >= len(ref.Region.polygons) {
		return nil, false
	}
	return &ref.Region.polygons[ref.Index], true
}

// Connection describes a traversable portal from one polygon boundary into a
// target polygon (in the same or another region). PathwayStart/PathwayEnd are
// the world-space endpoints of the shared boundary segment the pathfinder
// walks through.
type Connection struct {
	Polygon      PolyRef
	PathwayStart geom.Vector3
	PathwayEnd   geom.Vector3
}

// Edge is one boundary segment of a polygon (consecutive point pair,
// including the wraparound pair). Its connections are populated by the owning
// map's connectivity pass, never by the polygon builder.
type Edge struct {
	Connections []Connection
}

// Polygon is a single navigable face of a region's geometry.
type Polygon struct {
	// Owner identifies the region whose storage holds this polygon.
	// Bookkeeping only: it is never traversed for ownership or lifecycle.
	Owner *Region

	Points []Point
	Edges  []Edge

	// Center is the arithmetic centroid of Points, in world space.
	Center geom.Vector3

	// Clockwise is the winding of Points relative to the map's up axis.
	Clockwise bool
}

// clone returns a deep copy of the polygon. Edge connection lists are copied
// element-wise; PolyRef values inside them still name the original regions
// and must be rebased by the caller if ownership moves.
func (p *Polygon) clone() Polygon {
	out := Polygon{
		Owner:     p.Owner,
		Points:    make([]Point, len(p.Points)),
		Edges:     make([]Edge, len(p.Edges)),
		Center:    p.Center,
		Clockwise: p.Clockwise,
	}
	copy(out.Points, p.Points)
	for i := range p.Edges {
		if len(p.Edges[i].Connections) == 0 {
			continue
		}
		out.Edges[i].Connections = make([]Connection, len(p.Edges[i].Connections))
		copy(out.Edges[i].Connections, p.Edges[i].Connections)
	}
	return out
}
