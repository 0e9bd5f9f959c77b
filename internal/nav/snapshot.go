package nav

import "fmt"

// Duplicate returns a brand-new region that is a deep, independently owned
// copy of this one: scalar fields, dirty flag and the polygon arena, with
// every copied polygon's Owner rewritten to the new region.
//
// Connections are deliberately not copied — neither the top-level list nor
// the per-edge lists. Rebasing the connection graph is more expensive than
// letting the map re-derive it on its next connectivity pass, and an
// unrebased connection would point into the source's storage, which the copy
// must never do. The copy is O(polygon count) and can be read on another
// goroutine while the source keeps mutating its own state.
func (r *Region) Duplicate() *Region {
	dup := &Region{
		m:                r.m,
		transform:        r.transform,
		mesh:             r.mesh,
		navigationLayers: r.navigationLayers,
		enterCost:        r.enterCost,
		travelCost:       r.travelCost,
		dirty:            r.dirty,
	}

	dup.polygons = make([]Polygon, len(r.polygons))
	for i := range r.polygons {
		p := r.polygons[i]
		dup.polygons[i] = Polygon{
			Owner:     dup,
			Points:    make([]Point, len(p.Points)),
			Edges:     make([]Edge, len(p.Edges)),
			Center:    p.Center,
			Clockwise: p.Clockwise,
		}
		copy(dup.polygons[i].Points, p.Points)
	}

	return dup
}

// Absorb pulls another region's built polygons and connections into this one,
// wholesale-replacing its own. Every connection reference is rebased from
// other's polygon storage to this region's: the copy preserves polygon order,
// so the slot index carries over unchanged and only the region handle is
// rewritten. Each connection is visited exactly once.
//
// A connection targeting a polygon that is not in other's own storage is a
// contract violation: Absorb reports ErrForeignConnection and leaves this
// region untouched (the new arena is only installed once every reference has
// rebased cleanly).
func (r *Region) Absorb(other *Region) error {
	polygons := make([]Polygon, len(other.polygons))
	for i := range other.polygons {
		p := other.polygons[i].clone()
		p.Owner = r
		for ei := range p.Edges {
			conns := p.Edges[ei].Connections
			for ci := range conns {
				ref, err := rebaseRef(conns[ci].Polygon, other, r)
				if err != nil {
					return fmt.Errorf("polygon %d edge %d: %w", i, ei, err)
				}
				conns[ci].Polygon = ref
			}
		}
		polygons[i] = p
	}

	connections := make([]Connection, len(other.connections))
	for i, c := range other.connections {
		ref, err := rebaseRef(c.Polygon, other, r)
		if err != nil {
			return fmt.Errorf("region connection %d: %w", i, err)
		}
		c.Polygon = ref
		connections[i] = c
	}

	r.dirty = other.dirty
	r.polygons = polygons
	r.connections = connections
	return nil
}

// rebaseRef translates a polygon reference from one region's storage to
// another's. Polygon order is preserved by the copy, so translation keeps the
// index and swaps the region handle.
func rebaseRef(ref PolyRef, from, to *Region) (PolyRef, error) {
	if ref.Region != from || ref.Index < 0 || int(ref.Index) >= len(from.polygons) {
		return PolyRef{}, fmt.Errorf("reference to polygon %d of region %p: %w",
			ref.Index, ref.Region, ErrForeignConnection)
	}
	ref.Region = to
	return ref, nil
}
