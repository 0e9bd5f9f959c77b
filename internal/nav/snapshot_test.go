package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/navgo/internal/geom"
)

// connectRegion wires the quad region's two triangles to each other across
// their shared edge, the way the owning map's connectivity pass would.
func connectRegion(t *testing.T, r *Region) {
	t.Helper()
	polygons := r.Polygons()
	require.Len(t, polygons, 2)

	portalStart := polygons[0].Points[0].Position
	portalEnd := polygons[0].Points[2].Position

	polygons[0].Edges[2].Connections = []Connection{{
		Polygon:      PolyRef{Region: r, Index: 1},
		PathwayStart: portalStart,
		PathwayEnd:   portalEnd,
	}}
	polygons[1].Edges[0].Connections = []Connection{{
		Polygon:      PolyRef{Region: r, Index: 0},
		PathwayStart: portalEnd,
		PathwayEnd:   portalStart,
	}}
	r.SetConnections([]Connection{{
		Polygon:      PolyRef{Region: r, Index: 0},
		PathwayStart: portalStart,
		PathwayEnd:   portalEnd,
	}})
}

func TestDuplicate_OwnershipAndIndependence(t *testing.T) {
	src := newSyncedRegion(t, quadMesh())
	connectRegion(t, src)

	dup := src.Duplicate()

	require.Len(t, dup.Polygons(), 2)
	for i := range dup.Polygons() {
		assert.Same(t, dup, dup.Polygons()[i].Owner, "polygon %d", i)
		assert.NotSame(t, src, dup.Polygons()[i].Owner, "polygon %d", i)
	}

	// Scalar fields travel with the copy, the mesh handle is shared.
	assert.Equal(t, src.Transform(), dup.Transform())
	assert.Same(t, src.Mesh(), dup.Mesh())
	assert.Equal(t, src.NavigationLayers(), dup.NavigationLayers())
	assert.Equal(t, src.EnterCost(), dup.EnterCost())
	assert.Equal(t, src.TravelCost(), dup.TravelCost())

	// Geometry content matches element for element.
	for i := range src.Polygons() {
		assert.Equal(t, src.Polygons()[i].Points, dup.Polygons()[i].Points)
		assert.Equal(t, src.Polygons()[i].Center, dup.Polygons()[i].Center)
		assert.Equal(t, src.Polygons()[i].Clockwise, dup.Polygons()[i].Clockwise)
	}

	// The source keeps mutating after the handoff; the copy must not see it.
	src.Polygons()[0].Points[0].Position = geom.Vector3{X: 99}
	src.Polygons()[0].Center = geom.Vector3{X: 99}
	assert.Equal(t, geom.Vector3{}, dup.Polygons()[0].Points[0].Position)
	assert.NotEqual(t, geom.Vector3{X: 99}, dup.Polygons()[0].Center)
}

func TestDuplicate_ConnectionsAreNotCopied(t *testing.T) {
	src := newSyncedRegion(t, quadMesh())
	connectRegion(t, src)
	require.Equal(t, 1, src.ConnectionsCount())

	dup := src.Duplicate()

	// Connections are re-derived by the map on its next pass, never
	// carried across: a carried connection would still reference the
	// source's storage.
	assert.Equal(t, 0, dup.ConnectionsCount())
	for _, p := range dup.Polygons() {
		for _, e := range p.Edges {
			assert.Empty(t, e.Connections)
		}
	}
}

func TestDuplicate_CarriesDirtyFlag(t *testing.T) {
	src := newSyncedRegion(t, quadMesh())

	clean := src.Duplicate()
	changed, err := clean.Sync()
	require.NoError(t, err)
	assert.False(t, changed)

	src.SetTransform(src.Transform())
	dirty := src.Duplicate()
	changed, err = dirty.Sync()
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestAbsorb_RebasesEveryReference(t *testing.T) {
	other := newSyncedRegion(t, quadMesh())
	connectRegion(t, other)

	self := NewRegion()
	self.SetMap(other.Map())

	require.NoError(t, self.Absorb(other))

	// Content is element-for-element equal to other's at the time of the
	// call.
	require.Len(t, self.Polygons(), 2)
	require.Equal(t, 1, self.ConnectionsCount())
	for i := range other.Polygons() {
		assert.Equal(t, other.Polygons()[i].Points, self.Polygons()[i].Points)
		assert.Same(t, self, self.Polygons()[i].Owner, "polygon %d", i)
	}

	// Every connection reference resolves into self's own storage.
	checkRef := func(ref PolyRef) {
		t.Helper()
		assert.Same(t, self, ref.Region)
		p, ok := ref.Resolve()
		require.True(t, ok)
		assert.Same(t, &self.Polygons()[ref.Index], p)
	}
	for _, p := range self.Polygons() {
		for _, e := range p.Edges {
			for _, c := range e.Connections {
				checkRef(c.Polygon)
			}
		}
	}
	checkRef(self.connections[0].Polygon)

	// The cross-edge wiring survived the rebase: triangle 0 still links to
	// triangle 1 and back.
	assert.Equal(t, int32(1), self.Polygons()[0].Edges[2].Connections[0].Polygon.Index)
	assert.Equal(t, int32(0), self.Polygons()[1].Edges[0].Connections[0].Polygon.Index)
}

func TestAbsorb_IndependentOfSourceAfterwards(t *testing.T) {
	other := newSyncedRegion(t, quadMesh())
	connectRegion(t, other)

	self := NewRegion()
	self.SetMap(other.Map())
	require.NoError(t, self.Absorb(other))

	other.Polygons()[0].Points[0].Position = geom.Vector3{X: -5}
	other.Polygons()[0].Edges[2].Connections[0].PathwayStart = geom.Vector3{X: -5}

	assert.Equal(t, geom.Vector3{}, self.Polygons()[0].Points[0].Position)
	assert.Equal(t, geom.Vector3{}, self.Polygons()[0].Edges[2].Connections[0].PathwayStart)
}

func TestAbsorb_ForeignReferenceFailsLoudly(t *testing.T) {
	other := newSyncedRegion(t, quadMesh())
	stranger := newSyncedRegion(t, quadMesh())

	// A connection into a third region's storage is a contract violation.
	other.Polygons()[0].Edges[0].Connections = []Connection{{
		Polygon: PolyRef{Region: stranger, Index: 0},
	}}

	self := newSyncedRegion(t, quadMesh())
	connectRegion(t, self)
	beforePolygons := self.Polygons()
	beforeCount := self.ConnectionsCount()

	err := self.Absorb(other)
	require.ErrorIs(t, err, ErrForeignConnection)

	// Self is untouched by the failed merge.
	assert.Equal(t, beforePolygons, self.Polygons())
	assert.Equal(t, beforeCount, self.ConnectionsCount())
}

func TestAbsorb_DanglingIndexFailsLoudly(t *testing.T) {
	other := newSyncedRegion(t, quadMesh())
	other.SetConnections([]Connection{{
		Polygon: PolyRef{Region: other, Index: 17},
	}})

	self := NewRegion()
	self.SetMap(other.Map())

	err := self.Absorb(other)
	require.ErrorIs(t, err, ErrForeignConnection)
	assert.Empty(t, self.Polygons())
}

func TestDuplicateThenAbsorbRoundTrip(t *testing.T) {
	canonical := newSyncedRegion(t, quadMesh())

	// Consumer takes a snapshot, computes connectivity against the copy's
	// own storage, and the owner merges the result back.
	snapshot := canonical.Duplicate()
	connectRegion(t, snapshot)

	require.NoError(t, canonical.Absorb(snapshot))

	require.Equal(t, 1, canonical.ConnectionsCount())
	start, err := canonical.ConnectionPathwayStart(0)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Polygons()[0].Points[0].Position, start)

	for _, p := range canonical.Polygons() {
		assert.Same(t, canonical, p.Owner)
		for _, e := range p.Edges {
			for _, c := range e.Connections {
				assert.Same(t, canonical, c.Polygon.Region)
			}
		}
	}
}
