// Package navmap provides a concrete owning map for navigation regions: a
// fixed orientation axis, a quantized spatial hash for vertex identity keys,
// and a registry that drives region syncs. Cross-region connection discovery
// lives in the map's connectivity pass and is out of scope here.
package navmap

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/navgo/internal/geom"
	"github.com/udisondev/navgo/internal/nav"
)

// Point keys pack one quantized cell coordinate per axis.
const (
	keyAxisBits = 21
	keyAxisMask = (1 << keyAxisBits) - 1
)

// Map owns a set of navigation regions and supplies them with the orientation
// convention and vertex identity keys they build polygons against.
type Map struct {
	up       geom.Vector3
	cellSize float64

	mu      sync.Mutex
	regions []*nav.Region
}

// New creates a map with the given up axis and key quantization cell size.
// The up axis must be a nonzero vector and the cell size positive: PointKey
// divides by the cell size, and a degenerate value would collapse every
// vertex into one cell.
func New(up geom.Vector3, cellSize float64) (*Map, error) {
	if up.LengthSquared() == 0 {
		return nil, fmt.Errorf("up axis must be a nonzero vector")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", cellSize)
	}
	return &Map{
		up:       up.Normalized(),
		cellSize: cellSize,
	}, nil
}

// Up returns the map's orientation axis.
func (m *Map) Up() geom.Vector3 {
	return m.up
}

// CellSize returns the key quantization cell size.
func (m *Map) CellSize() float64 {
	return m.cellSize
}

// PointKey quantizes a world position to its cell and packs the cell
// coordinates into one comparable token. Positions within the same cell get
// equal keys; the connectivity pass uses that to recognize coincident polygon
// corners across regions.
func (m *Map) PointKey(pos geom.Vector3) nav.PointKey {
	x := uint64(int64(math.Floor(pos.X/m.cellSize))) & keyAxisMask
	y := uint64(int64(math.Floor(pos.Y/m.cellSize))) & keyAxisMask
	z := uint64(int64(math.Floor(pos.Z/m.cellSize))) & keyAxisMask
	return nav.PointKey(x<<(keyAxisBits*2) | y<<keyAxisBits | z)
}

// AddRegion registers a region with the map. The region is marked dirty and
// will build its polygons on the next sync.
func (m *Map) AddRegion(r *nav.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.SetMap(m)
	m.regions = append(m.regions, r)
}

// RemoveRegion detaches a region from the map, which clears its connections.
func (m *Map) RemoveRegion(r *nav.Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.regions, r)
	if i < 0 {
		return
	}
	m.regions = slices.Delete(m.regions, i, i+1)
	r.SetMap(nil)
}

// RegionCount returns the number of registered regions.
func (m *Map) RegionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regions)
}

// SyncAll rebuilds every dirty region. Regions are independent, so the
// rebuilds fan out in parallel; the first rebuild error wins. Returns whether
// any region reported a state change.
func (m *Map) SyncAll(ctx context.Context) (bool, error) {
	m.mu.Lock()
	regions := slices.Clone(m.regions)
	m.mu.Unlock()

	var changedAny atomic.Bool
	g, _ := errgroup.WithContext(ctx)
	for i, r := range regions {
		g.Go(func() error {
			changed, err := r.Sync()
			if changed {
				changedAny.Store(true)
			}
			if err != nil {
				slog.Warn("region sync failed", "region", i, "err", err)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return changedAny.Load(), err
	}
	return changedAny.Load(), nil
}
