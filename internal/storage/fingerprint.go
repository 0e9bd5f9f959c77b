package storage

import (
	"encoding/binary"
	"math"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/navgo/internal/nav"
)

// Fingerprint returns a BLAKE2b-256 digest of the mesh's full geometry:
// vertex positions and polygon index lists in order. Two meshes with equal
// geometry always produce the same fingerprint.
func Fingerprint(m *nav.Mesh) [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)

	var scratch [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		h.Write(scratch[:])
	}
	writeFloat := func(v float64) {
		writeUint(math.Float64bits(v))
	}

	vertices := m.Vertices()
	writeUint(uint64(len(vertices)))
	for _, v := range vertices {
		writeFloat(v.X)
		writeFloat(v.Y)
		writeFloat(v.Z)
	}

	writeUint(uint64(m.PolygonCount()))
	for i := range m.PolygonCount() {
		poly := m.Polygon(i)
		writeUint(uint64(len(poly)))
		for _, idx := range poly {
			writeUint(uint64(uint32(idx)))
		}
	}

	var sum [blake2b.Size256]byte
	h.Sum(sum[:0])
	return sum
}
