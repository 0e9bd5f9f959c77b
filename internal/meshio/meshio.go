// Package meshio reads and writes navigation mesh geometry files. A mesh
// document is JSON: a vertex array of [x, y, z] triples and an array of
// polygon index lists.
package meshio

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/udisondev/navgo/internal/geom"
	"github.com/udisondev/navgo/internal/nav"
)

// Ext is the file extension mesh documents are stored under.
const Ext = ".navmesh.json"

type document struct {
	Vertices [][3]float64 `json:"vertices"`
	Polygons [][]int32    `json:"polygons"`
}

// Decode reads one mesh document.
func Decode(r io.Reader) (*nav.Mesh, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding mesh document: %w", err)
	}

	for i, poly := range doc.Polygons {
		if len(poly) == 0 {
			return nil, fmt.Errorf("mesh document polygon %d has no vertices", i)
		}
	}

	vertices := make([]geom.Vector3, len(doc.Vertices))
	for i, v := range doc.Vertices {
		vertices[i] = geom.Vector3{X: v[0], Y: v[1], Z: v[2]}
	}
	return nav.NewMesh(vertices, doc.Polygons), nil
}

// Encode writes one mesh document.
func Encode(w io.Writer, m *nav.Mesh) error {
	doc := document{
		Vertices: make([][3]float64, len(m.Vertices())),
		Polygons: make([][]int32, m.PolygonCount()),
	}
	for i, v := range m.Vertices() {
		doc.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	for i := range m.PolygonCount() {
		doc.Polygons[i] = m.Polygon(i)
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding mesh document: %w", err)
	}
	return nil
}

// LoadDir loads all mesh documents from a directory, keyed by file base name
// without the extension. Files that fail to parse are skipped with a warning;
// a missing or unreadable directory is an error.
func LoadDir(dir string) (map[string]*nav.Mesh, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading mesh dir %s: %w", dir, err)
	}

	meshes := make(map[string]*nav.Mesh)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, Ext) {
			continue
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("opening mesh %s: %w", name, err)
		}
		mesh, err := Decode(f)
		f.Close()
		if err != nil {
			slog.Warn("skip mesh file (bad document)", "file", name, "err", err)
			continue
		}

		meshes[strings.TrimSuffix(name, Ext)] = mesh
	}

	slog.Info("meshes loaded", "count", len(meshes), "dir", dir)
	return meshes, nil
}
