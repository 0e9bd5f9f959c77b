// Package storage persists named navigation meshes in PostgreSQL. Meshes are
// stored as JSON documents with a content fingerprint so callers can detect
// unchanged geometry without pulling the payload.
package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/navgo/internal/meshio"
	"github.com/udisondev/navgo/internal/nav"
	"github.com/udisondev/navgo/internal/storage/migrations"
)

// Store wraps a pgx connection pool for mesh operations.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a Store handle.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// RunMigrations runs goose migrations on the given DSN.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// MeshInfo describes one stored mesh without its payload.
type MeshInfo struct {
	Name        string
	Fingerprint []byte
	UpdatedAt   time.Time
}

// SaveMesh upserts a mesh under the given name. The stored fingerprint covers
// the mesh's full geometry, so an unchanged mesh overwrites with identical
// content.
func (s *Store) SaveMesh(ctx context.Context, name string, m *nav.Mesh) error {
	var payload bytes.Buffer
	if err := meshio.Encode(&payload, m); err != nil {
		return fmt.Errorf("encoding mesh %q: %w", name, err)
	}
	fp := Fingerprint(m)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO nav_meshes (name, fingerprint, payload, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (name) DO UPDATE
		 SET fingerprint = EXCLUDED.fingerprint,
		     payload = EXCLUDED.payload,
		     updated_at = now()`,
		name, fp[:], payload.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("saving mesh %q: %w", name, err)
	}
	return nil
}

// LoadMesh retrieves a mesh by name. Returns nil, nil if no mesh is stored
// under that name.
func (s *Store) LoadMesh(ctx context.Context, name string) (*nav.Mesh, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM nav_meshes WHERE name = $1`, name,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying mesh %q: %w", name, err)
	}

	m, err := meshio.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding stored mesh %q: %w", name, err)
	}
	return m, nil
}

// ListMeshes returns info for every stored mesh, ordered by name.
func (s *Store) ListMeshes(ctx context.Context) ([]MeshInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, fingerprint, updated_at FROM nav_meshes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing meshes: %w", err)
	}
	defer rows.Close()

	var infos []MeshInfo
	for rows.Next() {
		var info MeshInfo
		if err := rows.Scan(&info.Name, &info.Fingerprint, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning mesh info: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing meshes: %w", err)
	}
	return infos, nil
}
