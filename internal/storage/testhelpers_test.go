package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testStore is the shared store for all tests in package storage, backed by a
// throwaway PostgreSQL container.
var (
	testStore *Store
	testDSN   string
)

// TestMain starts a PostgreSQL 16 testcontainer, runs the goose migrations
// through the store's own migration path and opens the shared store.
func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("starting postgres container: %v", err)
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	testDSN = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	if err := RunMigrations(ctx, testDSN); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	testStore, err = New(ctx, testDSN)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer testStore.Close()

	code := m.Run()
	os.Exit(code)
}

// setupStore returns the shared store with an empty mesh table, for
// isolation between tests.
func setupStore(tb testing.TB) *Store {
	tb.Helper()

	if _, err := testStore.pool.Exec(context.Background(), "TRUNCATE nav_meshes"); err != nil {
		tb.Fatalf("cleaning mesh table: %v", err)
	}

	return testStore
}
