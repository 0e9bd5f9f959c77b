package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/udisondev/navgo/internal/config"
	"github.com/udisondev/navgo/internal/meshio"
	"github.com/udisondev/navgo/internal/nav"
	"github.com/udisondev/navgo/internal/navmap"
	"github.com/udisondev/navgo/internal/storage"
)

const ConfigPath = "config/navserver.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Configure slog
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	slog.Info("navgo navigation server starting")

	// Load config
	cfgPath := ConfigPath
	if p := os.Getenv("NAVGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	slog.Info("config loaded", "mesh_dir", cfg.MeshDir, "up_axis", cfg.UpAxis, "cell_size", cfg.CellSize)

	up, err := cfg.UpVector()
	if err != nil {
		return fmt.Errorf("resolving up axis: %w", err)
	}
	m, err := navmap.New(up, cfg.CellSize)
	if err != nil {
		return fmt.Errorf("creating map: %w", err)
	}

	// Load mesh geometry from disk
	meshes, err := meshio.LoadDir(cfg.MeshDir)
	if err != nil {
		return fmt.Errorf("loading meshes: %w", err)
	}

	if cfg.UseDatabase {
		if err := syncMeshStore(ctx, cfg, meshes); err != nil {
			return fmt.Errorf("syncing mesh store: %w", err)
		}
	}

	// Register one region per mesh
	for _, name := range slices.Sorted(maps.Keys(meshes)) {
		r := nav.NewRegion()
		r.SetMesh(meshes[name])
		m.AddRegion(r)
		slog.Info("region registered", "mesh", name, "polygons", meshes[name].PolygonCount())
	}

	// Sync loop
	interval := time.Duration(cfg.SyncInterval) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("sync loop running", "regions", m.RegionCount(), "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			changed, err := m.SyncAll(ctx)
			if err != nil {
				slog.Error("sync pass failed", "err", err)
				continue
			}
			if changed {
				slog.Debug("sync pass rebuilt regions")
			}
		}
	}
}

// syncMeshStore mirrors the on-disk meshes into the database and pulls down
// any store-only meshes, so every known mesh gets a region.
func syncMeshStore(ctx context.Context, cfg config.Server, meshes map[string]*nav.Mesh) error {
	dsn := cfg.Database.DSN()

	if err := storage.RunMigrations(ctx, dsn); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store, err := storage.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer store.Close()
	slog.Info("mesh store connected")

	for _, name := range slices.Sorted(maps.Keys(meshes)) {
		if err := store.SaveMesh(ctx, name, meshes[name]); err != nil {
			return err
		}
	}

	infos, err := store.ListMeshes(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if _, ok := meshes[info.Name]; ok {
			continue
		}
		mesh, err := store.LoadMesh(ctx, info.Name)
		if err != nil {
			return err
		}
		if mesh == nil {
			continue
		}
		meshes[info.Name] = mesh
		slog.Info("mesh pulled from store", "mesh", info.Name)
	}

	return nil
}
