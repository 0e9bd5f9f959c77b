package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/navgo/internal/geom"
)

// Server holds all configuration for the navigation server.
type Server struct {
	// Geometry
	MeshDir  string  `yaml:"mesh_dir"`
	CellSize float64 `yaml:"cell_size"`
	UpAxis   string  `yaml:"up_axis"` // "x", "y" or "z"

	// Sync loop
	SyncInterval int `yaml:"sync_interval"` // ms

	// Database
	UseDatabase bool           `yaml:"use_database"`
	Database    DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// UpVector returns the unit vector for the configured up axis.
func (s Server) UpVector() (geom.Vector3, error) {
	switch s.UpAxis {
	case "x":
		return geom.Vector3{X: 1}, nil
	case "y":
		return geom.Vector3{Y: 1}, nil
	case "z":
		return geom.Vector3{Z: 1}, nil
	default:
		return geom.Vector3{}, fmt.Errorf("unknown up axis %q", s.UpAxis)
	}
}

// Validate checks the loaded config for values the server cannot run with.
func (s Server) Validate() error {
	if s.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %v", s.CellSize)
	}
	if s.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval must be positive, got %d", s.SyncInterval)
	}
	if _, err := s.UpVector(); err != nil {
		return err
	}
	return nil
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		MeshDir:      "meshes",
		CellSize:     0.25,
		UpAxis:       "y",
		SyncInterval: 500,
		UseDatabase:  false,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "navgo",
			Password: "navgo",
			DBName:   "navgo",
			SSLMode:  "disable",
		},
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
