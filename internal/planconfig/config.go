// Package planconfig loads configuration shared by cmd/planner and
// cmd/plannerd: an optional TOML file, overridable by environment
// variables and then by explicit CLI flags (spec §6, "Environment
// variables: ... optional PLANNER_MAX_LEVEL caps expansion"), following
// the teacher's server/config.go + internal/tqw "BurntSushi/toml struct
// tag" style.
package planconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds settings shared by both binaries. Zero values mean "use the
// built-in default".
type Config struct {
	Planner  PlannerConfig  `toml:"planner"`
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
}

// PlannerConfig holds planning-run defaults.
type PlannerConfig struct {
	// MaxLevel caps planning-graph expansion; 0 means uncapped.
	MaxLevel int `toml:"max_level"`

	// TracePath, if set, is where the optional diagnostic trace is
	// written (spec §6: "Optional trace file written alongside output is
	// purely diagnostic").
	TracePath string `toml:"trace_path"`
}

// ServerConfig holds cmd/plannerd's HTTP listener settings.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr"`
	JWTSecret  string `toml:"jwt_secret"`
}

// DatabaseConfig holds cmd/plannerd's job-store settings.
type DatabaseConfig struct {
	Driver string `toml:"driver"` // "inmem" or "sqlite"
	DSN    string `toml:"dsn"`    // sqlite file path, ignored for inmem
}

// Default returns the built-in defaults used when no config file, env var,
// or flag overrides them.
func Default() Config {
	return Config{
		Planner: PlannerConfig{MaxLevel: 0, TracePath: ""},
		Server:  ServerConfig{ListenAddr: ":8080", JWTSecret: ""},
		Database: DatabaseConfig{
			Driver: "inmem",
			DSN:    "plannerd.sqlite",
		},
	}
}

// Load reads cfg from path (if non-empty), applies the PLANNER_MAX_LEVEL
// environment override (spec §6), and returns the merged Config. An empty
// path is not an error: the built-in defaults are used as the base.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %q: %w", path, err)
		}
	}

	if v := os.Getenv("PLANNER_MAX_LEVEL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PLANNER_MAX_LEVEL must be an integer, got %q: %w", v, err)
		}
		cfg.Planner.MaxLevel = n
	}

	return cfg, nil
}
