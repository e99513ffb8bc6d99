package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation  SimulationConfig  `toml:"simulation"`
	View        ViewConfig        `toml:"view"`
	Data        DataConfig        `toml:"data"`
	Pathfinding PathfindingConfig `toml:"pathfinding"`
	Journal     JournalConfig     `toml:"journal"`
	Logging     LoggingConfig     `toml:"logging"`
}

type SimulationConfig struct {
	TickRate   time.Duration `toml:"tick_rate"`
	Seed       int64         `toml:"seed"`
	SectorSize int           `toml:"sector_size"` // tiles per sector edge
	MapID      int           `toml:"map_id"`
	MaxTicks   uint64        `toml:"max_ticks"` // 0 = run until signalled
}

type ViewConfig struct {
	CenterX float64 `toml:"center_x"` // world pixels
	CenterY float64 `toml:"center_y"`
	Width   float64 `toml:"width"` // viewport pixels
	Height  float64 `toml:"height"`
	Follow  string  `toml:"follow"` // entity name the view tracks, empty = fixed
}

type DataConfig struct {
	MapList string `toml:"map_list"`
	TileDir string `toml:"tile_dir"`
	Classes string `toml:"classes"`
	Scripts string `toml:"scripts"`
	Spawns  string `toml:"spawns"`
}

type PathfindingConfig struct {
	CacheCounters int64 `toml:"cache_counters"`
	CacheMaxCost  int64 `toml:"cache_max_cost"` // total path tiles kept
}

type JournalConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the journal
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	FlushInterval   int           `toml:"flush_interval"` // ticks between batch writes
	WriteTimeout    time.Duration `toml:"write_timeout"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"` // "json" or "console"
	File       string `toml:"file"`   // optional rotating log file
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive")
	}
	if c.Simulation.SectorSize <= 0 {
		return fmt.Errorf("simulation.sector_size must be positive")
	}
	if c.View.Width < 0 || c.View.Height < 0 {
		return fmt.Errorf("view size must not be negative")
	}
	return nil
}

// Defaults returns the configuration used for any key the file omits.
func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:   time.Second / 60,
			Seed:       1,
			SectorSize: 8,
			MapID:      1,
		},
		View: ViewConfig{
			Width:  1280,
			Height: 720,
		},
		Data: DataConfig{
			MapList: "data/yaml/map_list.yaml",
			TileDir: "map",
			Classes: "data/yaml/classes.yaml",
			Scripts: "scripts",
			Spawns:  "data/yaml/spawn_list.yaml",
		},
		Pathfinding: PathfindingConfig{
			CacheCounters: 10000,
			CacheMaxCost:  1 << 20,
		},
		Journal: JournalConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
			FlushInterval:   300,
			WriteTimeout:    5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  64,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}
