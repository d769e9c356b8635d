package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"dmmap/internal/geom"
	"dmmap/internal/mapview"
	"dmmap/internal/store"
)

// Config holds all application configuration.
type Config struct {
	Map    MapConfig    `mapstructure:"map"`
	Render RenderConfig `mapstructure:"render"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type MapConfig struct {
	DefaultLat float64 `mapstructure:"default_lat"`
	DefaultLng float64 `mapstructure:"default_lng"`
	Style      string  `mapstructure:"style"`
}

func (m MapConfig) Center() geom.LatLng {
	return geom.LatLng{Lat: m.DefaultLat, Lng: m.DefaultLng}
}

// MapStyle returns the configured style; Validate has already rejected
// unknown names.
func (m MapConfig) MapStyle() mapview.Style {
	s, _ := mapview.ParseStyle(m.Style)
	return s
}

type RenderConfig struct {
	VisibleThreshold int           `mapstructure:"visible_threshold"`
	IdleDelay        time.Duration `mapstructure:"idle_delay"`
	PanFrames        int           `mapstructure:"pan_frames"`
}

type IngestConfig struct {
	ProgressEvery int `mapstructure:"progress_every"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port        int `mapstructure:"port"`
	BodyLimitMB int `mapstructure:"body_limit_mb"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from defaults, an optional config.yaml and
// DMMAP_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("map.default_lat", 51.5074)
	v.SetDefault("map.default_lng", -0.1278)
	v.SetDefault("map.style", mapview.Roadmap.String())
	v.SetDefault("render.visible_threshold", 500)
	v.SetDefault("render.idle_delay", "150ms")
	v.SetDefault("render.pan_frames", mapview.DefaultPanFrames)
	v.SetDefault("ingest.progress_every", geom.DefaultProgressEvery)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit_mb", 32)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// DMMAP_RENDER_VISIBLE_THRESHOLD → render.visible_threshold
	v.SetEnvPrefix("DMMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if !finite(c.Map.DefaultLat) || c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 {
		errs = append(errs, fmt.Sprintf("map.default_lat must be within [-90, 90], got %v", c.Map.DefaultLat))
	}
	if !finite(c.Map.DefaultLng) || c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 {
		errs = append(errs, fmt.Sprintf("map.default_lng must be within [-180, 180], got %v", c.Map.DefaultLng))
	}
	if _, err := mapview.ParseStyle(c.Map.Style); err != nil {
		errs = append(errs, fmt.Sprintf("map.style: %v", err))
	}
	if c.Render.VisibleThreshold <= 0 {
		errs = append(errs, "render.visible_threshold must be positive")
	}
	if c.Render.IdleDelay <= 0 {
		errs = append(errs, "render.idle_delay must be positive")
	}
	if c.Render.PanFrames <= 0 {
		errs = append(errs, "render.pan_frames must be positive")
	}
	if c.Ingest.ProgressEvery <= 0 {
		errs = append(errs, "ingest.progress_every must be positive")
	}
	switch strings.ToLower(c.Store.Driver) {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be memory or sqlite, got %q", c.Store.Driver))
	}
	if !store.InMemoryDSN(c.Store.DSN) {
		errs = append(errs, fmt.Sprintf("store.dsn must be an in-memory sqlite dsn, got %q", c.Store.DSN))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.BodyLimitMB <= 0 {
		errs = append(errs, "server.body_limit_mb must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
