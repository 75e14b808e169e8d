package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ModeRemote = "remote"
	ModeLocal  = "local"
)

type Config struct {
	Client    ClientConfig    `yaml:"client"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Collector CollectorConfig `yaml:"collector"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ClientConfig configures the dashboard. BaseURL may carry a
// ?section= query selecting the initial section.
type ClientConfig struct {
	Mode       string        `yaml:"mode"` // remote or local
	BaseURL    string        `yaml:"base_url"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
	SamplePath string        `yaml:"sample_path"` // JSONL for local mode; empty uses the bundled sample
}

type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	APITokenHash      string        `yaml:"api_token_hash"` // bcrypt hash; empty disables auth
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	DashboardCacheTTL time.Duration `yaml:"dashboard_cache_ttl"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type CollectorConfig struct {
	Enabled        bool          `yaml:"enabled"`
	JournalctlPath string        `yaml:"journalctl_path"`
	Interval       time.Duration `yaml:"interval"`
	Timeout        time.Duration `yaml:"timeout"`
	Since          string        `yaml:"since"`
}

type ArchiveConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Dir           string        `yaml:"dir"`
	MaxSizeMB     int           `yaml:"max_size_mb"`
	TTL           time.Duration `yaml:"ttl"`
	EvictInterval time.Duration `yaml:"evict_interval"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, console
	OutputFile string `yaml:"output_file"` // empty for stderr
}

func Default() Config {
	return Config{
		Client: ClientConfig{
			Mode:    ModeRemote,
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr:              ":5000",
			RequestTimeout:    30 * time.Second,
			DashboardCacheTTL: 5 * time.Second,
		},
		Store: StoreConfig{Path: "logs_db.sqlite3"},
		Collector: CollectorConfig{
			Enabled:  true,
			Interval: 5 * time.Second,
			Timeout:  30 * time.Second,
			Since:    "5 minutes ago",
		},
		Archive: ArchiveConfig{
			Dir:           "archive",
			MaxSizeMB:     512,
			TTL:           7 * 24 * time.Hour,
			EvictInterval: time.Hour,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := DecodeStrict(f, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// DecodeStrict decodes YAML from a reader and rejects unknown fields.
func DecodeStrict(r io.Reader, out any) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks every section and returns all problems joined.
func (c Config) Validate() error {
	return errors.Join(c.validateClient(), c.validateServer(), c.Logging.validate())
}

// ValidateClient checks the sections the dashboard uses.
func (c Config) ValidateClient() error {
	return errors.Join(c.validateClient(), c.Logging.validate())
}

// ValidateServer checks the sections the API server uses.
func (c Config) ValidateServer() error {
	return errors.Join(c.validateServer(), c.Logging.validate())
}

func (c Config) validateClient() error {
	var errs []error
	switch c.Client.Mode {
	case ModeRemote:
		u, err := url.Parse(c.Client.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{"client.base_url", fmt.Sprintf("must be an http(s) URL; got %q", c.Client.BaseURL)})
		}
	case ModeLocal:
	default:
		errs = append(errs, ValidationError{"client.mode", fmt.Sprintf("must be %q or %q; got %q", ModeRemote, ModeLocal, c.Client.Mode)})
	}
	if c.Client.Timeout <= 0 {
		errs = append(errs, ValidationError{"client.timeout", "must be positive"})
	}
	return errors.Join(errs...)
}

func (c Config) validateServer() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{"server.addr", "must not be empty"})
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, ValidationError{"server.request_timeout", "must be positive"})
	}
	if c.Server.DashboardCacheTTL < 0 {
		errs = append(errs, ValidationError{"server.dashboard_cache_ttl", "must not be negative"})
	}
	if c.Store.Path == "" {
		errs = append(errs, ValidationError{"store.path", "must not be empty"})
	}
	if c.Collector.Enabled {
		if c.Collector.Interval <= 0 {
			errs = append(errs, ValidationError{"collector.interval", "must be positive"})
		}
		if c.Collector.Timeout <= 0 {
			errs = append(errs, ValidationError{"collector.timeout", "must be positive"})
		}
	}
	if c.Archive.Enabled {
		if c.Archive.Dir == "" {
			errs = append(errs, ValidationError{"archive.dir", "must not be empty"})
		}
		if c.Archive.MaxSizeMB < 0 {
			errs = append(errs, ValidationError{"archive.max_size_mb", fmt.Sprintf("must be >= 0; got %d", c.Archive.MaxSizeMB)})
		}
		if c.Archive.EvictInterval <= 0 {
			errs = append(errs, ValidationError{"archive.evict_interval", "must be positive"})
		}
	}
	return errors.Join(errs...)
}

func (l LoggingConfig) validate() error {
	var errs []error
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("must be debug, info, warn or error; got %q", l.Level)})
	}
	switch l.Format {
	case "json", "console":
	default:
		errs = append(errs, ValidationError{"logging.format", fmt.Sprintf("must be json or console; got %q", l.Format)})
	}
	return errors.Join(errs...)
}
