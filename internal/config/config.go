package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application's configuration model.
// It captures the backend endpoint, console timings, logging and storage.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Storage StorageConfig `yaml:"storage"`
}

type APIConfig struct {
	BaseURL string `yaml:"baseURL"`
	// Optional bearer token. If empty, read from env SOCIALDESK_API_TOKEN
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	// Outbound request budget; RPS <= 0 disables limiting
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ConsoleConfig struct {
	PollInterval time.Duration `yaml:"pollInterval"`
	NotifyTTL    time.Duration `yaml:"notifyTTL"`
	// IANA zone used for display and edit buffers; empty means local time
	Timezone string `yaml:"timezone"`
	// Route opened when the console starts
	StartPage string `yaml:"startPage"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "text"
	// Log file path. The interactive console never logs to the terminal;
	// with no file configured its logs are discarded.
	File string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	// sqlite path for the action journal; empty disables the journal
	JournalPath string `yaml:"journalPath"`
}

// Default returns a sensible default configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 15 * time.Second,
			RPS:     5,
			Burst:   10,
		},
		Console: ConsoleConfig{
			PollInterval: 30 * time.Second,
			NotifyTTL:    3500 * time.Millisecond,
			StartPage:    "schedule-post",
		},
		Log:     LogConfig{Level: "info", Format: "json"},
		Storage: StorageConfig{JournalPath: "./socialdesk.db"},
	}
}

// ResolveEnv fills in config fields from environment variables if not set.
func (c *Config) ResolveEnv() {
	if c.API.Token == "" {
		c.API.Token = os.Getenv("SOCIALDESK_API_TOKEN")
	}
	if v := os.Getenv("SOCIALDESK_API_BASE_URL"); v != "" && c.API.BaseURL == "" {
		c.API.BaseURL = v
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = os.Getenv("METRICS_ADDR")
	}
}

// Location resolves the configured display timezone.
func (c ConsoleConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads YAML config from path. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.ResolveEnv()
	return cfg, nil
}

// Save writes YAML config to path, creating directories as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		return errors.New("empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
