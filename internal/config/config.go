// Package config resolves server settings from defaults, an optional YAML or
// TOML file, and TODO_* environment variables (in that order of precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string `yaml:"addr" toml:"addr"`
	DBPath        string `yaml:"db" toml:"db"`
	SecretKeyFile string `yaml:"secret_key_file" toml:"secret_key_file"`
	SecureCookies bool   `yaml:"secure_cookies" toml:"secure_cookies"`
	Log           Log    `yaml:"log" toml:"log"`
	HTTP          HTTP   `yaml:"http" toml:"http"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level"`   // debug|info|warn|error
	Format string `yaml:"format" toml:"format"` // text|json
}

type HTTP struct {
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// Duration accepts Go duration strings ("15s") in both file formats.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Addr:          "127.0.0.1:5000",
		DBPath:        filepath.Join("data", "todo.sqlite"),
		SecretKeyFile: filepath.Join("data", "secret.key"),
		Log:           Log{Level: "info", Format: "text"},
		HTTP: HTTP{
			ReadTimeout:     Duration{15 * time.Second},
			WriteTimeout:    Duration{15 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
	}
}

// Load returns defaults overlaid with the file at path (if non-empty) and then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(b), cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config: unsupported file type %q (expected .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := envOr("TODO_ADDR", ""); v != "" {
		cfg.Addr = v
	}
	if v := envOr("TODO_DB", ""); v != "" {
		cfg.DBPath = v
	}
	if v := envOr("TODO_SECRET_KEY_FILE", ""); v != "" {
		cfg.SecretKeyFile = v
	}
	if v := envOr("TODO_LOG_LEVEL", ""); v != "" {
		cfg.Log.Level = v
	}
	if v := envOr("TODO_LOG_FORMAT", ""); v != "" {
		cfg.Log.Format = v
	}
	switch strings.ToLower(envOr("TODO_SECURE_COOKIES", "")) {
	case "1", "true", "yes":
		cfg.SecureCookies = true
	case "0", "false", "no":
		cfg.SecureCookies = false
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("config: addr is empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db path is empty")
	}
	if strings.TrimSpace(c.SecretKeyFile) == "" {
		return errors.New("config: secret key file is empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log level %q (expected debug|info|warn|error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: invalid log format %q (expected text|json)", c.Log.Format)
	}
	return nil
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}
