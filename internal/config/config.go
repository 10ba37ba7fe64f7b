package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Index drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// Config holds the postguard configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Index    IndexConfig    `yaml:"index"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Events   EventsConfig   `yaml:"events"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings (serve mode).
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// IndexConfig selects where the content index lives.
type IndexConfig struct {
	Driver   string `yaml:"driver"`    // file, redis (default: file)
	Path     string `yaml:"path"`      // file driver
	RedisKey string `yaml:"redis_key"` // redis driver
}

// DatabaseConfig holds Redis connection settings for the redis driver.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EventsConfig configures accepted-post events. No brokers disables them.
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether events should be published.
func (e EventsConfig) Enabled() bool { return len(e.Brokers) > 0 }

// Load reads configuration for an environment (local, dev, prod).
// It looks for config/<env>.yaml, then $XDG_CONFIG_HOME/postguard/config.yaml.
// With no file found it returns the defaults.
func Load(env string) (Config, error) {
	path, ok := findConfigPath(env)
	if !ok {
		cfg := Config{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from an explicit YAML file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// DefaultIndexPath is the file index location under the XDG data directory.
func DefaultIndexPath() string {
	return filepath.Join(xdg.DataHome, "postguard", "content-index.json")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverFile
	}
	if c.Index.Path == "" {
		c.Index.Path = DefaultIndexPath()
	}
	if c.Index.RedisKey == "" {
		c.Index.RedisKey = "postguard:index"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "post.accepted"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Index.Driver {
	case DriverFile:
		if c.Index.Path == "" {
			return errors.New("index.path is required for the file driver")
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return errors.New("database.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("index.driver must be %q or %q, got %q", DriverFile, DriverRedis, c.Index.Driver)
	}
	return nil
}

// findConfigPath locates the config file for env.
func findConfigPath(env string) (string, bool) {
	candidates := []string{
		filepath.Join("config", env+".yaml"),
		filepath.Join(xdg.ConfigHome, "postguard", "config.yaml"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return p, true // let LoadFile report the real error
		}
	}
	return "", false
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
