package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the edgardex configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Search  SearchConfig  `yaml:"search"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	Mode            string `yaml:"mode"` // http, mcp (default: http)
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Driver string      `yaml:"driver"` // memory, file, redis (default: memory)
	File   FileConfig  `yaml:"file"`
	Redis  RedisConfig `yaml:"redis"`
}

// FileConfig holds local-file backend settings.
type FileConfig struct {
	Dir        string `yaml:"dir"`
	Watch      bool   `yaml:"watch"` // reload when the data files change on disk
	DebounceMS int    `yaml:"debounce_ms"`
}

// RedisConfig holds remote-table backend settings.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	OpTimeoutSec     int      `yaml:"op_timeout_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds page-size policy.
type SearchConfig struct {
	DefaultPageSize    int `yaml:"default_page_size"`
	MaxPageSize        int `yaml:"max_page_size"`
	MaxContentPageSize int `yaml:"max_content_page_size"`
}

// AuthConfig holds API authentication settings. An empty token disables auth.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev,
// prod). A missing file is not an error: the service runs on pure defaults.
func Load(env string) (Config, error) {
	var cfg Config

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case os.IsNotExist(err):
		// No file for this environment — defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	default:
		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Server.Mode == "" {
		c.Server.Mode = "http"
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = 30
	}
	if c.Server.ShutdownSec <= 0 {
		c.Server.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.File.Dir == "" {
		c.Storage.File.Dir = "data"
	}
	if c.Storage.File.DebounceMS <= 0 {
		c.Storage.File.DebounceMS = 250
	}
	if c.Storage.Redis.KeyPrefix == "" {
		c.Storage.Redis.KeyPrefix = "edgardex:"
	}
	if c.Storage.Redis.OpTimeoutSec <= 0 {
		c.Storage.Redis.OpTimeoutSec = 5
	}
	if c.Storage.Redis.ReadinessTimeout <= 0 {
		c.Storage.Redis.ReadinessTimeout = 15
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 50
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 1000
	}
	if c.Search.MaxContentPageSize <= 0 {
		c.Search.MaxContentPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Server.Mode {
	case "http", "mcp":
		// ok
	default:
		return fmt.Errorf("server.mode must be \"http\" or \"mcp\", got %q", c.Server.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "memory", "file", "redis":
		// ok
	default:
		return fmt.Errorf(
			"storage.driver must be \"memory\", \"file\" or \"redis\", got %q", c.Storage.Driver,
		)
	}
	if c.Storage.Driver == "redis" && len(c.Storage.Redis.Addrs) == 0 {
		return fmt.Errorf("storage.redis.addrs is required for the redis driver")
	}
	if c.Storage.Driver == "file" && c.Storage.File.Dir == "" {
		return fmt.Errorf("storage.file.dir is required for the file driver")
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size must be <= search.max_page_size, got %d > %d",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
