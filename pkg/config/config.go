package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig `yaml:"server"`
	Pool    PoolConfig   `yaml:"pool"`
	Routes  RoutesConfig `yaml:"routes"`
	Logging LogConfig    `yaml:"logging"`
}

// ServerConfig contains settings for the listening socket
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	ReadTimeout   int    `yaml:"read_timeout"`   // per-connection read deadline in seconds, 0 disables
	WriteTimeout  int    `yaml:"write_timeout"`  // per-connection write deadline in seconds, 0 disables
	NotFoundAs404 bool   `yaml:"not_found_as_404"` // return 404 instead of 200 for unmatched paths
}

// PoolConfig contains settings for the worker pool
type PoolConfig struct {
	Workers    int `yaml:"workers"`
	QueueDepth int `yaml:"queue_depth"`
}

// RouteEntry maps a request path to the file served for it
type RouteEntry struct {
	Path string `yaml:"path"`
	File string `yaml:"file"`
}

// RoutesConfig contains the static route registrations
type RoutesConfig struct {
	Entries      []RouteEntry `yaml:"entries"`
	FallbackFile string       `yaml:"fallback_file"`
}

// LogConfig contains settings for logging
type LogConfig struct {
	LogToFile   bool   `yaml:"log_to_file"`
	LogFilePath string `yaml:"log_file_path"`
	MaxSize     int    `yaml:"max_size"`    // maximum size in megabytes
	MaxBackups  int    `yaml:"max_backups"` // maximum number of old log files to retain
	MaxAge      int    `yaml:"max_age"`     // maximum number of days to retain old log files
	Compress    bool   `yaml:"compress"`    // compress determines if the rotated log files should be compressed
}

// LoadDefault returns a configuration with default values
func LoadDefault() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         7878,
			ReadTimeout:  0,
			WriteTimeout: 0,
		},
		Pool: PoolConfig{
			Workers:    4,
			QueueDepth: 64,
		},
		Routes: RoutesConfig{
			Entries: []RouteEntry{
				{Path: "/", File: "main.html"},
			},
			FallbackFile: "unknown.html",
		},
		Logging: LogConfig{
			LogToFile:   false,
			LogFilePath: "poolhttpd.log",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
			Compress:    true,
		},
	}
}

// Load reads configuration from a file and merges it with default values
func Load(configPath string) (*Config, error) {
	// Start with default configuration
	cfg := LoadDefault()

	// Read configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Create a temporary config to parse the file
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge server configuration
	if fileCfg.Server.Host != "" {
		cfg.Server.Host = fileCfg.Server.Host
	}
	if fileCfg.Server.Port > 0 {
		cfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Server.ReadTimeout > 0 {
		cfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if fileCfg.Server.WriteTimeout > 0 {
		cfg.Server.WriteTimeout = fileCfg.Server.WriteTimeout
	}
	if fileCfg.Server.NotFoundAs404 {
		cfg.Server.NotFoundAs404 = fileCfg.Server.NotFoundAs404
	}

	// Merge pool configuration
	if fileCfg.Pool.Workers > 0 {
		cfg.Pool.Workers = fileCfg.Pool.Workers
	}
	if fileCfg.Pool.QueueDepth > 0 {
		cfg.Pool.QueueDepth = fileCfg.Pool.QueueDepth
	}

	// Merge route configuration
	if len(fileCfg.Routes.Entries) > 0 {
		cfg.Routes.Entries = fileCfg.Routes.Entries
	}
	if fileCfg.Routes.FallbackFile != "" {
		cfg.Routes.FallbackFile = fileCfg.Routes.FallbackFile
	}

	// Merge logging configuration
	if fileCfg.Logging.LogToFile {
		cfg.Logging.LogToFile = fileCfg.Logging.LogToFile
	}
	if fileCfg.Logging.LogFilePath != "" {
		cfg.Logging.LogFilePath = fileCfg.Logging.LogFilePath
	}
	if fileCfg.Logging.MaxSize > 0 {
		cfg.Logging.MaxSize = fileCfg.Logging.MaxSize
	}
	if fileCfg.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = fileCfg.Logging.MaxBackups
	}
	if fileCfg.Logging.MaxAge > 0 {
		cfg.Logging.MaxAge = fileCfg.Logging.MaxAge
	}
	if fileCfg.Logging.Compress {
		cfg.Logging.Compress = fileCfg.Logging.Compress
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadOrDefault attempts to load configuration from a file
// If the file doesn't exist or can't be parsed, it returns default configuration
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Log the error but continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", configPath, err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg = LoadDefault()
		applyEnvOverrides(cfg)
	}
	return cfg
}

// applyEnvOverrides lets the environment win over file and defaults
func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("POOLHTTPD_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("POOLHTTPD_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
}

// Address returns the host:port the server should listen on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
