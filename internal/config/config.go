package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	API       APIConfig       `yaml:"api"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// APIConfig points at the remote contest API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in that order of precedence from lowest.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		API: APIConfig{
			BaseURL: "http://localhost:8081/api",
		},
		Transport: TransportConfig{
			Mode: ModeStdio,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	envFile := os.Getenv("HACKVOTE_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// Variables already set in the environment win over the file.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	if path := os.Getenv("HACKVOTE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("HACKVOTE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("HACKVOTE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HACKVOTE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if baseURL := os.Getenv("HACKVOTE_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if mode := os.Getenv("HACKVOTE_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if level := os.Getenv("HACKVOTE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if path := os.Getenv("HACKVOTE_LOG_PATH"); path != "" {
		cfg.Log.Path = path
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of options.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeStdio, ModeHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.API.BaseURL == "" {
		return errors.New("api base_url is required")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
