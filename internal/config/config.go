package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Coach     CoachConfig     `yaml:"coach"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig selects the storage backend: "sqlite" (default, single
// file under Dir) or "postgres".
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Dir      string `yaml:"dir"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// CoachConfig points at an OpenAI-compatible endpoint for the AI coach.
// An empty APIKey disables the coach; insight endpoints then serve static
// fallback text.
type CoachConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix REPCOACH_ and underscore-separated paths:
//
//	REPCOACH_SERVER_HOST, REPCOACH_SERVER_PORT,
//	REPCOACH_DB_DRIVER, REPCOACH_DB_DIR,
//	REPCOACH_DB_HOST, REPCOACH_DB_PORT, REPCOACH_DB_NAME,
//	REPCOACH_DB_USER, REPCOACH_DB_PASSWORD, REPCOACH_DB_SSLMODE,
//	REPCOACH_AUTH_API_KEY,
//	REPCOACH_COACH_BASE_URL, REPCOACH_COACH_API_KEY, REPCOACH_COACH_MODEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPCOACH_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPCOACH_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("REPCOACH_DB_DIR"); v != "" {
		cfg.Database.Dir = v
	}
	if v := os.Getenv("REPCOACH_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPCOACH_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPCOACH_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPCOACH_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPCOACH_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPCOACH_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPCOACH_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPCOACH_COACH_BASE_URL"); v != "" {
		cfg.Coach.BaseURL = v
	}
	if v := os.Getenv("REPCOACH_COACH_API_KEY"); v != "" {
		cfg.Coach.APIKey = v
	}
	if v := os.Getenv("REPCOACH_COACH_MODEL"); v != "" {
		cfg.Coach.Model = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.Dir == "" {
		cfg.Database.Dir = "data"
	}
	if cfg.Coach.Model == "" {
		cfg.Coach.Model = "gpt-4o-mini"
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required for postgres")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required for postgres")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for postgres")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	return nil
}
