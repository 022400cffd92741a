package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Supabase    SupabaseConfig `yaml:"supabase"`
	Admin       AdminConfig    `yaml:"admin"`
	Logging     LoggingConfig  `yaml:"logging"`
	Environment string         `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// SupabaseConfig is what the deployment knows about the remote backend. URL
// and AnonKey are served at the config endpoint; ConfigEndpoint is where the
// in-process components fetch them back from (empty means the server's own
// endpoint). Leaving URL or AnonKey unset makes the config endpoint fail
// closed.
type SupabaseConfig struct {
	URL            string `yaml:"url"`
	AnonKey        string `yaml:"anon_key"`
	ConfigEndpoint string `yaml:"config_endpoint"`
	EventsTable    string `yaml:"events_table"`
	ImageBucket    string `yaml:"image_bucket"`
}

type AdminConfig struct {
	// CSRFKey should be 32 bytes; empty means a random key is generated at
	// startup (admin sessions do not survive restarts anyway).
	CSRFKey        string `yaml:"csrf_key"`
	LoginPerMinute int    `yaml:"login_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds configuration from an optional YAML file overridden by
// environment variables. path may be empty.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Supabase: SupabaseConfig{
			EventsTable: "events",
			ImageBucket: "event-images",
		},
		Admin: AdminConfig{
			LoginPerMinute: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Environment: "development",
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)

	cfg.Supabase.URL = getEnv("SUPABASE_URL", cfg.Supabase.URL)
	cfg.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", cfg.Supabase.AnonKey)
	cfg.Supabase.ConfigEndpoint = getEnv("SUPABASE_CONFIG_ENDPOINT", cfg.Supabase.ConfigEndpoint)
	cfg.Supabase.EventsTable = getEnv("SUPABASE_EVENTS_TABLE", cfg.Supabase.EventsTable)
	cfg.Supabase.ImageBucket = getEnv("SUPABASE_IMAGE_BUCKET", cfg.Supabase.ImageBucket)

	cfg.Admin.CSRFKey = getEnv("ADMIN_CSRF_KEY", cfg.Admin.CSRFKey)
	cfg.Admin.LoginPerMinute = getEnvInt("ADMIN_LOGIN_PER_MINUTE", cfg.Admin.LoginPerMinute)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
