package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	Web     WebConfig
}

type ServerConfig struct {
	Port string
}

type APIConfig struct {
	BaseURL string
}

type SessionConfig struct {
	// Backend is "file" or "redis".
	Backend     string
	FilePath    string
	RedisURL    string
	RedisPrefix string
}

type WebConfig struct {
	// CookieSecret signs the flash-notification cookie.
	CookieSecret string
	// LoginRateLimit is an ulule/limiter rate string ("20-M"). Empty disables.
	LoginRateLimit string
	IsDevelopment  bool
}

func Load() (*Config, error) {
	viper.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		viper.SetConfigFile(p)
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8089"),
		},
		API: APIConfig{
			BaseURL: getEnvOrDefault("API_BASE_URL", "http://localhost:5000/api"),
		},
		Session: SessionConfig{
			Backend:     getEnvOrDefault("SESSION_BACKEND", "file"),
			FilePath:    getEnvOrDefault("SESSION_FILE", ""),
			RedisURL:    getEnvOrDefault("REDIS_URL", ""),
			RedisPrefix: getEnvOrDefault("SESSION_REDIS_PREFIX", ""),
		},
		Web: WebConfig{
			CookieSecret:   getEnvOrDefault("COOKIE_SECRET", ""),
			LoginRateLimit: getEnvOrDefault("LOGIN_RATE_LIMIT", "20-M"),
			IsDevelopment:  viper.GetBool("DEV_MODE"),
		},
	}
	if cfg.Session.FilePath == "" {
		cfg.Session.FilePath = defaultSessionFile()
	}
	return cfg, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wardroom", "session.json")
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
