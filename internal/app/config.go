package app

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/utils"
)

type Config struct {
	Mode           string
	Port           string
	JWTSecretKey   string
	FeedPageSize   int
	AllowedOrigins []string
}

// fileConfig mirrors the optional YAML overlay pointed at by FORKFUL_CONFIG.
// Any field present in the file overrides the environment value.
type fileConfig struct {
	Mode           string   `yaml:"mode"`
	Port           string   `yaml:"port"`
	JWTSecretKey   string   `yaml:"jwt_secret_key"`
	FeedPageSize   int      `yaml:"feed_page_size"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Mode:         utils.GetEnv("APP_MODE", "development", log),
		Port:         utils.GetEnv("PORT", "8080", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		FeedPageSize: utils.GetEnvAsInt("FEED_PAGE_SIZE", 15, log),
	}
	if raw := utils.GetEnv("ALLOWED_ORIGINS", "", log); raw != "" {
		cfg.AllowedOrigins = server.SplitOrigins(raw)
	}

	if path := os.Getenv("FORKFUL_CONFIG"); path != "" {
		applyFileOverlay(&cfg, path, log)
	}
	return cfg
}

func applyFileOverlay(cfg *Config, path string, log *logger.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("config overlay unreadable (ignored)", "path", path, "error", err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("config overlay invalid yaml (ignored)", "path", path, "error", err)
		return
	}
	if fc.Mode != "" {
		cfg.Mode = fc.Mode
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.JWTSecretKey != "" {
		cfg.JWTSecretKey = fc.JWTSecretKey
	}
	if fc.FeedPageSize > 0 {
		cfg.FeedPageSize = fc.FeedPageSize
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	log.Info("applied config overlay", "path", path)
}
