package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forkful/forkful-backend/internal/pkg/logger"
)

func configLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("APP_MODE", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("FEED_PAGE_SIZE", "25")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("FORKFUL_CONFIG", "")

	cfg := LoadConfig(configLogger(t))

	if cfg.Mode != "production" {
		t.Fatalf("mode: want=production got=%q", cfg.Mode)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port: want=9090 got=%q", cfg.Port)
	}
	if cfg.JWTSecretKey != "env-secret" {
		t.Fatalf("secret: got=%q", cfg.JWTSecretKey)
	}
	if cfg.FeedPageSize != 25 {
		t.Fatalf("page size: want=25 got=%d", cfg.FeedPageSize)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("origins: got=%v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverlayOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "env-secret")

	path := filepath.Join(t.TempDir(), "forkful.yaml")
	overlay := "port: \"7070\"\njwt_secret_key: file-secret\nfeed_page_size: 30\nallowed_origins:\n  - https://app.forkful.dev\n"
	if err := os.WriteFile(path, []byte(overlay), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("FORKFUL_CONFIG", path)

	cfg := LoadConfig(configLogger(t))

	if cfg.Port != "7070" {
		t.Fatalf("port: want=7070 got=%q", cfg.Port)
	}
	if cfg.JWTSecretKey != "file-secret" {
		t.Fatalf("secret: want=file-secret got=%q", cfg.JWTSecretKey)
	}
	if cfg.FeedPageSize != 30 {
		t.Fatalf("page size: want=30 got=%d", cfg.FeedPageSize)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.forkful.dev" {
		t.Fatalf("origins: got=%v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigIgnoresBrokenOverlay(t *testing.T) {
	t.Setenv("PORT", "9090")
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("{{{ not yaml"), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}
	t.Setenv("FORKFUL_CONFIG", path)

	cfg := LoadConfig(configLogger(t))

	if cfg.Port != "9090" {
		t.Fatalf("broken overlay must not override env: got=%q", cfg.Port)
	}
}
