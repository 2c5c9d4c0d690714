package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, time.Hour, cfg.ResetTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTokenTTL)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DB_DRIVER=sqlite\nJWT_EXPIRY=30m\nCORS_ALLOWED_ORIGINS=http://a.test, http://b.test\nPUBLIC_BASE_URL=http://exams.test/\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set
	for _, key := range []string{"DB_DRIVER", "JWT_EXPIRY", "CORS_ALLOWED_ORIGINS", "PUBLIC_BASE_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "http://exams.test", cfg.PublicBaseURL)
}

func TestEventConfig_CreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		cfg  EventConfig
	}{
		{name: "disabled", cfg: EventConfig{Enabled: false, Publisher: "kafka"}},
		{name: "mock", cfg: EventConfig{Enabled: true, Publisher: "mock"}},
		{name: "unknown falls back to mock", cfg: EventConfig{Enabled: true, Publisher: "rabbit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, err := tt.cfg.CreateEventPublisher(logger)
			require.NoError(t, err)
			assert.IsType(t, &events.MockEventPublisher{}, publisher)
		})
	}
}

func TestEventConfig_GetKafkaBrokers(t *testing.T) {
	cfg := EventConfig{KafkaBrokers: "k1:9092, k2:9092,"}
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.GetKafkaBrokers())
}
