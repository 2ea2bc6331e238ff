package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"ENVIRONMENT", "PORT", "POW_DIFFICULTY", "ALLOWED_ORIGINS", "JWT_SECRET", "DATABASE_URL",
	"HEARTBEAT_INTERVAL", "HEARTBEAT_TIMEOUT", "UPLOAD_DIR", "TRANSLATE_URL",
	"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
}

// clearEnv blanks every key this package reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 4040, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, developmentJWTSecret, cfg.JWTSecret)
	assert.Equal(t, developmentDatabaseDSN, cfg.DatabaseDSN)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.False(t, cfg.UsesS3())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://db/relay")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("HEARTBEAT_INTERVAL", "10s")
	t.Setenv("HEARTBEAT_TIMEOUT", "2s")
	t.Setenv("POW_DIFFICULTY", "3")
	t.Setenv("S3_BUCKET_NAME", "blobs")
	t.Setenv("S3_ENDPOINT", "https://s3.example")
	t.Setenv("S3_ACCESS_KEY_ID", "id")
	t.Setenv("S3_SECRET_ACCESS_KEY", "key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 2*time.Second, cfg.HeartbeatTimeout)
	assert.Equal(t, 3, cfg.PowDifficulty)
	assert.True(t, cfg.UsesS3())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "abc"}},
		{"privileged port", map[string]string{"PORT": "80"}},
		{"bad pow", map[string]string{"POW_DIFFICULTY": "12"}},
		{"bad interval", map[string]string{"HEARTBEAT_INTERVAL": "soon"}},
		{"timeout not shorter", map[string]string{"HEARTBEAT_INTERVAL": "1s", "HEARTBEAT_TIMEOUT": "1s"}},
		{"production without secret", map[string]string{"ENVIRONMENT": "production", "DATABASE_URL": "postgres://x"}},
		{"production without database", map[string]string{"ENVIRONMENT": "production", "JWT_SECRET": "x"}},
		{"partial s3", map[string]string{"S3_BUCKET_NAME": "blobs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
