package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	t.Setenv("CHECKLIST_HTTP_ADDR", ":7777")
	t.Setenv("CHECKLIST_STORAGE", "s3")
	t.Setenv("CHECKLIST_MAX_UPLOAD_SIZE", "99")
	t.Setenv("CHECKLIST_SHUTDOWN_TIMEOUT", "1m")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, "")

	assert.Equal(t, ":7777", cfg.HTTPAddr)
	assert.Equal(t, StorageS3, cfg.Storage)
	assert.Equal(t, int64(99), cfg.MaxUploadSize)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	assert.Equal(t, "uploads", cfg.UploadDir)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHECKLIST_UPLOAD_DIR=/from/dotenv\nCHECKLIST_LOG_FORMAT=text\n"), 0o600))
	t.Setenv("CHECKLIST_LOG_FORMAT", "json")
	t.Cleanup(func() { _ = os.Unsetenv("CHECKLIST_UPLOAD_DIR") })

	cfg := &Config{}
	parseEnv(cfg, path)

	assert.Equal(t, "/from/dotenv", cfg.UploadDir)
	assert.Equal(t, "json", cfg.LogFormat, "existing environment wins over .env")
}

func TestParseEnv_MissingFileIgnored(t *testing.T) {
	cfg := &Config{}
	require.NotPanics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), ".env")) })
}

func TestParseEnv_BadNumberPanics(t *testing.T) {
	t.Setenv("CHECKLIST_MAX_UPLOAD_SIZE", "big")
	require.Panics(t, func() { parseEnv(&Config{}, "") })
}
