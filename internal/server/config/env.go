package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile (if it exists) into the process environment without
// overriding variables that are already set, then overlays CHECKLIST_*
// variables onto config. Malformed numeric values panic.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("load %s: %w", envFile, err))
		}
	}

	lookupString(&config.HTTPAddr, "CHECKLIST_HTTP_ADDR")
	lookupString(&config.DatabaseDSN, "CHECKLIST_DATABASE_DSN")
	lookupString(&config.Storage, "CHECKLIST_STORAGE")
	lookupString(&config.UploadDir, "CHECKLIST_UPLOAD_DIR")
	lookupString(&config.PublicBaseURL, "CHECKLIST_PUBLIC_BASE_URL")
	lookupString(&config.LogBackend, "CHECKLIST_LOG_BACKEND")
	lookupString(&config.LogFormat, "CHECKLIST_LOG_FORMAT")
	lookupString(&config.S3RootUser, "CHECKLIST_S3_ROOT_USER")
	lookupString(&config.S3RootPassword, "CHECKLIST_S3_ROOT_PASSWORD")
	lookupString(&config.S3Bucket, "CHECKLIST_S3_BUCKET")
	lookupString(&config.S3Region, "CHECKLIST_S3_REGION")
	lookupString(&config.S3BaseEndpoint, "CHECKLIST_S3_BASE_ENDPOINT")

	if v, ok := os.LookupEnv("CHECKLIST_MAX_UPLOAD_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("CHECKLIST_MAX_UPLOAD_SIZE: %w", err))
		}
		config.MaxUploadSize = n
	}
	if v, ok := os.LookupEnv("CHECKLIST_SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("CHECKLIST_SHUTDOWN_TIMEOUT: %w", err))
		}
		config.ShutdownTimeout = d
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
