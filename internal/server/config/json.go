package config

import (
	"encoding/json"
	"os"

	"github.com/termblocks/checklist/internal/flagx"
	"github.com/termblocks/checklist/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept both "10s" and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	Storage         string         `json:"storage"`
	UploadDir       string         `json:"upload_dir"`
	PublicBaseURL   string         `json:"public_base_url"`
	MaxUploadSize   int64          `json:"max_upload_size"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogBackend      string         `json:"log_backend"`
	LogFormat       string         `json:"log_format"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the file named by -c/-config. Keys absent
// from the file keep their current value. An unreadable or malformed file
// panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFileFromArgs(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.Storage, c.Storage)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
