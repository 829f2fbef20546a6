package config

import (
	"flag"
	"io"

	"github.com/termblocks/checklist/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g. ":8000")
//	-d string        PostgreSQL DSN, or "memory"
//	-s string        storage backend: "local" or "s3"
//	-u string        upload directory for local storage
//	-p string        public base URL for shared checklists
//	-m int           max upload size, bytes
//	-t duration      shutdown timeout (e.g. "10s")
//	-l string        log backend: "slog" or "zap"
//	-f string        log format: "json" or "text"
//	-s3-user string
//	-s3-password string
//	-s3-bucket string
//	-s3-region string
//	-s3-endpoint string
//
// args are filtered with flagx.FilterArgs first so flags owned by other
// parsers (-c/-config) do not cause errors. A malformed value panics.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{
		"-a", "-d", "-s", "-u", "-p", "-m", "-t", "-l", "-f",
		"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Storage, "s", config.Storage, "storage backend (local|s3)")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.PublicBaseURL, "p", config.PublicBaseURL, "public base URL")
	fs.Int64Var(&config.MaxUploadSize, "m", config.MaxUploadSize, "max upload size in bytes")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "shutdown timeout")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")

	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
