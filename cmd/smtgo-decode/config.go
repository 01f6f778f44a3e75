package main

import (
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	storeLocal = "local"
	storeS3    = "s3"
	storeMinio = "minio"
)

// config holds the command configuration.
type config struct {
	Model string `env:"SMTGO_MODEL" envDefault:"model.json"`
	Store string `env:"SMTGO_STORE" envDefault:"local"`
	// Root is the local store directory; empty resolves Model as a file path.
	Root   string `env:"SMTGO_ROOT"`
	Bucket string `env:"SMTGO_BUCKET"`
	Prefix string `env:"SMTGO_PREFIX"`
	// DDBTable, when set with the s3 store, serves CURRENT from DynamoDB.
	DDBTable string `env:"SMTGO_DDB_TABLE"`

	MinioEndpoint  string `env:"SMTGO_MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"SMTGO_MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"SMTGO_MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"SMTGO_MINIO_USE_SSL"`

	NBest       int           `env:"SMTGO_NBEST" envDefault:"1"`
	Threads     int           `env:"SMTGO_THREADS" envDefault:"1"`
	MemoryLimit int64         `env:"SMTGO_MEMORY_LIMIT"`
	LoadRate    int64         `env:"SMTGO_LOAD_RATE"`
	Timeout     time.Duration `env:"SMTGO_TIMEOUT" envDefault:"0s"`
	MetricsAddr string        `env:"SMTGO_METRICS_ADDR"`
	LogLevel    slog.Level    `env:"SMTGO_LOG_LEVEL" envDefault:"warn"`

	// Publish, when set, records a new CURRENT version pointing at this
	// manifest and exits without decoding.
	Publish string
}

// parseConfig reads the environment, then applies flags.
func parseConfig(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Model, "model", cfg.Model, "manifest or CURRENT pointer to load (default: SMTGO_MODEL)")
	fs.IntVar(&cfg.NBest, "nbest", cfg.NBest, "hypotheses per sentence (default: SMTGO_NBEST)")
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "sentences decoded in parallel (default: SMTGO_THREADS)")
	fs.StringVar(&cfg.Publish, "publish", "", "publish this manifest as the new CURRENT version and exit (s3 store with SMTGO_DDB_TABLE)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	switch c.Store {
	case storeLocal, storeS3, storeMinio:
	default:
		return fmt.Errorf("unknown store %q (want local, s3 or minio)", c.Store)
	}
	if c.Store != storeLocal && c.Bucket == "" {
		return fmt.Errorf("store %s requires SMTGO_BUCKET", c.Store)
	}
	if c.Publish != "" && (c.Store != storeS3 || c.DDBTable == "") {
		return fmt.Errorf("-publish requires the s3 store and SMTGO_DDB_TABLE")
	}
	if c.NBest < 1 {
		return fmt.Errorf("nbest must be at least 1, got %d", c.NBest)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	return nil
}
