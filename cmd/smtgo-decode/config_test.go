package main

import (
	"flag"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)

	assert.Equal(t, "model.json", cfg.Model)
	assert.Equal(t, storeLocal, cfg.Store)
	assert.Equal(t, 1, cfg.NBest)
	assert.Equal(t, 1, cfg.Threads)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Zero(t, cfg.Timeout)
}

func TestParseConfig_EnvAndFlags(t *testing.T) {
	t.Setenv("SMTGO_MODEL", "de-en/CURRENT")
	t.Setenv("SMTGO_STORE", "minio")
	t.Setenv("SMTGO_BUCKET", "models")
	t.Setenv("SMTGO_NBEST", "5")
	t.Setenv("SMTGO_TIMEOUT", "2s")
	t.Setenv("SMTGO_LOG_LEVEL", "debug")

	cfg, err := parseConfig(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-nbest", "7", "-threads", "4"})
	require.NoError(t, err)

	assert.Equal(t, "de-en/CURRENT", cfg.Model)
	assert.Equal(t, storeMinio, cfg.Store)
	assert.Equal(t, "models", cfg.Bucket)
	assert.Equal(t, 7, cfg.NBest)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "unknown store", env: map[string]string{"SMTGO_STORE": "ftp"}},
		{name: "bucket required", env: map[string]string{"SMTGO_STORE": "s3"}},
		{name: "bad nbest", args: []string{"-nbest", "0"}},
		{name: "bad threads", args: []string{"-threads", "0"}},
		{name: "publish without table", env: map[string]string{"SMTGO_STORE": "s3", "SMTGO_BUCKET": "b"}, args: []string{"-publish", "v2/model.json"}},
		{name: "bad env value", env: map[string]string{"SMTGO_NBEST": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := parseConfig(flag.NewFlagSet("test", flag.ContinueOnError), tt.args)
			require.Error(t, err)
		})
	}
}
