package main

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/model"
	"github.com/hupe1980/smtgo/testutil"
)

func writeToy(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	_, err := testutil.WriteToyModel(t.Context(), blobstore.NewLocalStore(dir), "toy", testutil.WithLZ4())
	require.NoError(t, err)
	return dir
}

func TestRun_DecodesStdin(t *testing.T) {
	dir := writeToy(t)
	cfg := config{
		Model:    filepath.Join(dir, "toy", "model.json"),
		Store:    storeLocal,
		NBest:    2,
		Threads:  2,
		LogLevel: slog.LevelError,
	}

	var out bytes.Buffer
	in := strings.NewReader("das haus ist klein\n\nklein\n")
	require.NoError(t, run(t.Context(), cfg, in, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasPrefix(lines[0], "0 ||| the house is small ||| TranslationModel0= "), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0 ||| "))
	assert.True(t, strings.HasPrefix(lines[2], "2 ||| small ||| "), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "2 ||| little ||| "), lines[3])

	for _, l := range lines {
		assert.Len(t, strings.Split(l, " ||| "), 4)
		assert.Contains(t, l, " LM0= ")
	}
}

func TestRun_RootedLocalStoreWithPointer(t *testing.T) {
	dir := t.TempDir()
	_, err := testutil.WriteToyModel(t.Context(), blobstore.NewLocalStore(dir), "toy", testutil.WithPointer())
	require.NoError(t, err)

	cfg := config{
		Model:       "toy/CURRENT",
		Store:       storeLocal,
		Root:        dir,
		NBest:       1,
		Threads:     1,
		LogLevel:    slog.LevelError,
		MetricsAddr: "127.0.0.1:0",
	}

	var out bytes.Buffer
	require.NoError(t, run(t.Context(), cfg, strings.NewReader("das haus\n"), &out))
	assert.True(t, strings.HasPrefix(out.String(), "0 ||| the house ||| "), out.String())
}

func TestRun_InitFailure(t *testing.T) {
	cfg := config{
		Model:    filepath.Join(t.TempDir(), "missing.json"),
		Store:    storeLocal,
		NBest:    1,
		Threads:  1,
		LogLevel: slog.LevelError,
	}
	err := run(t.Context(), cfg, strings.NewReader("das\n"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRun_Canceled(t *testing.T) {
	dir := writeToy(t)
	cfg := config{
		Model:    filepath.Join(dir, "toy", "model.json"),
		Store:    storeLocal,
		NBest:    1,
		Threads:  1,
		LogLevel: slog.LevelError,
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	require.Error(t, run(ctx, cfg, strings.NewReader("das\n"), &bytes.Buffer{}))
}

func TestWriteNBest(t *testing.T) {
	res := &model.Result{Hypotheses: []model.Hypothesis{{
		Text:  "the house",
		Score: -1.5,
		Scores: []model.FeatureScore{
			{Feature: "TM0", Scores: []float32{-0.25, -1}},
			{Feature: "LM0", Scores: []float32{-2}},
		},
	}}}

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	require.NoError(t, writeNBest(w, 3, res))
	require.NoError(t, w.Flush())

	assert.Equal(t, "3 ||| the house ||| TM0= -0.25 -1 LM0= -2 ||| -1.5\n", buf.String())
}
