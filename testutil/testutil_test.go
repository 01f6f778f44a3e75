package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/internal/compress"
	"github.com/hupe1980/smtgo/model"
)

func TestSentence(t *testing.T) {
	rng := NewRNG(4711)

	for range 50 {
		words := strings.Fields(rng.Sentence(ToyVocabulary, 6))
		assert.NotEmpty(t, words)
		assert.LessOrEqual(t, len(words), 6)
		for _, w := range words {
			assert.Contains(t, ToyVocabulary, w)
		}
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	features := []model.Feature{{Name: "TM0", Arity: 4}, {Name: "LM0", Arity: 1}}

	a := rng.Weights(features)
	rng.Reset()
	b := rng.Weights(features)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(42), rng.Seed())

	require.Len(t, a["TM0"], 4)
	require.Len(t, a["LM0"], 1)
	for _, w := range a["TM0"] {
		assert.GreaterOrEqual(t, w, float32(-1))
		assert.Less(t, w, float32(1))
	}
}

func TestWriteToyModel(t *testing.T) {
	store := blobstore.NewMemoryStore()

	name, err := WriteToyModel(t.Context(), store, "toy", WithZstd(), WithPointer())
	require.NoError(t, err)
	assert.Equal(t, "toy/CURRENT", name)

	names, err := store.List(t.Context(), "toy/")
	require.NoError(t, err)
	assert.Equal(t, []string{"toy/CURRENT", "toy/lm.arpa.zst", "toy/model.json", "toy/phrase-table.txt.zst"}, names)

	raw, _, err := blobstore.ReadAll(t.Context(), store, "toy/phrase-table.txt.zst", nil)
	require.NoError(t, err)
	assert.Equal(t, compress.ZSTD, compress.Detect(raw))
}

func TestToyStore_WithoutLM(t *testing.T) {
	store, name := ToyStore(t, WithoutLanguageModel())
	assert.Equal(t, "toy/model.json", name)

	names, err := store.List(t.Context(), "")
	require.NoError(t, err)
	assert.NotContains(t, names, "toy/lm.arpa")
	assert.NotContains(t, string(ToyManifest(WithoutLanguageModel())), ToyLanguageModel)
}
