package testutil

import (
	"context"
	"encoding/json"
	"path"
	"testing"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/internal/compress"
)

// Toy model facts.
const (
	ToySentence = "das haus ist klein"
	ToyBest     = "the house is small"
)

// Toy feature names, in canonical order.
const (
	ToyTranslationModel = "TranslationModel0"
	ToyLanguageModel    = "LM0"
	ToyDistortion       = "Distortion0"
	ToyWordPenalty      = "WordPenalty0"
	ToyPhrasePenalty    = "PhrasePenalty0"
	ToyUnknownWord      = "UnknownWordPenalty0"
)

// ToyVocabulary is the source vocabulary of the toy phrase table.
var ToyVocabulary = []string{"das", "haus", "ist", "klein"}

const toyPhraseTable = `das ||| the ||| 0.7 0.6 0.8 0.7
das ||| that ||| 0.3 0.3 0.2 0.2
haus ||| house ||| 0.8 0.8 0.9 0.9
haus ||| home ||| 0.2 0.2 0.1 0.1
das haus ||| the house ||| 0.8 0.7 0.9 0.8
ist ||| is ||| 0.9 0.9 0.9 0.9
klein ||| small ||| 0.6 0.6 0.7 0.7
klein ||| little ||| 0.4 0.4 0.3 0.3
ist klein ||| is small ||| 0.7 0.6 0.8 0.7
`

const toyLM = `\data\
ngram 1=10
ngram 2=9

\1-grams:
-1.0	<unk>
-99	<s>	-0.5
-1.0	</s>
-0.7	the	-0.3
-1.2	that	-0.3
-1.0	house	-0.3
-1.5	home	-0.3
-0.9	is	-0.3
-1.1	small	-0.3
-1.4	little	-0.3

\2-grams:
-0.2	<s> the
-0.9	<s> that
-0.3	the house
-0.3	house is
-0.4	house </s>
-0.2	is small
-0.5	is little
-0.3	small </s>
-0.6	little </s>

\end\
`

type toyConfig struct {
	codec           compress.Type
	withLM          bool
	pointer         bool
	distortionLimit *int
	beamSize        int
	unknownWords    string
}

// ToyOption configures WriteToyModel.
type ToyOption func(*toyConfig)

// WithZstd stores the artifacts zstd-compressed.
func WithZstd() ToyOption {
	return func(c *toyConfig) { c.codec = compress.ZSTD }
}

// WithLZ4 stores the artifacts lz4-compressed.
func WithLZ4() ToyOption {
	return func(c *toyConfig) { c.codec = compress.LZ4 }
}

// WithoutLanguageModel omits the language model and its feature.
func WithoutLanguageModel() ToyOption {
	return func(c *toyConfig) { c.withLM = false }
}

// WithPointer also writes a CURRENT pointer next to the manifest; the
// returned name is the pointer.
func WithPointer() ToyOption {
	return func(c *toyConfig) { c.pointer = true }
}

// WithDistortionLimit sets the manifest distortion limit.
func WithDistortionLimit(n int) ToyOption {
	return func(c *toyConfig) { c.distortionLimit = &n }
}

// WithBeamSize sets the manifest beam size.
func WithBeamSize(n int) ToyOption {
	return func(c *toyConfig) { c.beamSize = n }
}

// WithUnknownWords sets the unknown word policy ("passthrough" or "fail").
func WithUnknownWords(policy string) ToyOption {
	return func(c *toyConfig) { c.unknownWords = policy }
}

type toyFeature struct {
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Weights []float32 `json:"weights"`
}

// ToyManifest returns the manifest JSON of the toy model.
func ToyManifest(opts ...ToyOption) []byte {
	cfg := newToyConfig(opts)
	data, _ := json.MarshalIndent(toyManifest(cfg, "phrase-table.txt", "lm.arpa"), "", "  ")
	return data
}

func newToyConfig(opts []ToyOption) toyConfig {
	cfg := toyConfig{codec: compress.None, withLM: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func toyManifest(cfg toyConfig, ptName, lmName string) map[string]any {
	features := []toyFeature{
		{Name: ToyTranslationModel, Type: "phrase_table", Weights: []float32{0.2, 0.2, 0.2, 0.2}},
	}
	if cfg.withLM {
		features = append(features, toyFeature{Name: ToyLanguageModel, Type: "language_model", Weights: []float32{0.5}})
	}
	features = append(features,
		toyFeature{Name: ToyDistortion, Type: "distortion", Weights: []float32{0.3}},
		toyFeature{Name: ToyWordPenalty, Type: "word_penalty", Weights: []float32{-1}},
		toyFeature{Name: ToyPhrasePenalty, Type: "phrase_penalty", Weights: []float32{0.2}},
		toyFeature{Name: ToyUnknownWord, Type: "unknown_word_penalty", Weights: []float32{1}},
	)

	decoding := map[string]any{}
	if cfg.distortionLimit != nil {
		decoding["distortion_limit"] = *cfg.distortionLimit
	}
	if cfg.beamSize > 0 {
		decoding["beam_size"] = cfg.beamSize
	}
	if cfg.unknownWords != "" {
		decoding["unknown_words"] = cfg.unknownWords
	}

	m := map[string]any{
		"version":         1,
		"source_language": "de",
		"target_language": "en",
		"features":        features,
		"phrase_table":    ptName,
		"decoding":        decoding,
	}
	if cfg.withLM {
		m["language_model"] = lmName
	}
	return m
}

// WriteToyModel writes the toy model below dir and returns the name to
// pass to Engine.Init.
func WriteToyModel(ctx context.Context, store blobstore.WritableStore, dir string, opts ...ToyOption) (string, error) {
	cfg := newToyConfig(opts)

	suffix := ""
	switch cfg.codec {
	case compress.ZSTD:
		suffix = ".zst"
	case compress.LZ4:
		suffix = ".lz4"
	}
	ptName := "phrase-table.txt" + suffix
	lmName := "lm.arpa" + suffix

	put := func(name string, data []byte) error {
		enc, err := compress.Encode(data, cfg.codec)
		if err != nil {
			return err
		}
		return store.Put(ctx, path.Join(dir, name), enc)
	}

	if err := put(ptName, []byte(toyPhraseTable)); err != nil {
		return "", err
	}
	if cfg.withLM {
		if err := put(lmName, []byte(toyLM)); err != nil {
			return "", err
		}
	}

	man, err := json.MarshalIndent(toyManifest(cfg, ptName, lmName), "", "  ")
	if err != nil {
		return "", err
	}
	manifestName := path.Join(dir, "model.json")
	if err := store.Put(ctx, manifestName, man); err != nil {
		return "", err
	}

	if !cfg.pointer {
		return manifestName, nil
	}
	pointer := path.Join(dir, blobstore.CurrentPointer)
	if err := store.Put(ctx, pointer, []byte("model.json")); err != nil {
		return "", err
	}
	return pointer, nil
}

// ToyStore returns a memory store holding the toy model and its name.
func ToyStore(tb testing.TB, opts ...ToyOption) (*blobstore.MemoryStore, string) {
	tb.Helper()

	store := blobstore.NewMemoryStore()
	name, err := WriteToyModel(context.Background(), store, "toy", opts...)
	if err != nil {
		tb.Fatalf("write toy model: %v", err)
	}
	return store, name
}
