package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// CurrentFileName is the conventional pointer name.
	CurrentFileName = "CURRENT"
	// CurrentVersion is the version of the manifest format.
	CurrentVersion = 1
)

// FeatureType selects how a feature scores hypotheses.
type FeatureType string

// Feature types understood by the decoder.
const (
	PhraseTable        FeatureType = "phrase_table"
	LanguageModel      FeatureType = "language_model"
	WordPenalty        FeatureType = "word_penalty"
	PhrasePenalty      FeatureType = "phrase_penalty"
	Distortion         FeatureType = "distortion"
	UnknownWordPenalty FeatureType = "unknown_word_penalty"
)

// Stateless reports whether the feature type scores phrases in isolation.
func (t FeatureType) Stateless() bool {
	return t != LanguageModel && t != Distortion
}

func (t FeatureType) known() bool {
	switch t {
	case PhraseTable, LanguageModel, WordPenalty, PhrasePenalty, Distortion, UnknownWordPenalty:
		return true
	}
	return false
}

// UnknownWords selects how out-of-vocabulary source words are handled.
type UnknownWords string

const (
	// UnknownPassthrough copies unknown words to the output and charges the
	// unknown word penalty.
	UnknownPassthrough UnknownWords = "passthrough"
	// UnknownFail makes inputs with unknown words untranslatable.
	UnknownFail UnknownWords = "fail"
)

// Decoding defaults, used for fields absent from the manifest.
const (
	DefaultBeamSize        = 100
	DefaultDistortionLimit = 6
	DefaultMaxPhraseLength = 20
	DefaultTableLimit      = 20
)

// Manifest describes a trained model.
type Manifest struct {
	Version        int           `json:"version"`
	SourceLanguage string        `json:"source_language,omitempty"`
	TargetLanguage string        `json:"target_language,omitempty"`
	Features       []FeatureSpec `json:"features"`
	PhraseTable    string        `json:"phrase_table"`
	LanguageModel  string        `json:"language_model,omitempty"`
	Decoding       Decoding      `json:"decoding"`
}

// FeatureSpec declares one feature and its default weights.
type FeatureSpec struct {
	Name    string      `json:"name"`
	Type    FeatureType `json:"type"`
	Weights []float32   `json:"weights"`
	// Tunable defaults to true when omitted.
	Tunable *bool `json:"tunable,omitempty"`
}

// IsTunable reports whether the feature weights are meant to be tuned.
func (f FeatureSpec) IsTunable() bool {
	return f.Tunable == nil || *f.Tunable
}

// Decoding holds search defaults.
//
// A DistortionLimit of 0 forces monotone decoding and -1 removes the limit.
// A TableLimit of 0 keeps every translation option.
type Decoding struct {
	BeamSize        int          `json:"beam_size"`
	DistortionLimit int          `json:"distortion_limit"`
	MaxPhraseLength int          `json:"max_phrase_length"`
	TableLimit      int          `json:"table_limit"`
	UnknownWords    UnknownWords `json:"unknown_words"`
}

// Parse decodes and validates a manifest. Unknown JSON fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	m := &Manifest{Decoding: DefaultDecoding()}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the manifest for structural consistency. Feature arities
// that depend on artifact contents are checked at load time.
func (m *Manifest) Validate() error {
	if m.Version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrIncompatibleVersion, m.Version)
	}
	if len(m.Features) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalid)
	}

	seenName := make(map[string]struct{}, len(m.Features))
	seenType := make(map[FeatureType]string, len(m.Features))

	for i, f := range m.Features {
		if f.Name == "" {
			return fmt.Errorf("%w: feature %d has no name", ErrInvalid, i)
		}
		if _, dup := seenName[f.Name]; dup {
			return fmt.Errorf("%w: duplicate feature %q", ErrInvalid, f.Name)
		}
		seenName[f.Name] = struct{}{}

		if !f.Type.known() {
			return fmt.Errorf("%w: feature %q has unknown type %q", ErrInvalid, f.Name, f.Type)
		}
		if other, dup := seenType[f.Type]; dup {
			return fmt.Errorf("%w: features %q and %q share type %s", ErrInvalid, other, f.Name, f.Type)
		}
		seenType[f.Type] = f.Name

		if len(f.Weights) == 0 {
			return fmt.Errorf("%w: feature %q has no weights", ErrInvalid, f.Name)
		}
		if f.Type != PhraseTable && len(f.Weights) != 1 {
			return fmt.Errorf("%w: feature %q of type %s takes 1 weight, got %d", ErrInvalid, f.Name, f.Type, len(f.Weights))
		}
	}

	if _, ok := seenType[PhraseTable]; !ok {
		return fmt.Errorf("%w: no phrase_table feature", ErrInvalid)
	}
	if m.PhraseTable == "" {
		return fmt.Errorf("%w: phrase_table artifact missing", ErrInvalid)
	}
	_, hasLM := seenType[LanguageModel]
	if hasLM && m.LanguageModel == "" {
		return fmt.Errorf("%w: language_model artifact missing", ErrInvalid)
	}
	if !hasLM && m.LanguageModel != "" {
		return fmt.Errorf("%w: language_model artifact without language_model feature", ErrInvalid)
	}

	d := m.Decoding
	if d.BeamSize < 1 || d.MaxPhraseLength < 1 {
		return fmt.Errorf("%w: beam_size and max_phrase_length must be positive", ErrInvalid)
	}
	if d.DistortionLimit < -1 || d.TableLimit < 0 {
		return fmt.Errorf("%w: invalid distortion_limit or table_limit", ErrInvalid)
	}
	switch d.UnknownWords {
	case UnknownPassthrough, UnknownFail:
	default:
		return fmt.Errorf("%w: unknown_words must be %q or %q", ErrInvalid, UnknownPassthrough, UnknownFail)
	}
	return nil
}

// Feature returns the spec of the given type.
func (m *Manifest) Feature(t FeatureType) (FeatureSpec, bool) {
	for _, f := range m.Features {
		if f.Type == t {
			return f, true
		}
	}
	return FeatureSpec{}, false
}

// DefaultDecoding returns the decoding defaults.
func DefaultDecoding() Decoding {
	return Decoding{
		BeamSize:        DefaultBeamSize,
		DistortionLimit: DefaultDistortionLimit,
		MaxPhraseLength: DefaultMaxPhraseLength,
		TableLimit:      DefaultTableLimit,
		UnknownWords:    UnknownPassthrough,
	}
}
