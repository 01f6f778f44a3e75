package modelstore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/internal/compress"
	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/internal/manifest"
	"github.com/hupe1980/smtgo/internal/resource"
	"github.com/hupe1980/smtgo/model"
)

// ErrIncompatible is returned when artifacts disagree with the manifest.
var ErrIncompatible = errors.New("model artifacts incompatible with manifest")

// Layout holds the dense-vector offsets of each feature type.
// Offsets of absent features are -1.
type Layout struct {
	PhraseTable        int
	PhraseTableArity   int
	LanguageModel      int
	WordPenalty        int
	PhrasePenalty      int
	Distortion         int
	UnknownWordPenalty int
}

// Model is a loaded, read-only model.
type Model struct {
	Manifest *manifest.Manifest
	// Name is the resolved manifest name.
	Name     string
	Registry *feature.Registry
	Phrases  *PhraseTable
	LM       *LanguageModel // nil without a language model
	Layout   Layout

	rc       *resource.Controller
	charged  int64
	released atomic.Bool
}

// Load reads the manifest and all artifacts it names. Artifacts are fetched
// and parsed concurrently. The decoded artifact size is charged to rc until
// Close.
func Load(ctx context.Context, store blobstore.Store, name string, rc *resource.Controller) (*Model, error) {
	man, resolved, err := manifest.Load(ctx, store, name, rc)
	if err != nil {
		return nil, err
	}

	m := &Model{Manifest: man, Name: resolved, rc: rc}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := loadArtifact(gctx, store, manifest.Resolve(resolved, man.PhraseTable), rc)
		if err != nil {
			return err
		}
		pt, err := ParsePhraseTable(data)
		if err != nil {
			return fmt.Errorf("%s: %w", man.PhraseTable, err)
		}
		m.Phrases = pt
		return nil
	})
	if man.LanguageModel != "" {
		g.Go(func() error {
			data, err := loadArtifact(gctx, store, manifest.Resolve(resolved, man.LanguageModel), rc)
			if err != nil {
				return err
			}
			lm, err := ParseARPA(data)
			if err != nil {
				return fmt.Errorf("%s: %w", man.LanguageModel, err)
			}
			m.LM = lm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := m.charge(); err != nil {
		return nil, err
	}

	if err := m.buildRegistry(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

func loadArtifact(ctx context.Context, store blobstore.Store, name string, rc *resource.Controller) ([]byte, error) {
	raw, release, err := blobstore.ReadAll(ctx, store, name, rc)
	if err != nil {
		return nil, err
	}
	defer release()

	data, _, err := compress.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}

func (m *Model) charge() error {
	size := m.Phrases.size
	if m.LM != nil {
		size += m.LM.size
	}
	if err := m.rc.AcquireMemory(size); err != nil {
		return fmt.Errorf("model needs %d bytes: %w", size, err)
	}
	m.charged = size
	return nil
}

func (m *Model) buildRegistry() error {
	m.Layout = Layout{
		PhraseTable:        -1,
		LanguageModel:      -1,
		WordPenalty:        -1,
		PhrasePenalty:      -1,
		Distortion:         -1,
		UnknownWordPenalty: -1,
	}

	features := make([]model.Feature, len(m.Manifest.Features))
	offset := 0
	for i, spec := range m.Manifest.Features {
		arity := 1
		if spec.Type == manifest.PhraseTable {
			arity = m.Phrases.NumScores()
			if len(spec.Weights) != arity {
				return fmt.Errorf("%w: feature %q has %d weights but the phrase table has %d scores",
					ErrIncompatible, spec.Name, len(spec.Weights), arity)
			}
			m.Layout.PhraseTableArity = arity
		}

		features[i] = model.Feature{
			Name:      spec.Name,
			Arity:     arity,
			Defaults:  spec.Weights,
			Tunable:   spec.IsTunable(),
			Stateless: spec.Type.Stateless(),
		}

		switch spec.Type {
		case manifest.PhraseTable:
			m.Layout.PhraseTable = offset
		case manifest.LanguageModel:
			m.Layout.LanguageModel = offset
		case manifest.WordPenalty:
			m.Layout.WordPenalty = offset
		case manifest.PhrasePenalty:
			m.Layout.PhrasePenalty = offset
		case manifest.Distortion:
			m.Layout.Distortion = offset
		case manifest.UnknownWordPenalty:
			m.Layout.UnknownWordPenalty = offset
		}
		offset += arity
	}

	reg, err := feature.NewRegistry(features)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIncompatible, err)
	}
	m.Registry = reg
	return nil
}

// MemoryUsage returns the bytes charged for this model.
func (m *Model) MemoryUsage() int64 { return m.charged }

// Close returns the model's memory to the controller. It is idempotent.
func (m *Model) Close() error {
	if m.released.Swap(true) {
		return nil
	}
	m.rc.ReleaseMemory(m.charged)
	return nil
}
