package smtgo

import (
	"context"
	"strings"

	"github.com/hupe1980/smtgo/internal/search"
	"github.com/hupe1980/smtgo/model"
)

// Hints adjusts the search for a single request. Zero values and nil
// pointers keep the model's decoding defaults.
type Hints struct {
	// BeamSize is the number of hypotheses kept per stack.
	BeamSize int
	// DistortionLimit bounds reordering jumps; 0 is monotone and a negative
	// value removes the limit.
	DistortionLimit *int
	// MaxPhraseLength bounds source phrase length in words.
	MaxPhraseLength int
	// TableLimit bounds the translation options per source span; 0 keeps all.
	TableLimit *int
}

func (h Hints) validate() error {
	if h.BeamSize < 0 || h.MaxPhraseLength < 0 || (h.TableLimit != nil && *h.TableLimit < 0) {
		return ErrInvalidHints
	}
	return nil
}

// SearchRequest is the input of a Searcher.
type SearchRequest struct {
	// Text is the source sentence; it is never blank.
	Text string
	// Weights is the resolved weight vector, laid out in feature list order
	// with each feature occupying Arity consecutive entries.
	Weights []float32
	// NBest is the maximum number of candidates wanted; it is at least 1.
	NBest int
	Hints Hints
}

// Candidate is a translation produced by a Searcher.
type Candidate struct {
	Text string
	// Scores holds the unweighted feature values in the same layout as
	// SearchRequest.Weights.
	Scores    []float32
	Alignment []model.PhraseAlignment
}

// Searcher finds candidate translations for a sentence. The engine ranks,
// validates and truncates what it returns. Implementations must be safe for
// concurrent use.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]Candidate, error)
}

// decoderSearcher adapts the built-in beam decoder.
type decoderSearcher struct {
	decoder *search.Decoder
}

func (s *decoderSearcher) Search(ctx context.Context, req SearchRequest) ([]Candidate, error) {
	opts := s.decoder.Defaults()
	if req.Hints.BeamSize > 0 {
		opts.BeamSize = req.Hints.BeamSize
	}
	if req.Hints.DistortionLimit != nil {
		opts.DistortionLimit = *req.Hints.DistortionLimit
	}
	if req.Hints.MaxPhraseLength > 0 {
		opts.MaxPhraseLength = req.Hints.MaxPhraseLength
	}
	if req.Hints.TableLimit != nil {
		opts.TableLimit = *req.Hints.TableLimit
	}

	found, err := s.decoder.Decode(ctx, search.Request{
		Source:  strings.Fields(req.Text),
		Weights: req.Weights,
		NBest:   req.NBest,
		Options: &opts,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(found))
	for i, c := range found {
		out[i] = Candidate{
			Text:      c.Text(),
			Scores:    c.Scores,
			Alignment: c.Alignment,
		}
	}
	return out, nil
}
