package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/internal/modelstore"
	"github.com/hupe1980/smtgo/model"
)

// ErrDimension is returned when the weight vector does not match the model.
var ErrDimension = errors.New("search: weight vector dimension mismatch")

// Request is a single decoding request.
type Request struct {
	// Source is the tokenized input sentence.
	Source []string
	// Weights is the dense weight vector in registry layout.
	Weights []float32
	// NBest is the maximum number of distinct candidates to return.
	NBest int
	// Options bounds the search; nil selects the model defaults.
	Options *Options
}

// Candidate is a complete translation.
type Candidate struct {
	Words []string
	// Scores holds the unweighted feature values in registry layout.
	Scores    []float32
	Alignment []model.PhraseAlignment
}

// Text returns the target sentence.
func (c Candidate) Text() string {
	return strings.Join(c.Words, " ")
}

// Decoder translates sentences with a loaded model.
type Decoder struct {
	model *modelstore.Model
}

// New returns a decoder over m.
func New(m *modelstore.Model) *Decoder {
	return &Decoder{model: m}
}

// Defaults returns the model's decoding defaults.
func (d *Decoder) Defaults() Options {
	return d.defaults()
}

// Decode runs the beam search and returns up to NBest distinct candidates,
// best first. It returns no candidates, and no error, when the sentence
// cannot be translated. Cancellation is checked between stacks.
func (d *Decoder) Decode(ctx context.Context, req Request) ([]Candidate, error) {
	if dim := d.model.Registry.Dimension(); len(req.Weights) != dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(req.Weights), dim)
	}

	n := len(req.Source)
	if n == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defaults := d.defaults()
	opts := defaults
	if req.Options != nil {
		opts = req.Options.normalize(defaults)
	}

	table := d.collectOptions(req.Source, req.Weights, opts)
	if !table.complete() {
		return nil, nil
	}
	fc := table.futureCosts()

	sc := getScratch()
	defer putScratch(sc)

	stacks := make([]*stack, n+1)
	for i := range stacks {
		stacks[i] = newStack()
	}
	stacks[0].add(d.root(req.Weights, fc, n), "")

	for k := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := stacks[k]
		cur.prune(opts.BeamSize, sc)

		for _, h := range cur.hyps {
			for s := h.gap; s < n; s++ {
				if h.coverage.Contains(uint32(s)) {
					continue
				}
				if opts.DistortionLimit >= 0 && s-h.lastEnd > opts.DistortionLimit {
					break
				}
				for l := 1; s+l <= n; l++ {
					if h.coverage.Contains(uint32(s + l - 1)) {
						break
					}
					if !distortionAllowed(h, s, s+l, opts.DistortionLimit) {
						continue
					}
					for _, opt := range table.at(s, l) {
						next := d.extend(h, opt, req.Weights, fc, n)
						var key string
						sc.key, key = next.recombinationKey(sc.key)
						stacks[next.covered].add(next, key)
					}
				}
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	final := stacks[n]
	final.prune(opts.BeamSize, sc)
	if len(final.hyps) == 0 {
		return nil, nil
	}
	return d.nbest(final.hyps, max(req.NBest, 1), req.Weights), nil
}

func (d *Decoder) root(weights []float32, fc [][]float32, n int) *hypothesis {
	h := &hypothesis{
		coverage: roaring.New(),
		scores:   make([]float32, d.model.Registry.Dimension()),
	}
	if d.model.LM != nil {
		h.lmState = []string{modelstore.BOS}
	}
	h.score = feature.Dot(weights, h.scores)
	h.future = fc[0][n]
	return h
}

// distortionAllowed reports whether h may translate [start, end) next
// without exceeding the limit, now or when jumping back to the first gap.
func distortionAllowed(h *hypothesis, start, end, limit int) bool {
	if limit < 0 {
		return true
	}
	if abs(h.lastEnd-start) > limit {
		return false
	}
	if start > h.gap && end-h.gap > limit {
		return false
	}
	return true
}

func (d *Decoder) extend(h *hypothesis, opt *translationOption, weights []float32, fc [][]float32, n int) *hypothesis {
	layout := d.model.Layout

	next := &hypothesis{
		prev:     h,
		option:   opt,
		coverage: h.coverage.Clone(),
		covered:  h.covered + opt.end - opt.start,
		gap:      h.gap,
		lastEnd:  opt.end,
		scores:   make([]float32, len(h.scores)),
	}
	next.coverage.AddRange(uint64(opt.start), uint64(opt.end))
	if next.gap == opt.start {
		next.gap = opt.end
		for next.gap < n && next.coverage.Contains(uint32(next.gap)) {
			next.gap++
		}
	}

	copy(next.scores, h.scores)
	addScores(next.scores, opt.scores)
	if layout.Distortion >= 0 {
		next.scores[layout.Distortion] -= float32(abs(h.lastEnd - opt.start))
	}

	if lm := d.model.LM; lm != nil {
		history := append(append(make([]string, 0, len(h.lmState)+len(opt.words)+1), h.lmState...), opt.words...)
		var lmScore float32
		for i := len(h.lmState); i < len(history); i++ {
			lmScore += lm.Score(history[:i], history[i])
		}
		if next.covered == n {
			lmScore += lm.Score(history, modelstore.EOS)
		}
		if layout.LanguageModel >= 0 {
			next.scores[layout.LanguageModel] += lmScore
		}
		if keep := lm.Order() - 1; len(history) > keep {
			history = history[len(history)-keep:]
		}
		next.lmState = history
	}

	next.score = feature.Dot(weights, next.scores)
	next.future = futureScore(next.coverage, n, fc)
	return next
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
