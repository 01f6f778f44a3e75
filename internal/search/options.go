package search

import (
	"cmp"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/internal/manifest"
)

var negInf = float32(math.Inf(-1))

// Options bounds a single search.
//
// A DistortionLimit of 0 forces monotone decoding and a negative limit
// removes it. A TableLimit of 0 keeps every translation option.
type Options struct {
	BeamSize        int
	DistortionLimit int
	MaxPhraseLength int
	TableLimit      int
	UnknownWords    manifest.UnknownWords
}

// OptionsFrom converts manifest decoding settings.
func OptionsFrom(d manifest.Decoding) Options {
	return Options{
		BeamSize:        d.BeamSize,
		DistortionLimit: d.DistortionLimit,
		MaxPhraseLength: d.MaxPhraseLength,
		TableLimit:      d.TableLimit,
		UnknownWords:    d.UnknownWords,
	}
}

// normalize fills unset fields, other than DistortionLimit, from defaults.
func (o Options) normalize(defaults Options) Options {
	if o.BeamSize <= 0 {
		o.BeamSize = defaults.BeamSize
	}
	if o.MaxPhraseLength <= 0 {
		o.MaxPhraseLength = defaults.MaxPhraseLength
	}
	if o.TableLimit < 0 {
		o.TableLimit = defaults.TableLimit
	}
	if o.UnknownWords == "" {
		o.UnknownWords = defaults.UnknownWords
	}
	return o
}

// translationOption is one way to translate the source span [start, end).
type translationOption struct {
	start, end int
	words      []string
	// scores holds the stateless feature values in dense layout.
	scores []float32
	// estimate is the weighted stateless score plus a context-free LM score.
	estimate float32
	unknown  bool
}

// optionTable holds the options of one sentence, indexed by start position
// and span length minus one.
type optionTable struct {
	n     int
	spans [][][]*translationOption
	// covered marks the source positions reachable by some option.
	covered *bitset.BitSet
}

func (t *optionTable) at(start, length int) []*translationOption {
	if length > len(t.spans[start]) {
		return nil
	}
	return t.spans[start][length-1]
}

// complete reports whether every source position can be translated.
func (t *optionTable) complete() bool {
	return t.covered.Count() == uint(t.n)
}

func (d *Decoder) collectOptions(src []string, weights []float32, opts Options) *optionTable {
	n := len(src)
	maxLen := min(opts.MaxPhraseLength, d.model.Phrases.MaxSourceLength())

	t := &optionTable{
		n:       n,
		spans:   make([][][]*translationOption, n),
		covered: bitset.New(uint(n)),
	}

	for s := range n {
		spanLen := min(maxLen, n-s)
		t.spans[s] = make([][]*translationOption, max(spanLen, 1))

		for l := 1; l <= spanLen; l++ {
			entries := d.model.Phrases.Lookup(src[s : s+l])
			if len(entries) == 0 {
				continue
			}

			list := make([]*translationOption, 0, len(entries))
			for _, e := range entries {
				list = append(list, d.newOption(s, s+l, e.Words, e.Scores, false, weights))
			}
			slices.SortStableFunc(list, func(a, b *translationOption) int {
				return cmp.Compare(b.estimate, a.estimate)
			})
			if opts.TableLimit > 0 && len(list) > opts.TableLimit {
				list = list[:opts.TableLimit]
			}

			t.spans[s][l-1] = list
			for k := s; k < s+l; k++ {
				t.covered.Set(uint(k))
			}
		}

		if opts.UnknownWords == manifest.UnknownPassthrough && len(t.spans[s][0]) == 0 {
			t.spans[s][0] = []*translationOption{
				d.newOption(s, s+1, []string{src[s]}, nil, true, weights),
			}
			t.covered.Set(uint(s))
		}
	}
	return t
}

func (d *Decoder) newOption(start, end int, words []string, ptScores []float32, unknown bool, weights []float32) *translationOption {
	layout := d.model.Layout
	scores := make([]float32, d.model.Registry.Dimension())

	if layout.PhraseTable >= 0 && ptScores != nil {
		copy(scores[layout.PhraseTable:layout.PhraseTable+layout.PhraseTableArity], ptScores)
	}
	if layout.WordPenalty >= 0 {
		scores[layout.WordPenalty] = -float32(len(words))
	}
	if layout.PhrasePenalty >= 0 {
		scores[layout.PhrasePenalty] = 1
	}
	if unknown && layout.UnknownWordPenalty >= 0 {
		scores[layout.UnknownWordPenalty] = -1
	}

	opt := &translationOption{
		start:   start,
		end:     end,
		words:   words,
		scores:  scores,
		unknown: unknown,
	}
	opt.estimate = feature.Dot(weights, scores)
	if d.model.LM != nil && layout.LanguageModel >= 0 {
		opt.estimate += weights[layout.LanguageModel] * d.lmEstimate(words)
	}
	return opt
}

// lmEstimate scores a phrase without left context.
func (d *Decoder) lmEstimate(words []string) float32 {
	var sum float32
	for i, w := range words {
		sum += d.model.LM.Score(words[:i], w)
	}
	return sum
}

// futureCosts returns fc where fc[i][j] is the best estimated score of
// translating the span [i, j) in isolation. Untranslatable spans are -Inf.
func (t *optionTable) futureCosts() [][]float32 {
	n := t.n
	fc := make([][]float32, n+1)
	for i := range fc {
		fc[i] = make([]float32, n+1)
		for j := range fc[i] {
			fc[i][j] = negInf
		}
	}

	for length := 1; length <= n; length++ {
		for i := 0; i+length <= n; i++ {
			j := i + length
			best := negInf
			for _, opt := range t.at(i, length) {
				best = max(best, opt.estimate)
			}
			for k := i + 1; k < j; k++ {
				if fc[i][k] == negInf || fc[k][j] == negInf {
					continue
				}
				best = max(best, fc[i][k]+fc[k][j])
			}
			fc[i][j] = best
		}
	}
	return fc
}

// addScores adds src to dst element-wise.
func addScores(dst, src []float32) {
	for i, v := range src {
		dst[i] += v
	}
}

func (d *Decoder) defaults() Options {
	return OptionsFrom(d.model.Manifest.Decoding)
}
