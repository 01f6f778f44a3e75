package search

import (
	"cmp"
	"slices"

	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/model"
)

type nbestEntry struct {
	options []*translationOption
	scores  []float32
	score   float32
}

// nbest extracts up to n distinct candidates from the final stack. Besides
// the surviving hypotheses it considers every path obtained by replacing one
// hypothesis on a surviving path with a hypothesis recombined into it.
func (d *Decoder) nbest(finals []*hypothesis, n int, weights []float32) []Candidate {
	var entries []nbestEntry

	for _, f := range finals {
		path := f.path()
		entries = append(entries, nbestEntry{
			options: pathOptions(path),
			scores:  f.scores,
			score:   f.score,
		})

		for i, node := range path {
			suffix := pathOptions(path[i+1:])
			for _, arc := range node.arcs {
				scores := make([]float32, len(f.scores))
				for k := range scores {
					scores[k] = f.scores[k] - node.scores[k] + arc.scores[k]
				}
				entries = append(entries, nbestEntry{
					options: append(pathOptions(arc.path()), suffix...),
					scores:  scores,
					score:   feature.Dot(weights, scores),
				})
			}
		}
	}

	slices.SortStableFunc(entries, func(a, b nbestEntry) int {
		return cmp.Compare(b.score, a.score)
	})

	out := make([]Candidate, 0, min(n, len(entries)))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		c := buildCandidate(e)
		text := c.Text()
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

func pathOptions(path []*hypothesis) []*translationOption {
	out := make([]*translationOption, len(path))
	for i, h := range path {
		out[i] = h.option
	}
	return out
}

func buildCandidate(e nbestEntry) Candidate {
	c := Candidate{
		Scores:    append([]float32(nil), e.scores...),
		Alignment: make([]model.PhraseAlignment, 0, len(e.options)),
	}
	for _, opt := range e.options {
		start := len(c.Words)
		c.Words = append(c.Words, opt.words...)
		c.Alignment = append(c.Alignment, model.PhraseAlignment{
			SourceStart: opt.start,
			SourceEnd:   opt.end,
			TargetStart: start,
			TargetEnd:   len(c.Words),
		})
	}
	return c
}
