package search

import (
	"slices"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// hypothesis is a partial translation. Hypotheses form a tree through prev;
// arcs holds the hypotheses recombined into this one.
type hypothesis struct {
	prev   *hypothesis
	option *translationOption

	coverage *roaring.Bitmap
	covered  int
	// gap is the first uncovered source position.
	gap     int
	lastEnd int
	lmState []string

	scores []float32
	score  float32
	future float32

	arcs []*hypothesis
}

func (h *hypothesis) total() float32 {
	return h.score + h.future
}

// recombinationKey identifies hypotheses whose futures are scored alike.
func (h *hypothesis) recombinationKey(buf []byte) ([]byte, string) {
	buf = buf[:0]
	it := h.coverage.Iterator()
	for it.HasNext() {
		buf = strconv.AppendUint(buf, uint64(it.Next()), 10)
		buf = append(buf, ',')
	}
	buf = append(buf, '|')
	buf = strconv.AppendInt(buf, int64(h.lastEnd), 10)
	buf = append(buf, '|')
	buf = append(buf, strings.Join(h.lmState, " ")...)
	return buf, string(buf)
}

// path returns the hypotheses from the first expansion to h.
func (h *hypothesis) path() []*hypothesis {
	var out []*hypothesis
	for cur := h; cur.prev != nil; cur = cur.prev {
		out = append(out, cur)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// futureScore sums the future cost estimates of the uncovered runs.
func futureScore(coverage *roaring.Bitmap, n int, fc [][]float32) float32 {
	uncovered := roaring.Flip(coverage, 0, uint64(n))
	if uncovered.IsEmpty() {
		return 0
	}

	var sum float32
	runStart, prev := -1, -1
	it := uncovered.Iterator()
	for it.HasNext() {
		pos := int(it.Next())
		if pos != prev+1 && runStart >= 0 {
			sum += fc[runStart][prev+1]
			runStart = -1
		}
		if runStart < 0 {
			runStart = pos
		}
		prev = pos
	}
	return sum + fc[runStart][prev+1]
}

// stack holds the hypotheses covering the same number of source words.
type stack struct {
	hyps  []*hypothesis
	index map[string]int
}

func newStack() *stack {
	return &stack{index: make(map[string]int)}
}

// add inserts h, recombining it with an equivalent hypothesis if one exists.
// The better scoring one survives and takes over the other's arcs; on ties
// the earlier hypothesis wins.
func (s *stack) add(h *hypothesis, key string) {
	i, ok := s.index[key]
	if !ok {
		s.index[key] = len(s.hyps)
		s.hyps = append(s.hyps, h)
		return
	}

	cur := s.hyps[i]
	if h.score > cur.score {
		h.arcs = append(cur.arcs, cur)
		cur.arcs = nil
		s.hyps[i] = h
		return
	}
	cur.arcs = append(cur.arcs, h)
}

// prune keeps the beamSize best hypotheses by score plus future cost,
// preserving insertion order among the survivors.
func (s *stack) prune(beamSize int, sc *scratch) {
	s.index = nil
	if len(s.hyps) <= beamSize {
		return
	}

	pq := sc.queue
	pq.reset()
	for i, h := range s.hyps {
		pq.pushBounded(queueItem{index: i, priority: h.total()}, beamSize)
	}

	keep := sc.keep[:0]
	for pq.len() > 0 {
		item, _ := pq.pop()
		keep = append(keep, item.index)
	}
	slices.Sort(keep)

	kept := make([]*hypothesis, len(keep))
	for i, idx := range keep {
		kept[i] = s.hyps[idx]
	}
	s.hyps = kept
	sc.keep = keep
}
