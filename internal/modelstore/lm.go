package modelstore

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentence boundary and unknown word tokens.
const (
	BOS = "<s>"
	EOS = "</s>"
	UNK = "<unk>"
)

// unkLog10 is the log10 probability of words missing from a model without
// an <unk> entry.
const unkLog10 = -100

type ngram struct {
	logProb float32
	backoff float32
}

// LanguageModel is an immutable back-off n-gram model.
type LanguageModel struct {
	order  int
	ngrams map[string]ngram
	unk    float32
	size   int64
}

// ParseARPA parses an ARPA file.
func ParseARPA(data []byte) (*LanguageModel, error) {
	lm := &LanguageModel{
		ngrams: make(map[string]ngram),
		size:   int64(len(data)),
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	section := -1 // -1 before \data\, 0 in \data\, n in \n-grams:
	counts := map[int]int{}
	seen := map[int]int{}
	line := 0

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		switch {
		case text == `\data\`:
			section = 0
			continue
		case text == `\end\`:
			section = -2
			continue
		case strings.HasPrefix(text, `\`) && strings.HasSuffix(text, "-grams:"):
			n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(text, `\`), "-grams:"))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("arpa line %d: bad section %q", line, text)
			}
			section = n
			lm.order = max(lm.order, n)
			continue
		}

		switch {
		case section == 0:
			var n, c int
			if _, err := fmt.Sscanf(text, "ngram %d=%d", &n, &c); err != nil {
				return nil, fmt.Errorf("arpa line %d: bad count %q", line, text)
			}
			counts[n] = c
		case section > 0:
			fields := strings.Fields(text)
			if len(fields) < 1+section || len(fields) > 2+section {
				return nil, fmt.Errorf("arpa line %d: expected %d-gram", line, section)
			}
			p, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, fmt.Errorf("arpa line %d: %w", line, err)
			}
			var bo float64
			if len(fields) == 2+section {
				if bo, err = strconv.ParseFloat(fields[1+section], 64); err != nil {
					return nil, fmt.Errorf("arpa line %d: %w", line, err)
				}
			}
			key := strings.Join(fields[1:1+section], " ")
			lm.ngrams[key] = ngram{logProb: log10ToLn(p), backoff: log10ToLn(bo)}
			seen[section]++
		case section == -1:
			// Header text before \data\ is ignored.
		default:
			return nil, fmt.Errorf("arpa line %d: data after \\end\\", line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("arpa: %w", err)
	}
	if lm.order == 0 {
		return nil, fmt.Errorf("arpa: no n-grams")
	}
	for n, c := range counts {
		if seen[n] != c {
			return nil, fmt.Errorf("arpa: header declares %d %d-grams, found %d", c, n, seen[n])
		}
	}

	lm.unk = log10ToLn(unkLog10)
	if u, ok := lm.ngrams[UNK]; ok {
		lm.unk = u.logProb
	}
	return lm, nil
}

func log10ToLn(v float64) float32 {
	return float32(v * math.Ln10)
}

// Order returns the model order.
func (lm *LanguageModel) Order() int { return lm.order }

// Known reports whether the word is in the vocabulary.
func (lm *LanguageModel) Known(word string) bool {
	_, ok := lm.ngrams[word]
	return ok
}

// Score returns ln P(word | history). Only the last Order()-1 words of
// history are used.
func (lm *LanguageModel) Score(history []string, word string) float32 {
	if n := lm.order - 1; len(history) > n {
		history = history[len(history)-n:]
	}

	var backoff float32
	for start := 0; start <= len(history); start++ {
		ctx := history[start:]
		if e, ok := lm.ngrams[joinNgram(ctx, word)]; ok {
			return backoff + e.logProb
		}
		if len(ctx) > 0 {
			if e, ok := lm.ngrams[strings.Join(ctx, " ")]; ok {
				backoff += e.backoff
			}
		}
	}
	return backoff + lm.unk
}

func joinNgram(ctx []string, word string) string {
	if len(ctx) == 0 {
		return word
	}
	return strings.Join(ctx, " ") + " " + word
}
