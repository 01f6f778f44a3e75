package modelstore

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LogFloor is the score assigned to zero probabilities.
const LogFloor = -100

const fieldSep = "|||"

// TargetPhrase is one translation option of a source phrase.
type TargetPhrase struct {
	Words  []string
	Scores []float32
}

// PhraseTable maps source phrases to their translation options.
// It is immutable after parsing.
type PhraseTable struct {
	entries      map[string][]TargetPhrase
	numScores    int
	maxSourceLen int
	size         int64
}

// ParsePhraseTable parses a Moses text phrase table.
func ParsePhraseTable(data []byte) (*PhraseTable, error) {
	pt := &PhraseTable{
		entries: make(map[string][]TargetPhrase),
		size:    int64(len(data)),
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		fields := strings.Split(text, fieldSep)
		if len(fields) < 3 {
			return nil, fmt.Errorf("phrase table line %d: expected src ||| tgt ||| scores", line)
		}

		src := strings.Fields(fields[0])
		tgt := strings.Fields(fields[1])
		if len(src) == 0 {
			return nil, fmt.Errorf("phrase table line %d: empty source phrase", line)
		}

		rawScores := strings.Fields(fields[2])
		if len(rawScores) == 0 {
			return nil, fmt.Errorf("phrase table line %d: no scores", line)
		}
		if pt.numScores == 0 {
			pt.numScores = len(rawScores)
		} else if len(rawScores) != pt.numScores {
			return nil, fmt.Errorf("phrase table line %d: %d scores, want %d", line, len(rawScores), pt.numScores)
		}

		scores := make([]float32, len(rawScores))
		for i, raw := range rawScores {
			p, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("phrase table line %d: score %d: %w", line, i, err)
			}
			scores[i] = logProb(p)
		}

		key := strings.Join(src, " ")
		pt.entries[key] = append(pt.entries[key], TargetPhrase{Words: tgt, Scores: scores})
		pt.maxSourceLen = max(pt.maxSourceLen, len(src))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("phrase table: %w", err)
	}
	if len(pt.entries) == 0 {
		return nil, fmt.Errorf("phrase table is empty")
	}
	return pt, nil
}

func logProb(p float64) float32 {
	if p <= 0 {
		return LogFloor
	}
	return max(float32(math.Log(p)), LogFloor)
}

// Lookup returns the options for the given source words. The result is
// shared and must not be modified.
func (pt *PhraseTable) Lookup(src []string) []TargetPhrase {
	return pt.entries[strings.Join(src, " ")]
}

// NumScores returns the number of score columns.
func (pt *PhraseTable) NumScores() int { return pt.numScores }

// MaxSourceLength returns the longest source phrase in words.
func (pt *PhraseTable) MaxSourceLength() int { return pt.maxSourceLen }

// Len returns the number of distinct source phrases.
func (pt *PhraseTable) Len() int { return len(pt.entries) }
