package modelstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhraseTable(t *testing.T) {
	data := []byte(`das haus ||| the house ||| 0.5 1 ||| 0-0 1-1 ||| 10 10 5
das ||| the ||| 0.25 0

das ||| that ||| 1 1
`)

	pt, err := ParsePhraseTable(data)
	require.NoError(t, err)

	assert.Equal(t, 2, pt.Len())
	assert.Equal(t, 2, pt.NumScores())
	assert.Equal(t, 2, pt.MaxSourceLength())

	opts := pt.Lookup([]string{"das", "haus"})
	require.Len(t, opts, 1)
	assert.Equal(t, []string{"the", "house"}, opts[0].Words)
	assert.InDelta(t, math.Log(0.5), opts[0].Scores[0], 1e-6)
	assert.InDelta(t, 0, opts[0].Scores[1], 1e-6)

	opts = pt.Lookup([]string{"das"})
	require.Len(t, opts, 2)
	assert.Equal(t, []string{"the"}, opts[0].Words, "file order is kept")
	assert.Equal(t, float32(LogFloor), opts[0].Scores[1], "zero probability is floored")

	assert.Empty(t, pt.Lookup([]string{"haus"}))
}

func TestParsePhraseTable_Errors(t *testing.T) {
	tests := map[string]string{
		"too few fields":     "das ||| the\n",
		"empty source":       " ||| the ||| 0.5\n",
		"no scores":          "das ||| the ||| \n",
		"inconsistent arity": "das ||| the ||| 0.5\nhaus ||| house ||| 0.5 0.5\n",
		"bad number":         "das ||| the ||| abc\n",
		"empty":              "\n\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePhraseTable([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParsePhraseTable_EmptyTarget(t *testing.T) {
	pt, err := ParsePhraseTable([]byte("ja ||| ||| 0.1\n"))
	require.NoError(t, err)

	opts := pt.Lookup([]string{"ja"})
	require.Len(t, opts, 1)
	assert.Empty(t, opts[0].Words, "deletions are allowed")
}
