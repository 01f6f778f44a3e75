package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/model"
)

func TestMerge(t *testing.T) {
	session := model.Weights{"LM0": {0.9}, "TM0": {1, 1, 1, 1}}
	request := model.Weights{"LM0": {0.1}}

	merged := Merge(session, nil, request)

	assert.Equal(t, []float32{0.1}, merged["LM0"])
	assert.Equal(t, []float32{1, 1, 1, 1}, merged["TM0"])

	merged["TM0"][0] = 5
	assert.Equal(t, float32(1), session["TM0"][0], "inputs must not be aliased")
	assert.Equal(t, []float32{0.9}, session["LM0"])
}

func TestResolve_Layering(t *testing.T) {
	r := newTestRegistry(t)

	t.Run("defaults only", func(t *testing.T) {
		vec, err := r.Resolve()
		require.NoError(t, err)
		assert.Equal(t, []float32{0.2, 0.2, 0.2, 0.2, 0.5, -1}, vec)
	})

	t.Run("session overrides", func(t *testing.T) {
		vec, err := r.Resolve(model.Weights{"LM0": {0.9}})
		require.NoError(t, err)
		assert.Equal(t, []float32{0.2, 0.2, 0.2, 0.2, 0.9, -1}, vec)
	})

	t.Run("request wins over session", func(t *testing.T) {
		vec, err := r.Resolve(model.Weights{"LM0": {0.9}}, model.Weights{"LM0": {0.1}})
		require.NoError(t, err)
		assert.Equal(t, []float32{0.2, 0.2, 0.2, 0.2, 0.1, -1}, vec)
	})

	t.Run("invalid layer", func(t *testing.T) {
		_, err := r.Resolve(model.Weights{"LM0": {0.9}}, model.Weights{"bogus": {1}})
		assert.ErrorIs(t, err, ErrUnknown)
	})
}

func TestResolve_DoesNotMutateDefaults(t *testing.T) {
	r := newTestRegistry(t)

	vec, err := r.Resolve(model.Weights{"WordPenalty0": {3}})
	require.NoError(t, err)
	vec[0] = 100

	def, err := r.Defaults("TM0")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.2, 0.2, 0.2, 0.2}, def)
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 11.0, Dot([]float32{1, 2, 3}, []float32{1, 2, 2}), 1e-6)
	assert.Zero(t, Dot(nil, nil))
}
