package smtgo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/smtgo/model"
	"github.com/hupe1980/smtgo/testutil"
)

func TestSession_CreateDestroy(t *testing.T) {
	e := newToyEngine(t)

	id, err := e.CreateSession(model.Weights{testutil.ToyLanguageModel: {0.9}})
	require.NoError(t, err)
	assert.NotEqual(t, model.NoSession, id)
	assert.Equal(t, 1, e.SessionCount())

	require.NoError(t, e.DestroySession(id))
	assert.Zero(t, e.SessionCount())

	err = e.DestroySession(id)
	require.ErrorIs(t, err, ErrSessionInvalid)
	var sie *SessionInvalidError
	require.ErrorAs(t, err, &sie)
	assert.Equal(t, id, sie.Session)
	assert.Equal(t, CodeSessionInvalid, Code(err))
}

func TestSession_DestroyedSessionCannotTranslate(t *testing.T) {
	e := newToyEngine(t)

	id, err := e.CreateSession(nil)
	require.NoError(t, err)
	require.NoError(t, e.DestroySession(id))

	_, err = e.Translate(t.Context(), Request{Text: testutil.ToySentence, Session: id})
	require.ErrorIs(t, err, ErrSessionInvalid)
	assert.NotErrorIs(t, err, ErrNotReady)
}

func TestSession_NeverLiveID(t *testing.T) {
	e := newToyEngine(t)

	_, err := e.Translate(t.Context(), Request{Text: testutil.ToySentence, Session: 12345})
	require.ErrorIs(t, err, ErrSessionInvalid)

	require.ErrorIs(t, e.DestroySession(12345), ErrSessionInvalid)
	require.ErrorIs(t, e.DestroySession(model.NoSession), ErrSessionInvalid)
}

func TestSession_CreateValidates(t *testing.T) {
	e := newToyEngine(t)

	t.Run("unknown feature", func(t *testing.T) {
		_, err := e.CreateSession(model.Weights{
			testutil.ToyLanguageModel: {0.1},
			"Bogus0":                  {1},
		})
		require.ErrorIs(t, err, ErrUnknownFeature)
		var ufe *UnknownFeatureError
		require.ErrorAs(t, err, &ufe)
		assert.Equal(t, "Bogus0", ufe.Feature)
		assert.Zero(t, e.SessionCount())
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := e.CreateSession(model.Weights{testutil.ToyTranslationModel: {1, 2}})
		require.ErrorIs(t, err, ErrWeightArity)
		var wae *WeightArityError
		require.ErrorAs(t, err, &wae)
		assert.Equal(t, testutil.ToyTranslationModel, wae.Feature)
		assert.Equal(t, 4, wae.Expected)
		assert.Equal(t, 2, wae.Actual)
		assert.Zero(t, e.SessionCount())
	})
}

func TestSession_OverridesAreCopied(t *testing.T) {
	stub := &stubSearcher{}
	e := newToyEngine(t, WithSearcher(stub))

	overrides := model.Weights{testutil.ToyLanguageModel: {0.9}}
	id, err := e.CreateSession(overrides)
	require.NoError(t, err)

	overrides[testutil.ToyLanguageModel][0] = -5
	overrides[testutil.ToyWordPenalty] = []float32{3}

	_, err = e.Translate(t.Context(), Request{Text: "das", Session: id})
	require.NoError(t, err)

	w := stub.lastRequest().Weights
	assert.Equal(t, float32(0.9), w[4])
	assert.Equal(t, float32(-1), w[6])
}

func TestSession_IDsAreNeverReused(t *testing.T) {
	e := newToyEngine(t)

	seen := map[model.SessionID]bool{}
	for range 10 {
		id, err := e.CreateSession(nil)
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
		require.NoError(t, e.DestroySession(id))
	}
}

func TestSession_ConcurrentCreateDestroy(t *testing.T) {
	e := newToyEngine(t)

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	ids := make(chan model.SessionID, workers*perWorker)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id, err := e.CreateSession(model.Weights{testutil.ToyPhrasePenalty: {0.1}})
				if assert.NoError(t, err) {
					ids <- id
				}
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[model.SessionID]bool{}
	for id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Equal(t, workers*perWorker, e.SessionCount())

	for id := range seen {
		require.NoError(t, e.DestroySession(id))
	}
	assert.Zero(t, e.SessionCount())
}

func TestSession_DisposeInvalidatesSessions(t *testing.T) {
	store, name := testutil.ToyStore(t)
	e := New(WithStore(store))
	require.NoError(t, e.Init(t.Context(), name))

	id, err := e.CreateSession(nil)
	require.NoError(t, err)

	e.Dispose()
	assert.Zero(t, e.SessionCount())

	err = e.DestroySession(id)
	require.ErrorIs(t, err, ErrSessionInvalid)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, CodeNotReady, Code(err))
}
