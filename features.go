package smtgo

import (
	"github.com/hupe1980/smtgo/model"
)

// ListFeatures returns the model's features in canonical order. The result
// is a deep copy.
func (e *Engine) ListFeatures() ([]model.Feature, error) {
	snap, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer snap.decRef()

	return snap.model.Registry.Features(), nil
}

// DefaultWeights returns a copy of the default weights of the named feature.
func (e *Engine) DefaultWeights(name string) ([]float32, error) {
	snap, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer snap.decRef()

	w, err := snap.model.Registry.Defaults(name)
	if err != nil {
		return nil, translateError(err)
	}
	return w, nil
}
