package feature

import (
	"github.com/hupe1980/smtgo/model"
)

// Merge layers weight overrides; for each feature the last layer naming it
// wins. Nil layers are skipped. The inputs are not modified and the result
// shares no memory with them.
func Merge(layers ...model.Weights) model.Weights {
	out := make(model.Weights)
	for _, layer := range layers {
		for name, vec := range layer {
			out[name] = append([]float32(nil), vec...)
		}
	}
	return out
}

// Resolve returns the dense weight vector obtained by applying layers, in
// order, on top of the registry defaults. Every layer is validated first.
func (r *Registry) Resolve(layers ...model.Weights) ([]float32, error) {
	for _, layer := range layers {
		if err := r.Validate(layer); err != nil {
			return nil, err
		}
	}

	vec := r.DefaultVector()
	for name, w := range Merge(layers...) {
		i := r.index[name]
		copy(vec[r.offsets[i]:], w)
	}
	return vec, nil
}

// Dot returns the weighted sum of a dense score vector.
func Dot(weights, scores []float32) float32 {
	var sum float32
	for i := range scores {
		sum += weights[i] * scores[i]
	}
	return sum
}
