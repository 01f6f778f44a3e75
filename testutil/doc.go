// Package testutil provides testing utilities for smtgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Toy Model
//
// WriteToyModel publishes a tiny German to English model (phrase table,
// bigram language model and manifest) into any writable store:
//
//	store := blobstore.NewMemoryStore()
//	name, err := testutil.WriteToyModel(ctx, store, "toy", testutil.WithZstd())
//
//	engine := smtgo.New(smtgo.WithStore(store))
//	err = engine.Init(ctx, name)
//
// The model translates ToySentence to ToyBest.
//
// # Random Input
//
//	rng := testutil.NewRNG(seed)
//	sentence := rng.Sentence(testutil.ToyVocabulary, 5)
//	features, err := engine.ListFeatures()
//	weights := rng.Weights(features)
package testutil
