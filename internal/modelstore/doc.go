// Package modelstore loads a model's artifacts and exposes them read-only.
//
// A Model bundles the feature registry built from the manifest, the phrase
// table and the optional n-gram language model. Artifacts are fetched from
// a blobstore.Store in parallel, decompressed when needed and charged to the
// resource controller's memory budget until Close.
//
// # Phrase Table
//
// Moses text format, one entry per line:
//
//	das haus ||| the house ||| 0.8 0.6 0.7 0.5
//
// Scores are probabilities and are stored as natural logs. Trailing fields
// (alignments, counts) are ignored.
//
// # Language Model
//
// ARPA format. Log10 probabilities and back-off weights are converted to
// natural logs; unseen n-grams back off in the standard way.
package modelstore
