// Package manifest implements the model manifest: the JSON document that
// names a model's features, default weights, artifacts and decoding
// defaults.
//
// # Format
//
//	{
//	  "version": 1,
//	  "source_language": "de",
//	  "target_language": "en",
//	  "features": [
//	    {"name": "TranslationModel0", "type": "phrase_table", "weights": [0.2, 0.2, 0.2, 0.2]},
//	    {"name": "LM0", "type": "language_model", "weights": [0.5]},
//	    {"name": "Distortion0", "type": "distortion", "weights": [0.3]},
//	    {"name": "WordPenalty0", "type": "word_penalty", "weights": [-1]}
//	  ],
//	  "phrase_table": "phrase-table.txt.zst",
//	  "language_model": "lm.arpa",
//	  "decoding": {"beam_size": 100, "distortion_limit": 6}
//	}
//
// Artifact paths are relative to the manifest. Features are listed in
// canonical order; that order fixes the layout of every weight and score
// vector.
//
// # CURRENT Pointer
//
// Load accepts either a manifest name or the name of a CURRENT pointer
// whose content is the manifest name, relative to the pointer's directory.
package manifest
