// Package search implements the phrase-based stack decoder.
//
// Decoding follows the classic beam search over partial translations:
//
//  1. Translation options are collected for every source span, scored in
//     isolation and cut to the table limit.
//  2. A future cost table estimates the best completion score of every
//     uncovered span.
//  3. Hypotheses are expanded stack by stack, where stack k holds the
//     hypotheses covering k source words. Each stack is recombined (equal
//     coverage, last source position and language model state) and pruned
//     to the beam size by score plus future cost.
//  4. The n-best list is read from the final stack, extended with
//     alternatives obtained by swapping in one recombined hypothesis along
//     each final path, and made distinct by target text.
//
// Source coverage is tracked with roaring bitmaps. A Decoder is safe for
// concurrent use; each Decode call owns its scratch state.
package search
