// Package compress decodes optionally compressed model artifacts.
//
// Artifacts are self-describing: the codec is detected from the frame magic,
// not the file name. Supported codecs are zstd frames
// (github.com/klauspost/compress/zstd) and LZ4 frames
// (github.com/pierrec/lz4/v4). Anything else is treated as plain data.
package compress
