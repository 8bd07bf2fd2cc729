// Package audio defines the sample format vocabulary shared by the prober,
// the transcoder, and the processing pipeline.
//
// Key types:
//   - Format: the probed properties of one audio file
//   - Target: the fixed format every sample should end up in
//   - Codec: the recognized container/codec families
//
// Format.Matches is the single place that decides whether a file needs
// conversion, so policy changes never leak into pipeline code.
package audio
