// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Prober: the pipeline-facing inspector with its binary and timeout
//
// Inspect executes ffprobe and returns the parsed Result; ParseOutput
// decodes captured JSON so tests never need the real binary. The
// AudioFormat helper reduces a Result to the audio.Format the pipeline
// bases its conversion decision on.
package ffprobe
