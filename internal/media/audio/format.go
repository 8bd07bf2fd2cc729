package audio

import (
	"fmt"
	"strings"
)

// Codec identifies the container/codec family of a sample file.
type Codec string

const (
	CodecWAV   Codec = "wav"
	CodecAIFF  Codec = "aiff"
	CodecMP3   Codec = "mp3"
	CodecFLAC  Codec = "flac"
	CodecOther Codec = "other"
)

// Format describes the probed properties of one audio file.
type Format struct {
	SampleRate int
	BitDepth   int
	Codec      Codec
	Channels   int
}

// String renders the format the way it appears in progress output,
// e.g. "48000Hz/24-bit wav (2ch)".
func (f Format) String() string {
	depth := "?"
	if f.BitDepth > 0 {
		depth = fmt.Sprintf("%d", f.BitDepth)
	}
	return fmt.Sprintf("%dHz/%s-bit %s (%dch)", f.SampleRate, depth, f.Codec, f.Channels)
}

// Target is the format every processed sample should end up in. Channel
// count is preserved unless ForceStereo downmixes to two channels.
type Target struct {
	SampleRate  int
	BitDepth    int
	ForceStereo bool
}

// DefaultTarget is the hardware-sampler baseline: CD-quality WAV.
func DefaultTarget() Target {
	return Target{SampleRate: 44100, BitDepth: 16}
}

// Matches reports whether a probed format already satisfies the target, in
// which case no conversion is required. Only WAV containers can match.
func (f Format) Matches(t Target) bool {
	if f.Codec != CodecWAV {
		return false
	}
	if f.SampleRate != t.SampleRate || f.BitDepth != t.BitDepth {
		return false
	}
	if t.ForceStereo && f.Channels != 2 {
		return false
	}
	return true
}

// recognizedExtensions are the containers the pipeline treats as audio.
// Everything else is skipped without probing.
var recognizedExtensions = map[string]struct{}{
	".wav":  {},
	".aif":  {},
	".aiff": {},
	".mp3":  {},
	".flac": {},
}

// RecognizedExtension reports whether ext (with or without a leading dot,
// any case) names a supported audio container.
func RecognizedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	_, ok := recognizedExtensions[ext]
	return ok
}
