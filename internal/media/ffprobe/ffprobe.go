package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"sampleprep/internal/media/audio"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	SampleRate       string `json:"sample_rate"`
	SampleFmt        string `json:"sample_fmt"`
	Channels         int    `json:"channels"`
	BitsPerSample    int    `json:"bits_per_sample"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		detail := ""
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = strings.TrimSpace(string(exitErr.Stderr))
		}
		if detail != "" {
			return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, detail)
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	return ParseOutput(output)
}

// ParseOutput decodes captured ffprobe JSON. Exported so tests can exercise
// format extraction without a real binary.
func ParseOutput(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// AudioFormat reduces the probe result to the properties the pipeline cares
// about, taken from the first audio stream. It fails when the container has
// no audio stream at all.
func (r Result) AudioFormat() (audio.Format, error) {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		format := audio.Format{
			SampleRate: parseInt(stream.SampleRate),
			BitDepth:   bitDepth(stream),
			Codec:      codecFamily(r.Format.FormatName, stream.CodecName),
			Channels:   stream.Channels,
		}
		return format, nil
	}
	return audio.Format{}, errors.New("no audio stream found")
}

// bitDepth resolves the effective bit depth of a stream. Lossy codecs
// report 0 everywhere, which is fine: they can never match the target.
func bitDepth(stream Stream) int {
	if stream.BitsPerSample > 0 {
		return stream.BitsPerSample
	}
	if raw := parseInt(stream.BitsPerRawSample); raw > 0 {
		return raw
	}
	switch strings.TrimSuffix(strings.ToLower(stream.SampleFmt), "p") {
	case "u8":
		return 8
	case "s16":
		return 16
	case "s32", "flt":
		return 32
	case "s64", "dbl":
		return 64
	}
	return 0
}

// codecFamily maps ffprobe's container and codec names onto the audio.Codec
// families the pipeline recognizes. The format_name takes precedence since
// e.g. pcm_s16le appears in both WAV and AIFF containers.
func codecFamily(formatName, codecName string) audio.Codec {
	for _, name := range strings.Split(strings.ToLower(formatName), ",") {
		switch strings.TrimSpace(name) {
		case "wav":
			return audio.CodecWAV
		case "aiff":
			return audio.CodecAIFF
		case "mp3":
			return audio.CodecMP3
		case "flac":
			return audio.CodecFLAC
		}
	}
	switch strings.ToLower(codecName) {
	case "mp3":
		return audio.CodecMP3
	case "flac":
		return audio.CodecFLAC
	}
	return audio.CodecOther
}

func parseInt(value string) int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return parsed
}

// Prober inspects sample files with a bounded per-file timeout. A hung
// ffprobe marks that one file as errored instead of stalling the run.
type Prober struct {
	Binary  string
	Timeout time.Duration
}

// Probe runs ffprobe against path and extracts the audio format.
func (p Prober) Probe(ctx context.Context, path string) (audio.Format, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	result, err := Inspect(ctx, p.Binary, path)
	if err != nil {
		return audio.Format{}, err
	}
	return result.AudioFormat()
}
