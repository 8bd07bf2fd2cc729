package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"sampleprep/internal/media/audio"
)

// FFmpeg converts samples by shelling out to the ffmpeg binary with a
// bounded per-file timeout.
type FFmpeg struct {
	Binary  string
	Timeout time.Duration
}

// Convert rewrites source into dest at the target format, preserving the
// channel layout unless the target forces stereo. dest is removed again
// when ffmpeg fails or produces an empty file.
func (f FFmpeg) Convert(ctx context.Context, source, dest string, target audio.Target) error {
	source = strings.TrimSpace(source)
	dest = strings.TrimSpace(dest)
	if source == "" || dest == "" {
		return errors.New("ffmpeg convert: empty source or destination path")
	}
	if source == dest {
		return fmt.Errorf("ffmpeg convert: source and destination are the same path %q", source)
	}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary, buildArgs(source, dest, target)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("ffmpeg convert: %w: %s", err, stderrTail(output))
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("ffmpeg convert: output missing: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(dest)
		return fmt.Errorf("ffmpeg convert: produced empty output %q", dest)
	}
	return nil
}

// buildArgs assembles the ffmpeg invocation. -vn drops embedded cover art
// so MP3/FLAC sources become plain audio-only WAV files.
func buildArgs(source, dest string, target audio.Target) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-v", "error",
		"-i", source,
		"-vn",
		"-map_metadata", "-1",
		"-ar", strconv.Itoa(target.SampleRate),
		"-sample_fmt", sampleFmt(target.BitDepth),
	}
	if target.ForceStereo {
		args = append(args, "-ac", "2")
	}
	return append(args, "-y", dest)
}

func sampleFmt(bitDepth int) string {
	switch bitDepth {
	case 32:
		return "s32"
	default:
		return "s16"
	}
}

// stderrTail keeps the last few lines of ffmpeg output for diagnostics.
func stderrTail(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}
