package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"sampleprep/internal/media/audio"
	"sampleprep/internal/pipeline"
	"sampleprep/internal/plan"
)

// fakeProber resolves formats by base name so results survive renames.
// Unknown names fall back to the canonical target format.
type fakeProber struct {
	formats map[string]audio.Format
	errs    map[string]error
}

func (p *fakeProber) Probe(_ context.Context, path string) (audio.Format, error) {
	name := filepath.Base(path)
	if err := p.errs[name]; err != nil {
		return audio.Format{}, err
	}
	if f, ok := p.formats[name]; ok {
		return f, nil
	}
	return canonicalFormat(), nil
}

// fakeTranscoder writes a non-empty dest and records each source it saw.
// It fails loudly when the source is already gone, which is exactly the
// ordering bug the pipeline must never exhibit.
type fakeTranscoder struct {
	calls []string
	errs  map[string]error
}

func (tr *fakeTranscoder) Convert(_ context.Context, source, dest string, _ audio.Target) error {
	name := filepath.Base(source)
	if err := tr.errs[name]; err != nil {
		return err
	}
	if _, err := os.Stat(source); err != nil {
		return err
	}
	tr.calls = append(tr.calls, name)
	return os.WriteFile(dest, []byte("RIFF fake payload"), 0o644)
}

func canonicalFormat() audio.Format {
	return audio.Format{SampleRate: 44100, BitDepth: 16, Codec: audio.CodecWAV, Channels: 2}
}

func newRunner(t *testing.T, root string, dryRun bool, prober pipeline.Prober, transcoder pipeline.Transcoder) *pipeline.Runner {
	t.Helper()
	runner, err := pipeline.NewRunner(pipeline.Options{
		Root:       root,
		DryRun:     dryRun,
		Prober:     prober,
		Transcoder: transcoder,
	})
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	return runner
}

func findRecord(t *testing.T, records []plan.Record, kind plan.Kind, source string) plan.Record {
	t.Helper()
	for _, rec := range records {
		if rec.Kind == kind && rec.Source == source {
			return rec
		}
	}
	t.Fatalf("no %s record for %q in %v", kind, source, records)
	return plan.Record{}
}

func writeSample(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("sample data"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	prober := &fakeProber{}
	transcoder := &fakeTranscoder{}

	if _, err := pipeline.NewRunner(pipeline.Options{Prober: prober, Transcoder: transcoder}); !errors.Is(err, pipeline.ErrUsage) {
		t.Fatalf("expected ErrUsage for missing root, got %v", err)
	}
	if _, err := pipeline.NewRunner(pipeline.Options{Root: t.TempDir()}); !errors.Is(err, pipeline.ErrUsage) {
		t.Fatalf("expected ErrUsage for missing tools, got %v", err)
	}
	if _, err := pipeline.NewRunner(pipeline.Options{Root: t.TempDir(), Prober: prober, Transcoder: transcoder}); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
}

func TestRunProcessesMixedTree(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "Hip Hop", "Kick Drum 1.wav"))
	writeSample(t, filepath.Join(root, "snare.wav"))
	writeSample(t, filepath.Join(root, "broken.mp3"))
	writeSample(t, filepath.Join(root, "readme.txt"))

	prober := &fakeProber{
		formats: map[string]audio.Format{
			"Kick Drum 1.wav": {SampleRate: 48000, BitDepth: 24, Codec: audio.CodecWAV, Channels: 2},
		},
		errs: map[string]error{
			"broken.mp3": errors.New("invalid data found when processing input"),
		},
	}
	transcoder := &fakeTranscoder{}
	runner := newRunner(t, root, false, prober, transcoder)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := plan.Summary{RenamedDirs: 1, Converted: 1, Skipped: 2, Errors: 1}
	if result.Summary != want {
		t.Fatalf("summary = %+v, want %+v", result.Summary, want)
	}

	findRecord(t, result.Records, plan.KindRenameDir, "Hip Hop")
	findRecord(t, result.Records, plan.KindSkip, "snare.wav")
	errRec := findRecord(t, result.Records, plan.KindError, "broken.mp3")
	if errRec.Detail == "" {
		t.Fatal("error record should carry the probe failure detail")
	}
	conv := findRecord(t, result.Records, plan.KindConvert, filepath.Join("hip_hop", "Kick Drum 1.wav"))
	if conv.Dest != filepath.Join("hip_hop", "kick_drum_1.wav") {
		t.Fatalf("unexpected convert dest: %q", conv.Dest)
	}
	if conv.Detail != "48000Hz/24-bit wav (2ch)" {
		t.Fatalf("convert detail should describe the probed format, got %q", conv.Detail)
	}

	converted := filepath.Join(root, "hip_hop", "kick_drum_1.wav")
	info, err := os.Stat(converted)
	if err != nil {
		t.Fatalf("converted file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("converted file is empty")
	}
	if _, err := os.Stat(filepath.Join(root, "hip_hop", "Kick Drum 1.wav")); !os.IsNotExist(err) {
		t.Fatal("original should be deleted after conversion")
	}
	if _, err := os.Stat(filepath.Join(root, "hip_hop", "_tmp_kick_drum_1.wav")); !os.IsNotExist(err) {
		t.Fatal("temporary conversion output left behind")
	}
	if _, err := os.Stat(filepath.Join(root, "broken.mp3")); err != nil {
		t.Fatal("errored file must remain untouched")
	}
	if _, err := os.Stat(result.LogPath); err != nil {
		t.Fatalf("run log missing: %v", err)
	}
}

func TestRunRenameOnlyWhenFormatMatches(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "Snare Hit.wav"))

	transcoder := &fakeTranscoder{}
	runner := newRunner(t, root, false, &fakeProber{}, transcoder)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Summary.RenamedFiles != 1 || result.Summary.Converted != 0 {
		t.Fatalf("expected one rename and no conversions, got %+v", result.Summary)
	}
	if len(transcoder.calls) != 0 {
		t.Fatalf("transcoder must not run for matching formats: %v", transcoder.calls)
	}
	if _, err := os.Stat(filepath.Join(root, "snare_hit.wav")); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
}

func TestRunDryRunMatchesLivePlanAndTouchesNothing(t *testing.T) {
	build := func(t *testing.T) string {
		root := t.TempDir()
		writeSample(t, filepath.Join(root, "Drum Loops", "Funk Break 1.wav"))
		writeSample(t, filepath.Join(root, "Drum Loops", "clap.wav"))
		writeSample(t, filepath.Join(root, "Old Vinyl.mp3"))
		return root
	}
	formats := map[string]audio.Format{
		"Funk Break 1.wav": {SampleRate: 48000, BitDepth: 24, Codec: audio.CodecWAV, Channels: 2},
		"Old Vinyl.mp3":    {SampleRate: 44100, BitDepth: 0, Codec: audio.CodecMP3, Channels: 2},
	}

	dryRoot := build(t)
	dryRunner := newRunner(t, dryRoot, true, &fakeProber{formats: formats}, &fakeTranscoder{})
	dryResult, err := dryRunner.Run(context.Background())
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	liveRoot := build(t)
	liveRunner := newRunner(t, liveRoot, false, &fakeProber{formats: formats}, &fakeTranscoder{})
	liveResult, err := liveRunner.Run(context.Background())
	if err != nil {
		t.Fatalf("live run failed: %v", err)
	}

	if len(dryResult.Records) != len(liveResult.Records) {
		t.Fatalf("plan lengths differ: dry %d, live %d", len(dryResult.Records), len(liveResult.Records))
	}
	for i := range dryResult.Records {
		d, l := dryResult.Records[i], liveResult.Records[i]
		d.DryRun, l.DryRun = false, false
		if d != l {
			t.Fatalf("plan diverges at %d: dry %+v, live %+v", i, d, l)
		}
	}

	// Dry run leaves the tree byte-for-byte alone.
	for _, p := range []string{
		filepath.Join(dryRoot, "Drum Loops", "Funk Break 1.wav"),
		filepath.Join(dryRoot, "Drum Loops", "clap.wav"),
		filepath.Join(dryRoot, "Old Vinyl.mp3"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("dry run modified the tree: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dryRoot, "drum_loops")); !os.IsNotExist(err) {
		t.Fatal("dry run must not rename directories")
	}
}

func TestRunSecondPassIsAllSkips(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "Hip Hop", "Kick Drum 1.wav"))
	writeSample(t, filepath.Join(root, "Hip Hop", "snare.wav"))

	formats := map[string]audio.Format{
		"Kick Drum 1.wav": {SampleRate: 96000, BitDepth: 32, Codec: audio.CodecWAV, Channels: 2},
	}

	first := newRunner(t, root, false, &fakeProber{formats: formats}, &fakeTranscoder{})
	if _, err := first.Run(context.Background()); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	second := newRunner(t, root, false, &fakeProber{formats: formats}, &fakeTranscoder{})
	result, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	s := result.Summary
	if s.RenamedDirs != 0 || s.RenamedFiles != 0 || s.Converted != 0 || s.Errors != 0 {
		t.Fatalf("second pass should change nothing, got %+v", s)
	}
	for _, rec := range result.Records {
		if rec.Source == "processing_log.txt" {
			t.Fatal("run log leaked into the plan")
		}
	}
}

func TestRunCollisionsAreRecordedNotApplied(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "Snare Drum", "a.wav"))
	writeSample(t, filepath.Join(root, "snare_drum", "b.wav"))
	writeSample(t, filepath.Join(root, "Loop 1.wav"))
	writeSample(t, filepath.Join(root, "loop_1.wav"))

	runner := newRunner(t, root, false, &fakeProber{}, &fakeTranscoder{})
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	dirErr := findRecord(t, result.Records, plan.KindError, "Snare Drum")
	if dirErr.Detail != "canonical name already taken by a sibling" {
		t.Fatalf("unexpected dir collision detail: %q", dirErr.Detail)
	}
	fileErr := findRecord(t, result.Records, plan.KindError, "Loop 1.wav")
	if fileErr.Dest != "loop_1.wav" {
		t.Fatalf("collision record should name the contested dest, got %q", fileErr.Dest)
	}

	// Both sides of each collision survive untouched.
	for _, p := range []string{"Snare Drum", "snare_drum", "Loop 1.wav", "loop_1.wav"} {
		if _, err := os.Stat(filepath.Join(root, p)); err != nil {
			t.Fatalf("collision mutated %q: %v", p, err)
		}
	}
}

func TestRunConversionFailureKeepsOriginal(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "Old Break.mp3"))

	prober := &fakeProber{formats: map[string]audio.Format{
		"Old Break.mp3": {SampleRate: 44100, BitDepth: 0, Codec: audio.CodecMP3, Channels: 2},
	}}
	transcoder := &fakeTranscoder{errs: map[string]error{
		"Old Break.mp3": errors.New("encoder blew up"),
	}}
	runner := newRunner(t, root, false, prober, transcoder)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	rec := findRecord(t, result.Records, plan.KindError, "Old Break.mp3")
	if rec.Detail != "conversion failed: encoder blew up" {
		t.Fatalf("unexpected detail: %q", rec.Detail)
	}
	if _, err := os.Stat(filepath.Join(root, "Old Break.mp3")); err != nil {
		t.Fatal("failed conversion must leave the original in place")
	}
	if _, err := os.Stat(filepath.Join(root, "old_break.wav")); !os.IsNotExist(err) {
		t.Fatal("no converted output should exist after a failure")
	}
}

func TestRunRefusesLockedRoot(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "kick.wav"))

	lock := flock.New(filepath.Join(root, ".sampleprep.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take test lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	runner := newRunner(t, root, false, &fakeProber{}, &fakeTranscoder{})
	if _, err := runner.Run(context.Background()); !errors.Is(err, pipeline.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunDryRunIgnoresLock(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "kick.wav"))

	lock := flock.New(filepath.Join(root, ".sampleprep.lock"))
	if locked, err := lock.TryLock(); err != nil || !locked {
		t.Fatalf("could not take test lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = lock.Unlock() }()

	runner := newRunner(t, root, true, &fakeProber{}, &fakeTranscoder{})
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("dry run should not need the lock: %v", err)
	}
}

func TestRunCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeSample(t, filepath.Join(root, "kick.wav"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := newRunner(t, root, false, &fakeProber{}, &fakeTranscoder{})
	result, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Summary.Total() != 0 {
		t.Fatalf("cancelled-before-start run should record nothing, got %+v", result.Summary)
	}
}

func TestRunRejectsMissingRoot(t *testing.T) {
	runner := newRunner(t, filepath.Join(t.TempDir(), "nope"), false, &fakeProber{}, &fakeTranscoder{})
	if _, err := runner.Run(context.Background()); !errors.Is(err, pipeline.ErrUsage) {
		t.Fatalf("expected ErrUsage for missing root, got %v", err)
	}
}
