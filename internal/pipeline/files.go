package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"sampleprep/internal/logging"
	"sampleprep/internal/media/audio"
	"sampleprep/internal/naming"
	"sampleprep/internal/plan"
	"sampleprep/internal/report"
)

// tempPrefix marks in-progress conversion outputs next to their source.
const tempPrefix = "_tmp_"

// processFiles is phase 2: probe, canonicalize, and convert every file in
// the renamed tree. Files are visited in lexicographic order of their
// post-phase-1 paths so dry-run and live plans line up exactly. Returns
// true when the context was cancelled.
func (r *Runner) processFiles(ctx context.Context, t *tree, rep *report.Reporter) bool {
	type fileEntry struct {
		orig      string
		projected string
	}

	entries := make([]fileEntry, 0, len(t.files))
	audioCount := 0
	for _, f := range t.files {
		entries = append(entries, fileEntry{orig: f, projected: t.resolve(f)})
		if audio.RecognizedExtension(filepath.Ext(f)) {
			audioCount++
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].projected < entries[j].projected
	})

	r.logger.Info("found audio files", logging.Int("count", audioCount))

	for index, entry := range entries {
		if ctx.Err() != nil {
			r.logger.Warn("interrupted during file processing")
			return true
		}
		r.logger.Info("processing file",
			logging.Int("index", index+1),
			logging.Int("total", len(entries)),
			logging.String("path", t.rel(entry.projected)),
		)
		r.processFile(ctx, t, rep, entry.orig, entry.projected)
	}
	return false
}

// processFile walks one file through its state machine:
// Pending -> Probed -> {Skipped | RenamedOnly | Converted | Errored}.
// Every outcome is terminal; there are no retries within a run.
func (r *Runner) processFile(ctx context.Context, t *tree, rep *report.Reporter, orig, projected string) {
	source := t.rel(projected)
	name := filepath.Base(orig)

	if !audio.RecognizedExtension(filepath.Ext(name)) {
		r.record(rep, plan.Record{
			Kind:   plan.KindSkip,
			Source: source,
			Detail: "not an audio file",
		})
		return
	}

	// Probe the real on-disk location: post-rename in live mode, the
	// original path in dry-run where phase 1 changed nothing.
	realSource := orig
	if !r.dryRun {
		realSource = projected
	}

	format, err := r.prober.Probe(ctx, realSource)
	if err != nil {
		r.record(rep, plan.Record{
			Kind:   plan.KindError,
			Source: source,
			Detail: fmt.Sprintf("probe failed: %v", err),
		})
		return
	}

	parent := filepath.Dir(orig)
	if format.Matches(r.target) {
		canonical := naming.Normalize(name)
		if canonical == name {
			r.record(rep, plan.Record{
				Kind:   plan.KindSkip,
				Source: source,
				Detail: "already canonical, format matches",
			})
			return
		}
		r.renameFile(t, rep, parent, realSource, source, name, canonical)
		return
	}

	r.convertFile(ctx, t, rep, parent, realSource, source, name, format)
}

// renameFile handles the format-matches-but-name-differs case: an in-place
// rename with no re-encode.
func (r *Runner) renameFile(t *tree, rep *report.Reporter, parent, realSource, source, name, canonical string) {
	dest := filepath.Join(filepath.Dir(source), canonical)

	if t.hasChild(parent, canonical) {
		r.record(rep, plan.Record{
			Kind:   plan.KindError,
			Source: source,
			Dest:   dest,
			Detail: "canonical name already taken by a sibling",
		})
		return
	}

	realDest := filepath.Join(filepath.Dir(realSource), canonical)
	if err := r.mutator.Rename(realSource, realDest); err != nil {
		r.record(rep, plan.Record{
			Kind:   plan.KindError,
			Source: source,
			Dest:   dest,
			Detail: fmt.Sprintf("rename failed: %v", err),
		})
		return
	}

	t.renameChild(parent, name, canonical)
	r.record(rep, plan.Record{
		Kind:   plan.KindRenameFile,
		Source: source,
		Dest:   dest,
	})
}

// convertFile transcodes into a temporary sibling, then swaps it in. The
// original is deleted only after the transcoder has verified its output,
// so any failure leaves the source untouched.
func (r *Runner) convertFile(ctx context.Context, t *tree, rep *report.Reporter, parent, realSource, source, name string, format audio.Format) {
	stem := naming.NormalizeStem(name)
	if stem == "" {
		r.record(rep, plan.Record{
			Kind:   plan.KindError,
			Source: source,
			Detail: "name normalizes to empty",
		})
		return
	}
	destName := stem + ".wav"
	dest := filepath.Join(filepath.Dir(source), destName)

	if destName != name && t.hasChild(parent, destName) {
		r.record(rep, plan.Record{
			Kind:   plan.KindError,
			Source: source,
			Dest:   dest,
			Detail: "canonical name already taken by a sibling",
		})
		return
	}

	if !r.dryRun {
		realDir := filepath.Dir(realSource)
		realTemp := filepath.Join(realDir, tempPrefix+destName)
		realDest := filepath.Join(realDir, destName)

		if err := r.transcoder.Convert(ctx, realSource, realTemp, r.target); err != nil {
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Dest:   dest,
				Detail: fmt.Sprintf("conversion failed: %v", err),
			})
			return
		}
		if err := r.mutator.Remove(realSource); err != nil {
			_ = r.mutator.Remove(realTemp)
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Dest:   dest,
				Detail: fmt.Sprintf("remove original failed: %v", err),
			})
			return
		}
		if err := r.mutator.Rename(realTemp, realDest); err != nil {
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Dest:   dest,
				Detail: fmt.Sprintf("finalize converted file failed: %v", err),
			})
			return
		}
	}

	t.renameChild(parent, name, destName)
	r.record(rep, plan.Record{
		Kind:   plan.KindConvert,
		Source: source,
		Dest:   dest,
		Detail: format.String(),
	})
}
