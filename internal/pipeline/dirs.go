package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"sampleprep/internal/logging"
	"sampleprep/internal/naming"
	"sampleprep/internal/plan"
	"sampleprep/internal/report"
)

// renameDirectories is phase 1: canonicalize every directory below the
// root, deepest first. Returns true when the context was cancelled.
func (r *Runner) renameDirectories(ctx context.Context, t *tree, rep *report.Reporter) bool {
	for _, dir := range t.dirs {
		if ctx.Err() != nil {
			r.logger.Warn("interrupted during directory renaming")
			return true
		}

		name := filepath.Base(dir.path)
		canonical := naming.Normalize(name)
		source := t.rel(dir.path)

		if canonical == "" {
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Detail: "name normalizes to empty",
			})
			continue
		}

		if canonical == name {
			r.record(rep, plan.Record{
				Kind:   plan.KindSkip,
				Source: source,
				Detail: "already canonical",
			})
			continue
		}

		parent := filepath.Dir(dir.path)
		if t.hasChild(parent, canonical) {
			// Never merge directories: a case-collapsed sibling wins
			// and this entry stays as it is.
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Dest:   filepath.Join(filepath.Dir(source), canonical),
				Detail: "canonical name already taken by a sibling",
			})
			continue
		}

		newPath := filepath.Join(parent, canonical)
		if err := r.mutator.Rename(dir.path, newPath); err != nil {
			r.record(rep, plan.Record{
				Kind:   plan.KindError,
				Source: source,
				Dest:   t.rel(newPath),
				Detail: fmt.Sprintf("rename failed: %v", err),
			})
			continue
		}

		t.applyRename(dir.path, newPath)
		t.renameChild(parent, name, canonical)
		r.record(rep, plan.Record{
			Kind:   plan.KindRenameDir,
			Source: source,
			Dest:   t.rel(newPath),
		})
		r.logger.Debug("renamed directory",
			logging.String("from", source),
			logging.String("to", t.rel(newPath)),
		)
	}
	return false
}
