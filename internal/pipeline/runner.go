package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"sampleprep/internal/logging"
	"sampleprep/internal/media/audio"
	"sampleprep/internal/plan"
	"sampleprep/internal/report"
)

// lockFileName guards a root against concurrent live runs. The ordering
// invariants assume a single writer.
const lockFileName = ".sampleprep.lock"

// Prober inspects one file and reports its audio format.
type Prober interface {
	Probe(ctx context.Context, path string) (audio.Format, error)
}

// Transcoder rewrites source into dest at the target format without ever
// touching source.
type Transcoder interface {
	Convert(ctx context.Context, source, dest string, target audio.Target) error
}

// Options describes a processing run.
type Options struct {
	Root        string
	DryRun      bool
	Target      audio.Target
	LogFileName string
	RunID       string
	Prober      Prober
	Transcoder  Transcoder
	Logger      *slog.Logger
}

// Runner executes the two-phase pipeline over one root.
type Runner struct {
	root        string
	dryRun      bool
	target      audio.Target
	logFileName string
	runID       string
	prober      Prober
	transcoder  Transcoder
	mutator     Mutator
	logger      *slog.Logger
}

// Result carries the outcome of a completed (or interrupted) run.
type Result struct {
	Summary plan.Summary
	Records []plan.Record
	LogPath string
	// LogErr reports run-log persistence trouble. It is never fatal.
	LogErr error
}

// NewRunner validates options and builds a runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Root == "" {
		return nil, Wrap(ErrUsage, "run", "validate options", "root path is required", nil)
	}
	if opts.Prober == nil || opts.Transcoder == nil {
		return nil, Wrap(ErrUsage, "run", "validate options", "prober and transcoder are required", nil)
	}

	target := opts.Target
	if target.SampleRate == 0 {
		target = audio.DefaultTarget()
	}
	logFileName := opts.LogFileName
	if logFileName == "" {
		logFileName = "processing_log.txt"
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var mutator Mutator = liveMutator{}
	if opts.DryRun {
		mutator = dryMutator{}
	}

	return &Runner{
		root:        opts.Root,
		dryRun:      opts.DryRun,
		target:      target,
		logFileName: logFileName,
		runID:       runID,
		prober:      opts.Prober,
		transcoder:  opts.Transcoder,
		mutator:     mutator,
		logger: logging.NewComponentLogger(logger, "pipeline").With(
			logging.String(logging.FieldRunID, runID),
		),
	}, nil
}

// Run validates the root, then executes phase 1 (directory renames) to
// completion before phase 2 (file processing) starts. Per-entry failures
// are recorded and never abort the run; only an unusable root, a lock
// conflict, or an unreadable tree do.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		return Result{}, Wrap(ErrUsage, "run", "validate root", fmt.Sprintf("cannot access %q", r.root), err)
	}
	if !info.IsDir() {
		return Result{}, Wrap(ErrUsage, "run", "validate root", fmt.Sprintf("%q is not a directory", r.root), nil)
	}

	if !r.dryRun {
		lockPath := filepath.Join(r.root, lockFileName)
		lock := flock.New(lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return Result{}, Wrap(ErrLocked, "run", "acquire lock", lockPath, err)
		}
		if !ok {
			return Result{}, Wrap(ErrLocked, "run", "acquire lock", "another sampleprep run is already processing this root", nil)
		}
		defer func() {
			_ = lock.Unlock()
			_ = os.Remove(lockPath)
		}()
	}

	rep := report.New(r.root, r.logFileName, r.runID, r.dryRun, r.logger)

	tree, err := collectTree(r.root, map[string]struct{}{
		r.logFileName: {},
		lockFileName:  {},
	})
	if err != nil {
		_ = rep.Close()
		return Result{}, err
	}

	r.logger.Info("phase 1: renaming directories",
		logging.String(logging.FieldPhase, "directories"),
		logging.Int("count", len(tree.dirs)),
		logging.Bool("dry_run", r.dryRun),
	)
	interrupted := r.renameDirectories(ctx, tree, rep)

	if !interrupted {
		r.logger.Info("phase 2: processing files",
			logging.String(logging.FieldPhase, "files"),
			logging.Int("count", len(tree.files)),
		)
		interrupted = r.processFiles(ctx, tree, rep)
	}

	logErr := rep.Close()
	if logErr != nil {
		logErr = Wrap(ErrLogWrite, "run", "persist log", rep.Path(), logErr)
	}

	result := Result{
		Summary: rep.Plan().Summarize(),
		Records: rep.Plan().Records(),
		LogPath: rep.Path(),
		LogErr:  logErr,
	}
	if interrupted {
		return result, ctx.Err()
	}
	return result, nil
}

// record stamps the run mode onto a plan record before reporting it.
func (r *Runner) record(rep *report.Reporter, rec plan.Record) {
	rec.DryRun = r.dryRun
	rep.Record(rec)
}
