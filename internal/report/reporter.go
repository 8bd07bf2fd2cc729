package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sampleprep/internal/logging"
	"sampleprep/internal/plan"
)

// Reporter accumulates the run plan, prints one progress line per action,
// and streams the plain-text run log into the processed root.
type Reporter struct {
	logger   *slog.Logger
	plan     plan.Plan
	file     *os.File
	path     string
	writeErr error
}

// New creates a reporter for a run over root. The log file is created
// immediately (overwriting any previous run's log) so even an interrupted
// run leaves its prefix behind. A log-create failure is remembered, warned
// about, and otherwise ignored.
func New(root, logFileName, runID string, dryRun bool, logger *slog.Logger) *Reporter {
	r := &Reporter{
		logger: logging.NewComponentLogger(logger, "report"),
		path:   filepath.Join(root, logFileName),
	}

	file, err := os.Create(r.path)
	if err != nil {
		r.writeErr = fmt.Errorf("create run log: %w", err)
		r.logger.Warn("run log unavailable, continuing without it", logging.Error(err))
		return r
	}
	r.file = file

	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	r.writeLine("sampleprep run %s", runID)
	r.writeLine("mode: %s", mode)
	r.writeLine("root: %s", root)
	r.writeLine("started: %s", time.Now().UTC().Format(time.RFC3339))
	r.writeLine("")
	return r
}

// Record appends rec to the plan, prints it, and flushes it to the log.
func (r *Reporter) Record(rec plan.Record) {
	r.plan.Append(rec)

	switch rec.Kind {
	case plan.KindError:
		r.logger.Error(rec.Line())
	case plan.KindSkip:
		r.logger.Debug(rec.Line())
	default:
		r.logger.Info(rec.Line())
	}

	r.writeLine("%s", rec.Line())
}

// Plan returns the accumulated run plan.
func (r *Reporter) Plan() *plan.Plan {
	return &r.plan
}

// Path returns the run log location.
func (r *Reporter) Path() string {
	return r.path
}

// Close writes the summary footer and closes the log. It returns the first
// log-write error encountered during the run, if any; callers report it but
// never treat it as fatal.
func (r *Reporter) Close() error {
	summary := r.plan.Summarize()
	r.writeLine("")
	r.writeLine("summary: %d directories renamed, %d files renamed, %d converted, %d skipped, %d errors",
		summary.RenamedDirs, summary.RenamedFiles, summary.Converted, summary.Skipped, summary.Errors)

	if r.file != nil {
		if err := r.file.Close(); err != nil && r.writeErr == nil {
			r.writeErr = fmt.Errorf("close run log: %w", err)
		}
		r.file = nil
	}
	return r.writeErr
}

func (r *Reporter) writeLine(format string, args ...any) {
	if r.file == nil {
		return
	}
	if _, err := fmt.Fprintf(r.file, format+"\n", args...); err != nil {
		if r.writeErr == nil {
			r.writeErr = fmt.Errorf("write run log: %w", err)
			r.logger.Warn("run log write failed, continuing", logging.Error(err))
		}
	}
}
