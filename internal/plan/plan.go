package plan

import (
	"fmt"
	"strings"
)

// Kind classifies a single action in the run plan.
type Kind string

const (
	KindRenameDir  Kind = "rename_dir"
	KindRenameFile Kind = "rename_file"
	KindConvert    Kind = "convert"
	KindSkip       Kind = "skip"
	KindError      Kind = "error"
)

// Record describes one rename/convert/skip/error outcome for one path.
type Record struct {
	Kind   Kind
	Source string
	Dest   string
	Detail string
	DryRun bool
}

// Line renders a record as one human-readable log line.
func (r Record) Line() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("would ")
	}
	b.WriteString(string(r.Kind))
	b.WriteString("  ")
	b.WriteString(r.Source)
	if r.Dest != "" && r.Dest != r.Source {
		b.WriteString(" -> ")
		b.WriteString(r.Dest)
	}
	if r.Detail != "" {
		fmt.Fprintf(&b, " (%s)", r.Detail)
	}
	return b.String()
}

// Summary aggregates per-kind counts for end-of-run reporting.
type Summary struct {
	RenamedDirs  int
	RenamedFiles int
	Converted    int
	Skipped      int
	Errors       int
}

// Total returns the number of recorded actions.
func (s Summary) Total() int {
	return s.RenamedDirs + s.RenamedFiles + s.Converted + s.Skipped + s.Errors
}

// Plan is the ordered, append-only sequence of records for one run.
type Plan struct {
	records []Record
}

// Append adds a record to the plan.
func (p *Plan) Append(rec Record) {
	p.records = append(p.records, rec)
}

// Records returns the recorded actions in append order. The returned slice
// is a copy; the plan itself stays immutable from the outside.
func (p *Plan) Records() []Record {
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// Len returns the number of recorded actions.
func (p *Plan) Len() int {
	return len(p.records)
}

// Summarize tallies the plan by action kind.
func (p *Plan) Summarize() Summary {
	var s Summary
	for _, rec := range p.records {
		switch rec.Kind {
		case KindRenameDir:
			s.RenamedDirs++
		case KindRenameFile:
			s.RenamedFiles++
		case KindConvert:
			s.Converted++
		case KindSkip:
			s.Skipped++
		case KindError:
			s.Errors++
		}
	}
	return s
}
