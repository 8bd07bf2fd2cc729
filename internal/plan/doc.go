// Package plan holds the run plan data model: the ordered list of actions a
// processing run has taken or, in dry-run mode, would take.
//
// Records are append-only and never mutated after the fact, which is what
// makes the run log an exact prefix of the plan when a run is interrupted.
// Dry-run and live runs over identical trees produce identical plans apart
// from the DryRun flag on each record.
package plan
