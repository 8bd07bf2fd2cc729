// Package pipeline implements the two-phase processing run over a sample
// library root.
//
// Phase 1 renames directories to canonical form, deepest first, so a parent
// rename never invalidates a pending child path. Phase 2 walks the renamed
// tree in deterministic order and, per file, probes the audio format,
// canonicalizes the name, and converts when the format misses the target.
// A source file is deleted only after its converted replacement has been
// verified.
//
// Dry-run and live mode share one code path: the Mutator either executes
// filesystem calls or swallows them, and an in-memory projection of pending
// renames keeps planned paths identical across both modes. Per-entry
// failures become plan records and never abort the run.
package pipeline
