// Package naming converts directory and file names to the canonical form
// used across a sample library: lowercase with whitespace collapsed to
// underscores.
//
// Normalize is a pure string transform with no filesystem knowledge. It is
// idempotent, so rerunning the tool over an already-canonical tree plans no
// work. Callers are responsible for rejecting names that normalize to the
// empty string.
package naming
