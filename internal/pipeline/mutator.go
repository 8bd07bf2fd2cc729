package pipeline

import "os"

// Mutator performs the filesystem mutations of a run. Dry-run swaps in the
// no-op implementation so both modes walk the exact same code path.
type Mutator interface {
	Rename(oldPath, newPath string) error
	Remove(path string) error
}

type liveMutator struct{}

func (liveMutator) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (liveMutator) Remove(path string) error {
	return os.Remove(path)
}

type dryMutator struct{}

func (dryMutator) Rename(string, string) error { return nil }

func (dryMutator) Remove(string) error { return nil }
