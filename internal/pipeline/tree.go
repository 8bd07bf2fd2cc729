package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// dirEntry is one directory below the root, recorded before any renames.
type dirEntry struct {
	path  string
	depth int
}

// tree is a snapshot of the root taken before phase 1, plus the projection
// of every rename applied since. Directory entries and child-name sets are
// keyed by their original (pre-rename) paths, which never change, while
// Resolve maps an original path to where that entry lives now (live mode)
// or would live (dry-run).
type tree struct {
	root     string
	dirs     []dirEntry
	files    []string
	children map[string]map[string]struct{}
	renames  []renameMapping
}

type renameMapping struct {
	oldPrefix string
	newPrefix string
}

// collectTree walks root once and snapshots every directory and regular
// file. Directories come back deepest first; files in lexicographic order.
// File names listed in exclude (the run log, the lock file) are invisible
// to the pipeline.
func collectTree(root string, exclude map[string]struct{}) (*tree, error) {
	t := &tree{
		root:     root,
		children: make(map[string]map[string]struct{}),
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		name := entry.Name()
		if !entry.IsDir() {
			if _, skip := exclude[name]; skip {
				return nil
			}
		}

		t.addChild(filepath.Dir(path), name)

		if entry.IsDir() {
			depth := len(strings.Split(path, string(filepath.Separator)))
			t.dirs = append(t.dirs, dirEntry{path: path, depth: depth})
			return nil
		}
		if entry.Type().IsRegular() {
			t.files = append(t.files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", root, err)
	}

	// Deepest first so children are renamed before their parents; ties
	// break lexicographically for reproducible plans.
	sort.Slice(t.dirs, func(i, j int) bool {
		if t.dirs[i].depth != t.dirs[j].depth {
			return t.dirs[i].depth > t.dirs[j].depth
		}
		return t.dirs[i].path < t.dirs[j].path
	})
	sort.Strings(t.files)
	return t, nil
}

// Resolve maps an original path through every rename applied so far.
func (t *tree) resolve(path string) string {
	for _, m := range t.renames {
		if path == m.oldPrefix {
			path = m.newPrefix
			continue
		}
		if strings.HasPrefix(path, m.oldPrefix+string(filepath.Separator)) {
			path = m.newPrefix + path[len(m.oldPrefix):]
		}
	}
	return path
}

// applyRename records a directory rename so later lookups project through
// it. Mappings are replayed in application order, which keeps nested
// renames composable.
func (t *tree) applyRename(oldPath, newPath string) {
	t.renames = append(t.renames, renameMapping{oldPrefix: oldPath, newPrefix: newPath})
}

// hasChild reports whether the directory (identified by its original path)
// currently contains an entry with the given name.
func (t *tree) hasChild(parent, name string) bool {
	set, ok := t.children[parent]
	if !ok {
		return false
	}
	_, found := set[name]
	return found
}

func (t *tree) addChild(parent, name string) {
	set, ok := t.children[parent]
	if !ok {
		set = make(map[string]struct{})
		t.children[parent] = set
	}
	set[name] = struct{}{}
}

func (t *tree) renameChild(parent, oldName, newName string) {
	if set, ok := t.children[parent]; ok {
		delete(set, oldName)
		set[newName] = struct{}{}
	}
}

// rel renders a path relative to the root for plan records and logs.
func (t *tree) rel(path string) string {
	rel, err := filepath.Rel(t.root, path)
	if err != nil {
		return path
	}
	return rel
}
