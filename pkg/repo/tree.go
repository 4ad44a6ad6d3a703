package repo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gritvcs/grit/pkg/index"
	"github.com/gritvcs/grit/pkg/object"
)

// maxTreeDepth bounds recursive tree walks. A well-formed repository is
// acyclic, but a corrupted one must not recurse forever.
const maxTreeDepth = 256

// WriteTreeFromIndex converts the flat staging index into a hierarchy of
// tree objects, writing each through the store, and returns the root
// tree hash.
//
// Entries are bucketed under their immediate parent directory, with
// every ancestor directory seeded so empty intermediates still produce a
// tree. Buckets are processed deepest path first, so all of a
// directory's children are hashed before the directory itself; each
// finished subtree is recorded into its parent bucket as a mode-40000
// entry. Together with the codec's canonical entry ordering this makes
// the root hash a pure function of the index contents.
func (r *Repo) WriteTreeFromIndex(x *index.Index) (object.Hash, error) {
	buckets := make(map[string][]object.TreeEntry)
	buckets[""] = nil

	for _, e := range x.Entries {
		dir := parentDir(e.Name)
		for d := dir; d != ""; d = parentDir(d) {
			if _, ok := buckets[d]; !ok {
				buckets[d] = nil
			}
		}

		entry, err := object.NewTreeEntry(e.TreeMode(), baseName(e.Name), e.Hash)
		if err != nil {
			return "", fmt.Errorf("write tree: entry %q: %w", e.Name, err)
		}
		buckets[dir] = append(buckets[dir], entry)
	}

	dirs := make([]string, 0, len(buckets))
	for d := range buckets {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		if len(dirs[i]) != len(dirs[j]) {
			return len(dirs[i]) > len(dirs[j])
		}
		return dirs[i] < dirs[j]
	})

	var rootHash object.Hash
	for _, dir := range dirs {
		tree := &object.Tree{Entries: buckets[dir]}
		h, err := r.Store.WriteTree(tree)
		if err != nil {
			return "", fmt.Errorf("write tree %q: %w", dir, err)
		}

		if dir == "" {
			rootHash = h
			break
		}

		parent := parentDir(dir)
		subEntry, err := object.NewTreeEntry(object.TreeModeDir, baseName(dir), h)
		if err != nil {
			return "", fmt.Errorf("write tree %q: %w", dir, err)
		}
		buckets[parent] = append(buckets[parent], subEntry)
	}

	return rootHash, nil
}

// TreeFileEntry is a single file in a flattened tree.
type TreeFileEntry struct {
	Path string
	Mode string
	Hash object.Hash
}

// FlattenTree walks a tree recursively, returning every non-directory
// entry with its full slash path.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	var out []TreeFileEntry
	if err := r.flattenTreeRec(h, "", 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string, depth int, out *[]TreeFileEntry) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("flatten tree: %w", ErrTooManyIndirections)
	}

	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return fmt.Errorf("flatten tree %s: %w", h, err)
	}

	for _, e := range tree.Entries {
		full := e.Path
		if prefix != "" {
			full = prefix + "/" + e.Path
		}

		ft, err := e.FileType()
		if err != nil {
			return fmt.Errorf("flatten tree %s: %w", h, err)
		}
		if ft == object.FileTypeTree {
			if err := r.flattenTreeRec(e.Hash, full, depth+1, out); err != nil {
				return err
			}
		} else {
			*out = append(*out, TreeFileEntry{Path: full, Mode: e.Mode, Hash: e.Hash})
		}
	}
	return nil
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
