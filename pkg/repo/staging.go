package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gritvcs/grit/pkg/index"
	"github.com/gritvcs/grit/pkg/object"
)

func (r *Repo) indexPath() string {
	return filepath.Join(r.GritDir, "index")
}

// ReadIndex loads the staging index. A missing index file is an empty
// index, not an error.
func (r *Repo) ReadIndex() (*index.Index, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return index.New(), nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	x, err := index.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return x, nil
}

// WriteIndex atomically persists the staging index via temp file +
// rename.
func (r *Repo) WriteIndex(x *index.Index) error {
	data, err := x.Serialize()
	if err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	tmp, err := os.CreateTemp(r.GritDir, ".index-tmp-*")
	if err != nil {
		return fmt.Errorf("write index: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write index: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: close: %w", err)
	}

	if err := os.Rename(tmpName, r.indexPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write index: rename: %w", err)
	}
	return nil
}

// Add stages the given paths: each file's content is written to the
// store as a blob and an index entry with the file's full stat metadata
// replaces any previous entry for that path.
func (r *Repo) Add(paths []string) error {
	x, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("add: resolve path %q: %w", p, err)
		}

		absPath := filepath.Join(r.RootDir, filepath.FromSlash(relPath))
		content, err := os.ReadFile(absPath)
		if err != nil {
			return fmt.Errorf("add: read %q: %w", relPath, err)
		}

		blobHash, err := r.Store.WriteBlob(&object.Blob{Data: content})
		if err != nil {
			return fmt.Errorf("add: write blob %q: %w", relPath, err)
		}

		entry, err := statIndexEntry(absPath)
		if err != nil {
			return fmt.Errorf("add: stat %q: %w", relPath, err)
		}
		entry.Hash = blobHash
		entry.Name = relPath

		x.Upsert(entry)
	}

	if err := r.WriteIndex(x); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// Remove unstages the given paths and, when deleteWorktree is set, also
// deletes the working-tree files.
func (r *Repo) Remove(paths []string, deleteWorktree bool) error {
	x, err := r.ReadIndex()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	for _, p := range paths {
		relPath, err := r.repoRelPath(p)
		if err != nil {
			return fmt.Errorf("rm: resolve path %q: %w", p, err)
		}
		if !x.Remove(relPath) {
			return fmt.Errorf("rm: %q is not staged", relPath)
		}
		if deleteWorktree {
			if err := os.Remove(filepath.Join(r.RootDir, filepath.FromSlash(relPath))); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("rm: %q: %w", relPath, err)
			}
		}
	}

	if err := r.WriteIndex(x); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	return nil
}

// repoRelPath converts a path (absolute, or relative to CWD) into a
// slash-separated path relative to the repository root.
func (r *Repo) repoRelPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		cwd, err := os.Getwd()
		if err != nil {
			return filepath.ToSlash(filepath.Clean(p)), nil
		}
		abs = filepath.Join(cwd, p)
	}

	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		// Outside the root: treat the original path as repo-relative.
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return filepath.ToSlash(rel), nil
}
