package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gritvcs/grit/pkg/object"
)

// Checkout materializes a commit-ish's tree into dest, which must be an
// empty directory (or not exist yet). Blobs become files, symlink
// entries become symlinks, and gitlink entries only create the
// directory.
func (r *Repo) Checkout(name, dest string) error {
	treeHash, err := r.FindObjectOfType(name, object.TypeTree)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if info, err := os.Stat(dest); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("checkout: %s is not a directory", dest)
		}
		entries, err := os.ReadDir(dest)
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("checkout: %s is not empty", dest)
		}
	} else if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	return r.checkoutTree(treeHash, dest, 0)
}

func (r *Repo) checkoutTree(treeHash object.Hash, dest string, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("checkout: %w", ErrTooManyIndirections)
	}

	tree, err := r.Store.ReadTree(treeHash)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	for _, e := range tree.Entries {
		target := filepath.Join(dest, e.Path)
		ft, err := e.FileType()
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}

		switch ft {
		case object.FileTypeTree:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("checkout: mkdir %q: %w", target, err)
			}
			if err := r.checkoutTree(e.Hash, target, depth+1); err != nil {
				return err
			}
		case object.FileTypeBlob:
			blob, err := r.Store.ReadBlob(e.Hash)
			if err != nil {
				return fmt.Errorf("checkout: %w", err)
			}
			perm := os.FileMode(0o644)
			if e.Mode == object.TreeModeExecutable {
				perm = 0o755
			}
			if err := os.WriteFile(target, blob.Data, perm); err != nil {
				return fmt.Errorf("checkout: write %q: %w", target, err)
			}
		case object.FileTypeSymlink:
			blob, err := r.Store.ReadBlob(e.Hash)
			if err != nil {
				return fmt.Errorf("checkout: %w", err)
			}
			if err := os.Symlink(string(blob.Data), target); err != nil {
				return fmt.Errorf("checkout: symlink %q: %w", target, err)
			}
		case object.FileTypeGitlink:
			// Nested repository: create the mount point only.
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("checkout: mkdir %q: %w", target, err)
			}
		}
	}
	return nil
}
