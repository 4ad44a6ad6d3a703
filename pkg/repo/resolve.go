package repo

import (
	"errors"
	"fmt"

	"github.com/gritvcs/grit/pkg/object"
)

// ErrAmbiguousName reports a name that resolves to more than one object.
var ErrAmbiguousName = errors.New("ambiguous object name")

// ResolveObject resolves a user-supplied name to an object hash.
//
// Candidates are gathered from, in order: HEAD (when the name is
// exactly "HEAD"), the object store when the name looks like a 4-40
// character hex prefix, refs/tags/<name>, and refs/heads/<name>. More
// than one distinct candidate is an error; none resolves to the empty
// hash.
func (r *Repo) ResolveObject(name string) (object.Hash, error) {
	var candidates []object.Hash
	add := func(h object.Hash) {
		if h == "" {
			return
		}
		for _, c := range candidates {
			if c == h {
				return
			}
		}
		candidates = append(candidates, h)
	}

	if name == "HEAD" {
		h, err := r.ResolveRef("HEAD")
		if err != nil {
			return "", err
		}
		add(h)
	}

	if object.IsHashPrefix(name) {
		matches, err := r.Store.ScanPrefix(name)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	for _, refPath := range []string{"refs/tags/" + name, "refs/heads/" + name} {
		h, err := r.ResolveRef(refPath)
		if err != nil {
			return "", err
		}
		add(h)
	}

	if len(candidates) > 1 {
		return "", fmt.Errorf("resolve %q: %w: %v", name, ErrAmbiguousName, candidates)
	}
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

// FindObject resolves a name and, when follow is set, dereferences
// annotated tag objects until a non-tag object is reached. The chain is
// bounded; exceeding the bound means a malformed or cyclic tag chain.
func (r *Repo) FindObject(name string, follow bool) (object.Hash, error) {
	h, err := r.ResolveObject(name)
	if err != nil || h == "" || !follow {
		return h, err
	}

	for hops := 0; ; hops++ {
		if hops > maxIndirection {
			return "", fmt.Errorf("find %q: %w", name, ErrTooManyIndirections)
		}

		objType, data, err := r.Store.Read(h)
		if err != nil {
			return "", fmt.Errorf("find %q: %w", name, err)
		}
		if objType != object.TypeTag {
			return h, nil
		}

		tag, err := object.UnmarshalTag(data)
		if err != nil {
			return "", fmt.Errorf("find %q: %w", name, err)
		}
		h = tag.Target()
	}
}

// FindObjectOfType resolves a name, following tags, and verifies the
// result has the wanted type. As a convenience a commit resolves to its
// tree when a tree is wanted.
func (r *Repo) FindObjectOfType(name string, want object.ObjectType) (object.Hash, error) {
	h, err := r.FindObject(name, true)
	if err != nil {
		return "", err
	}
	if h == "" {
		return "", fmt.Errorf("find %q: %w", name, object.ErrNotFound)
	}

	objType, data, err := r.Store.Read(h)
	if err != nil {
		return "", err
	}
	if objType == want {
		return h, nil
	}
	if want == object.TypeTree && objType == object.TypeCommit {
		commit, err := object.UnmarshalCommit(data)
		if err != nil {
			return "", err
		}
		return commit.Tree(), nil
	}
	return "", fmt.Errorf("find %q: object %s is a %s, not a %s", name, h, objType, want)
}
