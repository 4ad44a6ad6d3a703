package repo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gritvcs/grit/pkg/object"
)

// CommitSigner signs the unsigned commit serialization and returns the
// signature text stored in the commit's signature header.
type CommitSigner func(payload []byte) (string, error)

// CommitOptions carries the optional pieces of a commit.
type CommitOptions struct {
	Author string // "Name <email>"; resolved from config when empty
	When   time.Time
	Signer CommitSigner
}

// Commit creates a commit from the staging index and advances the
// current branch (or a detached HEAD) to it.
func (r *Repo) Commit(message string, opts CommitOptions) (object.Hash, error) {
	x, err := r.ReadIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(x.Entries) == 0 {
		return "", fmt.Errorf("commit: nothing staged")
	}

	treeHash, err := r.WriteTreeFromIndex(x)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	// First commit on a branch has no parent; that is not an error.
	var parents []object.Hash
	parentHash, err := r.ResolveRef("HEAD")
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if parentHash != "" {
		parents = append(parents, parentHash)
	}

	author := opts.Author
	if author == "" {
		author, err = r.AuthorIdent(nil)
		if err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
	}
	when := opts.When
	if when.IsZero() {
		when = time.Now()
	}
	ident := fmt.Sprintf("%s %d %s", author, when.Unix(), formatTimezoneOffset(when))

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	commit := object.NewCommit(treeHash, parents, ident, ident, []byte(message))
	if opts.Signer != nil {
		sig, err := opts.Signer(commit.SigningPayload())
		if err != nil {
			return "", fmt.Errorf("commit: sign: %w", err)
		}
		commit.SetSignature(sig)
	}

	commitHash, err := r.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: read HEAD: %w", err)
	}
	if strings.HasPrefix(head, "refs/") {
		if err := r.UpdateRef(head, commitHash); err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
	} else {
		// Detached HEAD moves directly.
		if err := r.UpdateRef("HEAD", commitHash); err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
	}

	return commitHash, nil
}

func formatTimezoneOffset(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d%02d", sign, hours, minutes)
}
