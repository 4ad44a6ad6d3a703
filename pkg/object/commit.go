package object

import (
	"fmt"
	"strings"
)

// Commit is a typed view over a KVLM payload: a tree snapshot, parent
// commits, authorship, an optional signature, and a message. The
// underlying KVLM is kept so re-serialization is byte-exact.
type Commit struct {
	kvlm *KVLM
}

// SignatureKey is the commit header carrying a detached signature over
// the unsigned commit serialization. The value is multi-line, stored via
// KVLM continuation lines.
const SignatureKey = "sshsig"

// NewCommit assembles a commit. Parents may be empty (root commit) or
// carry several hashes (merge commit, order preserved).
func NewCommit(tree Hash, parents []Hash, author, committer string, message []byte) *Commit {
	k := &KVLM{}
	k.Add("tree", []byte(tree))
	for _, p := range parents {
		k.Add("parent", []byte(p))
	}
	k.Add("author", []byte(author))
	k.Add("committer", []byte(committer))
	k.Add(MessageKey, message)
	return &Commit{kvlm: k}
}

// UnmarshalCommit parses a commit payload and validates its required
// headers.
func UnmarshalCommit(data []byte) (*Commit, error) {
	k := ParseKVLM(data)
	if k.First("tree") == nil {
		return nil, formatErrorf("commit missing tree header")
	}
	return &Commit{kvlm: k}, nil
}

// Serialize returns the canonical commit payload.
func (c *Commit) Serialize() []byte {
	return c.kvlm.Serialize()
}

// Tree returns the hash of the commit's root tree.
func (c *Commit) Tree() Hash {
	return Hash(c.kvlm.First("tree"))
}

// Parents returns the parent hashes in recorded order.
func (c *Commit) Parents() []Hash {
	vs := c.kvlm.Get("parent")
	out := make([]Hash, 0, len(vs))
	for _, v := range vs {
		out = append(out, Hash(v))
	}
	return out
}

// Author returns the author line ("Name <email> unixtime +hhmm").
func (c *Commit) Author() string {
	return string(c.kvlm.First("author"))
}

// Committer returns the committer line.
func (c *Commit) Committer() string {
	return string(c.kvlm.First("committer"))
}

// Message returns the commit message verbatim.
func (c *Commit) Message() []byte {
	return c.kvlm.Message()
}

// Summary returns the first line of the message.
func (c *Commit) Summary() string {
	msg := strings.TrimRight(string(c.Message()), "\n")
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}

// Signature returns the signature header value, or "" for unsigned
// commits.
func (c *Commit) Signature() string {
	return string(c.kvlm.First(SignatureKey))
}

// SetSignature records a signature header. Must be set before the first
// serialization that is stored.
func (c *Commit) SetSignature(sig string) {
	c.kvlm.Set(SignatureKey, []byte(strings.TrimRight(sig, "\n")))
}

// SigningPayload returns the serialization a signature covers: the
// commit without its signature header.
func (c *Commit) SigningPayload() []byte {
	k := &KVLM{}
	for _, p := range c.kvlm.pairs {
		if p.key == SignatureKey {
			continue
		}
		for _, v := range p.values {
			k.Add(p.key, v)
		}
	}
	return k.Serialize()
}

// ShortAuthor returns the author identity without the trailing
// timestamp fields, for display.
func (c *Commit) ShortAuthor() string {
	author := c.Author()
	if i := strings.LastIndexByte(author, '>'); i >= 0 {
		return author[:i+1]
	}
	return author
}

func (c *Commit) String() string {
	return fmt.Sprintf("commit(tree=%s parents=%d)", c.Tree(), len(c.Parents()))
}
