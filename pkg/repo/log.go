package repo

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/object"
)

// LogEntry pairs a commit with its hash.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks the history from start, breadth-first over all parents,
// returning up to limit commits (limit <= 0 means no limit). The walk
// carries an explicit visited set so merge ancestry and malformed
// cycles both terminate.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var out []LogEntry
	visited := make(map[object.Hash]bool)
	queue := []object.Hash{start}

	for len(queue) > 0 {
		if limit > 0 && len(out) >= limit {
			break
		}

		h := queue[0]
		queue = queue[1:]
		if h == "" || visited[h] {
			continue
		}
		visited[h] = true

		commit, err := r.Store.ReadCommit(h)
		if err != nil {
			return nil, fmt.Errorf("log: read commit %s: %w", h, err)
		}
		out = append(out, LogEntry{Hash: h, Commit: commit})
		queue = append(queue, commit.Parents()...)
	}

	return out, nil
}
