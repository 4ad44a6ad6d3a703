// Package repo implements repository operations over the object store:
// init/open, configuration, refs and name resolution, the staging index,
// ignore rules, tree building, status, commits, branches, tags, checkout,
// and history traversal.
package repo

import (
	"github.com/gritvcs/grit/pkg/object"
)

// MetaDirName is the hidden metadata directory inside the working tree.
const MetaDirName = ".grit"

// Repo represents an opened Grit repository.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	Store   *object.Store // content-addressed object store
}
