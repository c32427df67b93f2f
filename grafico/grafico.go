// Package grafico implements the exploded-file projection of a model: one
// XML file per element, relationship, and diagram, laid out so that
// version-control diffs track semantic edits. Export is deterministic
// (same model, same bytes) and import is its inverse, collecting
// unresolved cross-file references into a ResolutionReport instead of
// failing outright.
//
// All operations run against a billy.Filesystem rooted at the working
// tree, so the projection works identically on disk and in memory.
package grafico

import (
	"errors"
	"fmt"
)

// ModelDir is the directory under the working tree root that holds the
// exploded representation.
const ModelDir = "model"

// modelFile is the root descriptor file inside ModelDir.
const modelFile = "model.xml"

// relationsDir and diagramsDir hold the non-layer object files.
const (
	relationsDir = "relations"
	diagramsDir  = "diagrams"
)

// ErrNoModel is returned by Import when the working tree contains no
// exploded model at all. It is a normal state (a freshly cloned or empty
// repository), distinct from a corrupt or unreadable one.
var ErrNoModel = errors.New("no grafico model in working tree")

// ErrConflicted is returned by Import when the root descriptor still
// carries merge conflict markers. The tree holds a model, but it cannot
// be parsed until the merge is resolved; this is not the same state as
// ErrNoModel.
var ErrConflicted = errors.New("model descriptor has unresolved merge conflicts")

// ErrInvalidModel is returned by Export when the model cannot be
// projected (missing identifier, unknown layer).
var ErrInvalidModel = errors.New("invalid model")

// wrapf adds context while keeping sentinel errors matchable.
func wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
