package grafico

import (
	"fmt"
	"strings"
)

// ProblemKind classifies import diagnostics.
type ProblemKind string

const (
	// ProblemUnresolvedElement means a relationship references an element
	// ID that no file in the tree defines.
	ProblemUnresolvedElement ProblemKind = "unresolved-element"

	// ProblemUnresolvedRelationship means a diagram connection references
	// a relationship ID that no file in the tree defines.
	ProblemUnresolvedRelationship ProblemKind = "unresolved-relationship"

	// ProblemUnresolvedNode means a diagram connection references a node
	// ID that does not occur on its diagram.
	ProblemUnresolvedNode ProblemKind = "unresolved-node"

	// ProblemConflictMarker means a file still carries merge conflict
	// markers and was skipped rather than parsed.
	ProblemConflictMarker ProblemKind = "conflict-marker"
)

// Problem is a single import diagnostic.
type Problem struct {
	Kind ProblemKind
	// File is the tree-relative path of the file the problem was found in.
	File string
	// Ref is the identifier that could not be resolved, if any.
	Ref string
	// Detail is a human-readable summary.
	Detail string
}

func (p Problem) String() string {
	if p.Ref != "" {
		return fmt.Sprintf("%s: %s (%s in %s)", p.Kind, p.Detail, p.Ref, p.File)
	}
	return fmt.Sprintf("%s: %s (%s)", p.Kind, p.Detail, p.File)
}

// ResolutionReport collects the diagnostics produced by an import.
// An empty report means the import was clean.
type ResolutionReport struct {
	Problems []Problem
}

// Empty reports whether the import produced no diagnostics.
func (r *ResolutionReport) Empty() bool {
	return r == nil || len(r.Problems) == 0
}

// HasConflicts reports whether any diagnostic is a merge-conflict residue.
func (r *ResolutionReport) HasConflicts() bool {
	if r == nil {
		return false
	}
	for _, p := range r.Problems {
		if p.Kind == ProblemConflictMarker {
			return true
		}
	}
	return false
}

func (r *ResolutionReport) add(kind ProblemKind, file, ref, detail string) {
	r.Problems = append(r.Problems, Problem{Kind: kind, File: file, Ref: ref, Detail: detail})
}

func (r *ResolutionReport) String() string {
	if r.Empty() {
		return "resolution report: clean"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "resolution report: %d problem(s)\n", len(r.Problems))
	for _, p := range r.Problems {
		b.WriteString("  ")
		b.WriteString(p.String())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
