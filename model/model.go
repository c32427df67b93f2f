// Package model defines the in-memory representation of an architecture
// model: elements grouped by layer, relationships between them, and the
// diagrams that visualize them. The model is the unit that gets projected
// onto a working tree by the grafico package and round-tripped back.
package model

import (
	"sort"

	"github.com/google/uuid"
)

// Layer identifies the architectural layer an element belongs to.
// Layers map one-to-one onto directories in the exploded representation.
type Layer string

const (
	LayerBusiness       Layer = "business"
	LayerApplication    Layer = "application"
	LayerTechnology     Layer = "technology"
	LayerMotivation     Layer = "motivation"
	LayerImplementation Layer = "implementation"
	LayerOther          Layer = "other"
)

// Layers lists all known layers in their canonical order.
func Layers() []Layer {
	return []Layer{
		LayerBusiness,
		LayerApplication,
		LayerTechnology,
		LayerMotivation,
		LayerImplementation,
		LayerOther,
	}
}

// Valid reports whether l is one of the known layers.
func (l Layer) Valid() bool {
	switch l {
	case LayerBusiness, LayerApplication, LayerTechnology,
		LayerMotivation, LayerImplementation, LayerOther:
		return true
	}
	return false
}

// Property is a free-form key/value annotation carried by the model and
// its elements. Order is preserved through export and import.
type Property struct {
	Key   string
	Value string
}

// Element is a single model concept (actor, service, node, ...).
type Element struct {
	ID            string
	Type          string
	Name          string
	Layer         Layer
	Documentation string
	Properties    []Property
}

// Relationship connects two elements by their stable identifiers.
// Source and target are references, not ownership; they may be left
// dangling by a partial import, in which case the importer reports them.
type Relationship struct {
	ID            string
	Type          string
	Name          string
	SourceID      string
	TargetID      string
	Documentation string
}

// DiagramNode is a positioned occurrence of an element on a diagram.
// Nodes may nest to represent visual containment.
type DiagramNode struct {
	ID        string
	ElementID string
	X, Y      int
	Width     int
	Height    int
	Children  []*DiagramNode
}

// DiagramConnection is a rendered relationship between two diagram nodes.
type DiagramConnection struct {
	ID             string
	RelationshipID string
	SourceNodeID   string
	TargetNodeID   string
}

// Diagram is a view onto the model.
type Diagram struct {
	ID            string
	Name          string
	Documentation string
	Nodes         []*DiagramNode
	Connections   []*DiagramConnection
}

// Model is the root of the object graph.
//
// SourcePath is runtime-only state recording which working tree the model
// was loaded from; it is not part of the persisted projection.
type Model struct {
	ID            string
	Name          string
	Version       string
	Purpose       string
	Properties    []Property
	Elements      []*Element
	Relationships []*Relationship
	Diagrams      []*Diagram

	SourcePath string
}

// New returns an empty model with a fresh identifier.
func New(name string) *Model {
	return &Model{
		ID:   NewID(),
		Name: name,
	}
}

// NewID generates a stable unique identifier for model objects.
func NewID() string {
	return "id-" + uuid.NewString()
}

// Element returns the element with the given ID, or nil.
func (m *Model) Element(id string) *Element {
	for _, e := range m.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Relationship returns the relationship with the given ID, or nil.
func (m *Model) Relationship(id string) *Relationship {
	for _, r := range m.Relationships {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Diagram returns the diagram with the given ID, or nil.
func (m *Model) Diagram(id string) *Diagram {
	for _, d := range m.Diagrams {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// AddElement appends an element, assigning an ID if it has none.
func (m *Model) AddElement(e *Element) *Element {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Layer == "" {
		e.Layer = LayerOther
	}
	m.Elements = append(m.Elements, e)
	return e
}

// AddRelationship appends a relationship, assigning an ID if it has none.
func (m *Model) AddRelationship(r *Relationship) *Relationship {
	if r.ID == "" {
		r.ID = NewID()
	}
	m.Relationships = append(m.Relationships, r)
	return r
}

// AddDiagram appends a diagram, assigning an ID if it has none.
func (m *Model) AddDiagram(d *Diagram) *Diagram {
	if d.ID == "" {
		d.ID = NewID()
	}
	m.Diagrams = append(m.Diagrams, d)
	return d
}

// Normalize sorts elements, relationships, and diagrams by ID so that two
// equivalent models compare equal regardless of insertion order. The
// exploded-file projection is defined over the normalized form.
func (m *Model) Normalize() {
	sort.Slice(m.Elements, func(i, j int) bool { return m.Elements[i].ID < m.Elements[j].ID })
	sort.Slice(m.Relationships, func(i, j int) bool { return m.Relationships[i].ID < m.Relationships[j].ID })
	sort.Slice(m.Diagrams, func(i, j int) bool { return m.Diagrams[i].ID < m.Diagrams[j].ID })
}
