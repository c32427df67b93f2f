package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	require.True(t, strings.HasPrefix(a, "id-"))
	require.NotEqual(t, a, b, "identifiers must be unique")
}

func TestAddElement_AssignsIDAndLayer(t *testing.T) {
	m := New("test")
	e := m.AddElement(&Element{Type: "business-actor", Name: "Customer"})

	require.NotEmpty(t, e.ID)
	assert.Equal(t, LayerOther, e.Layer)
	assert.Same(t, e, m.Element(e.ID))
}

func TestLookups_Missing(t *testing.T) {
	m := New("test")

	assert.Nil(t, m.Element("id-nope"))
	assert.Nil(t, m.Relationship("id-nope"))
	assert.Nil(t, m.Diagram("id-nope"))
}

func TestLayerValid(t *testing.T) {
	for _, l := range Layers() {
		assert.True(t, l.Valid(), "layer %s", l)
	}
	assert.False(t, Layer("kitchen").Valid())
}

func TestNormalize_SortsByID(t *testing.T) {
	m := New("test")
	m.AddElement(&Element{ID: "id-b", Layer: LayerBusiness})
	m.AddElement(&Element{ID: "id-a", Layer: LayerBusiness})
	m.AddRelationship(&Relationship{ID: "id-2"})
	m.AddRelationship(&Relationship{ID: "id-1"})
	m.AddDiagram(&Diagram{ID: "id-z"})
	m.AddDiagram(&Diagram{ID: "id-y"})

	m.Normalize()

	require.Equal(t, "id-a", m.Elements[0].ID)
	require.Equal(t, "id-b", m.Elements[1].ID)
	require.Equal(t, "id-1", m.Relationships[0].ID)
	require.Equal(t, "id-y", m.Diagrams[0].ID)
}
