// Wire format for the exploded representation. One struct per file kind;
// attribute and element order is fixed by the struct layout so that
// marshaling is byte-deterministic.
package grafico

import (
	"encoding/xml"

	"github.com/archicontribs/modelrepo/model"
)

type xmlProperty struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type xmlModel struct {
	XMLName    xml.Name      `xml:"model"`
	ID         string        `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	Version    string        `xml:"version,attr,omitempty"`
	Purpose    string        `xml:"purpose,omitempty"`
	Properties []xmlProperty `xml:"property"`
}

type xmlElement struct {
	XMLName       xml.Name      `xml:"element"`
	ID            string        `xml:"id,attr"`
	Type          string        `xml:"type,attr"`
	Name          string        `xml:"name,attr"`
	Documentation string        `xml:"documentation,omitempty"`
	Properties    []xmlProperty `xml:"property"`
}

type xmlRelationship struct {
	XMLName       xml.Name `xml:"relationship"`
	ID            string   `xml:"id,attr"`
	Type          string   `xml:"type,attr"`
	Name          string   `xml:"name,attr,omitempty"`
	Source        string   `xml:"source,attr"`
	Target        string   `xml:"target,attr"`
	Documentation string   `xml:"documentation,omitempty"`
}

type xmlNode struct {
	ID         string    `xml:"id,attr"`
	ElementRef string    `xml:"elementRef,attr,omitempty"`
	X          int       `xml:"x,attr"`
	Y          int       `xml:"y,attr"`
	Width      int       `xml:"w,attr"`
	Height     int       `xml:"h,attr"`
	Children   []xmlNode `xml:"node"`
}

type xmlConnection struct {
	ID              string `xml:"id,attr"`
	RelationshipRef string `xml:"relationshipRef,attr,omitempty"`
	Source          string `xml:"source,attr"`
	Target          string `xml:"target,attr"`
}

type xmlDiagram struct {
	XMLName       xml.Name        `xml:"diagram"`
	ID            string          `xml:"id,attr"`
	Name          string          `xml:"name,attr"`
	Documentation string          `xml:"documentation,omitempty"`
	Nodes         []xmlNode       `xml:"node"`
	Connections   []xmlConnection `xml:"connection"`
}

func toXMLProperties(props []model.Property) []xmlProperty {
	if len(props) == 0 {
		return nil
	}
	out := make([]xmlProperty, len(props))
	for i, p := range props {
		out[i] = xmlProperty{Key: p.Key, Value: p.Value}
	}
	return out
}

func fromXMLProperties(props []xmlProperty) []model.Property {
	if len(props) == 0 {
		return nil
	}
	out := make([]model.Property, len(props))
	for i, p := range props {
		out[i] = model.Property{Key: p.Key, Value: p.Value}
	}
	return out
}

func toXMLNodes(nodes []*model.DiagramNode) []xmlNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]xmlNode, len(nodes))
	for i, n := range nodes {
		out[i] = xmlNode{
			ID:         n.ID,
			ElementRef: n.ElementID,
			X:          n.X,
			Y:          n.Y,
			Width:      n.Width,
			Height:     n.Height,
			Children:   toXMLNodes(n.Children),
		}
	}
	return out
}

func fromXMLNodes(nodes []xmlNode) []*model.DiagramNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*model.DiagramNode, len(nodes))
	for i, n := range nodes {
		out[i] = &model.DiagramNode{
			ID:        n.ID,
			ElementID: n.ElementRef,
			X:         n.X,
			Y:         n.Y,
			Width:     n.Width,
			Height:    n.Height,
			Children:  fromXMLNodes(n.Children),
		}
	}
	return out
}

// marshalFile renders a wire struct to canonical bytes: XML declaration,
// two-space indent, trailing newline.
func marshalFile(v interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
