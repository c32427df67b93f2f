// Export side of the projection: serialize a model into the exploded
// tree, replacing whatever was there before.
package grafico

import (
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/archicontribs/modelrepo/model"
)

const filePerm = 0o644

// Export writes the exploded representation of m into fsys under
// ModelDir, overwriting any previous projection. The output is
// byte-deterministic: exporting the same model twice yields identical
// trees, so version-control diffs reflect only semantic changes.
//
// Export does not mutate m; objects are written in normalized (ID) order
// regardless of their insertion order.
func Export(m *model.Model, fsys billy.Filesystem) error {
	if m == nil || m.ID == "" {
		return wrapf(ErrInvalidModel, "model has no identifier")
	}
	for _, e := range m.Elements {
		if !e.Layer.Valid() {
			return wrapf(ErrInvalidModel, "element %s has unknown layer %q", e.ID, e.Layer)
		}
	}

	// Replace the previous projection wholesale so deletions in the model
	// become deletions in the tree.
	if err := util.RemoveAll(fsys, ModelDir); err != nil {
		return wrapf(err, "failed to clear %s", ModelDir)
	}
	if err := fsys.MkdirAll(ModelDir, 0o755); err != nil {
		return wrapf(err, "failed to create %s", ModelDir)
	}

	if err := writeModelFile(m, fsys); err != nil {
		return err
	}
	if err := writeElements(m, fsys); err != nil {
		return err
	}
	if err := writeRelationships(m, fsys); err != nil {
		return err
	}
	return writeDiagrams(m, fsys)
}

func writeModelFile(m *model.Model, fsys billy.Filesystem) error {
	root := xmlModel{
		ID:         m.ID,
		Name:       m.Name,
		Version:    m.Version,
		Purpose:    m.Purpose,
		Properties: toXMLProperties(m.Properties),
	}
	data, err := marshalFile(&root)
	if err != nil {
		return wrapf(err, "failed to encode model descriptor")
	}
	name := path.Join(ModelDir, modelFile)
	if err := util.WriteFile(fsys, name, data, filePerm); err != nil {
		return wrapf(err, "failed to write %s", name)
	}
	return nil
}

func writeElements(m *model.Model, fsys billy.Filesystem) error {
	elements := make([]*model.Element, len(m.Elements))
	copy(elements, m.Elements)
	sort.Slice(elements, func(i, j int) bool { return elements[i].ID < elements[j].ID })

	for _, e := range elements {
		dir := path.Join(ModelDir, string(e.Layer))
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return wrapf(err, "failed to create %s", dir)
		}
		data, err := marshalFile(&xmlElement{
			ID:            e.ID,
			Type:          e.Type,
			Name:          e.Name,
			Documentation: e.Documentation,
			Properties:    toXMLProperties(e.Properties),
		})
		if err != nil {
			return wrapf(err, "failed to encode element %s", e.ID)
		}
		name := path.Join(dir, e.ID+".xml")
		if err := util.WriteFile(fsys, name, data, filePerm); err != nil {
			return wrapf(err, "failed to write %s", name)
		}
	}
	return nil
}

func writeRelationships(m *model.Model, fsys billy.Filesystem) error {
	rels := make([]*model.Relationship, len(m.Relationships))
	copy(rels, m.Relationships)
	sort.Slice(rels, func(i, j int) bool { return rels[i].ID < rels[j].ID })

	if len(rels) > 0 {
		if err := fsys.MkdirAll(path.Join(ModelDir, relationsDir), 0o755); err != nil {
			return wrapf(err, "failed to create %s", relationsDir)
		}
	}
	for _, r := range rels {
		data, err := marshalFile(&xmlRelationship{
			ID:            r.ID,
			Type:          r.Type,
			Name:          r.Name,
			Source:        r.SourceID,
			Target:        r.TargetID,
			Documentation: r.Documentation,
		})
		if err != nil {
			return wrapf(err, "failed to encode relationship %s", r.ID)
		}
		name := path.Join(ModelDir, relationsDir, r.ID+".xml")
		if err := util.WriteFile(fsys, name, data, filePerm); err != nil {
			return wrapf(err, "failed to write %s", name)
		}
	}
	return nil
}

func writeDiagrams(m *model.Model, fsys billy.Filesystem) error {
	diagrams := make([]*model.Diagram, len(m.Diagrams))
	copy(diagrams, m.Diagrams)
	sort.Slice(diagrams, func(i, j int) bool { return diagrams[i].ID < diagrams[j].ID })

	if len(diagrams) > 0 {
		if err := fsys.MkdirAll(path.Join(ModelDir, diagramsDir), 0o755); err != nil {
			return wrapf(err, "failed to create %s", diagramsDir)
		}
	}
	for _, d := range diagrams {
		wire := xmlDiagram{
			ID:            d.ID,
			Name:          d.Name,
			Documentation: d.Documentation,
			Nodes:         toXMLNodes(d.Nodes),
		}
		for _, c := range d.Connections {
			wire.Connections = append(wire.Connections, xmlConnection{
				ID:              c.ID,
				RelationshipRef: c.RelationshipID,
				Source:          c.SourceNodeID,
				Target:          c.TargetNodeID,
			})
		}
		data, err := marshalFile(&wire)
		if err != nil {
			return wrapf(err, "failed to encode diagram %s", d.ID)
		}
		name := path.Join(ModelDir, diagramsDir, d.ID+".xml")
		if err := util.WriteFile(fsys, name, data, filePerm); err != nil {
			return wrapf(err, "failed to write %s", name)
		}
	}
	return nil
}
