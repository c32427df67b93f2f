// Import side of the projection: parse the exploded tree back into a
// model, resolving cross-file references and reporting the ones that
// cannot be resolved.
package grafico

import (
	"bytes"
	"encoding/xml"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/archicontribs/modelrepo/model"
)

// conflictMarker is the residue a merge leaves in files it could not
// auto-resolve. Files carrying it are reported and skipped, not parsed.
var conflictMarker = []byte("<<<<<<<")

// Import parses the exploded representation under ModelDir in fsys.
//
// It returns ErrNoModel when the tree holds no projection at all (a
// normal state for a fresh repository) and ErrConflicted when the root
// descriptor still carries merge conflict markers; the two are distinct
// so callers can tell an empty tree from a mid-merge one. Parse and I/O
// failures are real errors. Unresolved references and merge-conflict
// residue in object files do not fail the import; they are collected
// into the returned ResolutionReport and the affected references are
// left dangling for the caller to inspect. The report is also returned
// alongside ErrConflicted, carrying whatever diagnostics were gathered
// before the import stopped.
//
// The returned model is in normalized order.
func Import(fsys billy.Filesystem) (*model.Model, *ResolutionReport, error) {
	rootName := path.Join(ModelDir, modelFile)
	if _, err := fsys.Stat(rootName); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNoModel
		}
		return nil, nil, wrapf(err, "failed to stat %s", rootName)
	}

	report := &ResolutionReport{}

	m, err := readModelFile(fsys, rootName, report)
	if err != nil {
		return nil, report, err
	}
	if err := readElements(fsys, m, report); err != nil {
		return nil, report, err
	}
	if err := readRelationships(fsys, m, report); err != nil {
		return nil, report, err
	}
	if err := readDiagrams(fsys, m, report); err != nil {
		return nil, report, err
	}

	resolve(m, report)
	m.Normalize()
	return m, report, nil
}

func readModelFile(fsys billy.Filesystem, name string, report *ResolutionReport) (*model.Model, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, wrapf(err, "failed to read %s", name)
	}
	if bytes.Contains(data, conflictMarker) {
		// The root descriptor is not skippable; without it nothing else
		// can be interpreted.
		report.add(ProblemConflictMarker, name, "", "model descriptor contains merge conflict markers")
		return nil, wrapf(ErrConflicted, "%s", name)
	}
	var root xmlModel
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, wrapf(err, "failed to parse %s", name)
	}
	return &model.Model{
		ID:         root.ID,
		Name:       root.Name,
		Version:    root.Version,
		Purpose:    root.Purpose,
		Properties: fromXMLProperties(root.Properties),
	}, nil
}

func readElements(fsys billy.Filesystem, m *model.Model, report *ResolutionReport) error {
	for _, layer := range model.Layers() {
		dir := path.Join(ModelDir, string(layer))
		files, err := listXMLFiles(fsys, dir)
		if err != nil {
			return err
		}
		for _, name := range files {
			data, skip, err := readObjectFile(fsys, name, report)
			if err != nil {
				return err
			}
			if skip {
				continue
			}
			var e xmlElement
			if err := xml.Unmarshal(data, &e); err != nil {
				return wrapf(err, "failed to parse %s", name)
			}
			m.Elements = append(m.Elements, &model.Element{
				ID:            e.ID,
				Type:          e.Type,
				Name:          e.Name,
				Layer:         layer,
				Documentation: e.Documentation,
				Properties:    fromXMLProperties(e.Properties),
			})
		}
	}
	return nil
}

func readRelationships(fsys billy.Filesystem, m *model.Model, report *ResolutionReport) error {
	files, err := listXMLFiles(fsys, path.Join(ModelDir, relationsDir))
	if err != nil {
		return err
	}
	for _, name := range files {
		data, skip, err := readObjectFile(fsys, name, report)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		var r xmlRelationship
		if err := xml.Unmarshal(data, &r); err != nil {
			return wrapf(err, "failed to parse %s", name)
		}
		m.Relationships = append(m.Relationships, &model.Relationship{
			ID:            r.ID,
			Type:          r.Type,
			Name:          r.Name,
			SourceID:      r.Source,
			TargetID:      r.Target,
			Documentation: r.Documentation,
		})
	}
	return nil
}

func readDiagrams(fsys billy.Filesystem, m *model.Model, report *ResolutionReport) error {
	files, err := listXMLFiles(fsys, path.Join(ModelDir, diagramsDir))
	if err != nil {
		return err
	}
	for _, name := range files {
		data, skip, err := readObjectFile(fsys, name, report)
		if err != nil {
			return err
		}
		if skip {
			continue
		}
		var d xmlDiagram
		if err := xml.Unmarshal(data, &d); err != nil {
			return wrapf(err, "failed to parse %s", name)
		}
		diagram := &model.Diagram{
			ID:            d.ID,
			Name:          d.Name,
			Documentation: d.Documentation,
			Nodes:         fromXMLNodes(d.Nodes),
		}
		for _, c := range d.Connections {
			diagram.Connections = append(diagram.Connections, &model.DiagramConnection{
				ID:             c.ID,
				RelationshipID: c.RelationshipRef,
				SourceNodeID:   c.Source,
				TargetNodeID:   c.Target,
			})
		}
		m.Diagrams = append(m.Diagrams, diagram)
	}
	return nil
}

// listXMLFiles returns the sorted tree-relative paths of .xml files in
// dir. A missing directory is treated as empty.
func listXMLFiles(fsys billy.Filesystem, dir string) ([]string, error) {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, wrapf(err, "failed to read %s", dir)
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".xml") {
			continue
		}
		names = append(names, path.Join(dir, info.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// readObjectFile reads one object file, reporting and skipping it when it
// carries merge conflict residue.
func readObjectFile(fsys billy.Filesystem, name string, report *ResolutionReport) (data []byte, skip bool, err error) {
	data, err = util.ReadFile(fsys, name)
	if err != nil {
		return nil, false, wrapf(err, "failed to read %s", name)
	}
	if bytes.Contains(data, conflictMarker) {
		report.add(ProblemConflictMarker, name, "", "file contains merge conflict markers")
		return nil, true, nil
	}
	return data, false, nil
}

// resolve checks every cross-file reference and records the ones that
// point at nothing. References are left in place so the caller can decide
// how to repair them.
func resolve(m *model.Model, report *ResolutionReport) {
	elements := make(map[string]bool, len(m.Elements))
	for _, e := range m.Elements {
		elements[e.ID] = true
	}
	relationships := make(map[string]bool, len(m.Relationships))
	for _, r := range m.Relationships {
		relationships[r.ID] = true
	}

	for _, r := range m.Relationships {
		file := path.Join(ModelDir, relationsDir, r.ID+".xml")
		if !elements[r.SourceID] {
			report.add(ProblemUnresolvedElement, file, r.SourceID, "relationship source not found")
		}
		if !elements[r.TargetID] {
			report.add(ProblemUnresolvedElement, file, r.TargetID, "relationship target not found")
		}
	}

	for _, d := range m.Diagrams {
		file := path.Join(ModelDir, diagramsDir, d.ID+".xml")
		nodes := make(map[string]bool)
		var walk func(ns []*model.DiagramNode)
		walk = func(ns []*model.DiagramNode) {
			for _, n := range ns {
				nodes[n.ID] = true
				if n.ElementID != "" && !elements[n.ElementID] {
					report.add(ProblemUnresolvedElement, file, n.ElementID, "diagram node element not found")
				}
				walk(n.Children)
			}
		}
		walk(d.Nodes)

		for _, c := range d.Connections {
			if c.RelationshipID != "" && !relationships[c.RelationshipID] {
				report.add(ProblemUnresolvedRelationship, file, c.RelationshipID, "connection relationship not found")
			}
			if !nodes[c.SourceNodeID] {
				report.add(ProblemUnresolvedNode, file, c.SourceNodeID, "connection source node not found")
			}
			if !nodes[c.TargetNodeID] {
				report.add(ProblemUnresolvedNode, file, c.TargetNodeID, "connection target node not found")
			}
		}
	}
}
