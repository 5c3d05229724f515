package render

import (
	"strings"

	"github.com/matzehuels/plmgraph/pkg/plm"
)

const indentUnit = "  "

// Brief renders the hierarchical view of doc. Lines are joined with "\n" and
// there is no trailing newline.
func Brief(doc *plm.Document) string {
	return strings.Join(BriefLines(doc), "\n")
}

// BriefLines renders the hierarchical view of doc one line per entry.
//
// The walk starts at each identifier in the InstanceGraph's rootRefs. A record
// already printed during this call is never printed again, which keeps shared
// subtrees from repeating and makes reference cycles terminate.
func BriefLines(doc *plm.Document) []string {
	if doc == nil {
		return nil
	}
	var lines []string
	if doc.Header != nil {
		lines = append(lines, "Header: author="+doc.Header.Author)
	}

	g := doc.InstanceGraph()
	if g == nil {
		return lines
	}
	lines = append(lines, "InstanceGraph: rootRefs="+g.RootRefs)

	w := newBriefWalker(g)
	w.lines = lines
	for _, id := range strings.Fields(g.RootRefs) {
		w.walk(id, 0)
	}

	for _, rel := range g.Relations {
		line := "Relation: id=" + rel.ID
		if rel.RelatedRefs != "" {
			line += ", relatedRefs=" + rel.RelatedRefs
		}
		w.lines = append(w.lines, line)
	}
	return w.lines
}

// briefWalker holds the lookup tables and visited set for one rendering.
type briefWalker struct {
	parts        map[string]*plm.Part
	instances    map[string]*plm.Instance
	reps         map[string]*plm.Representation
	compoundReps map[string]*plm.CompoundRep

	visited map[string]bool
	lines   []string
}

func newBriefWalker(g *plm.InstanceGraph) *briefWalker {
	w := &briefWalker{
		parts:        make(map[string]*plm.Part),
		instances:    make(map[string]*plm.Instance),
		reps:         make(map[string]*plm.Representation),
		compoundReps: make(map[string]*plm.CompoundRep),
		visited:      make(map[string]bool),
	}
	for _, p := range g.Parts {
		if p.ID != "" {
			w.parts[p.ID] = p
		}
		if p.Representation == nil {
			continue
		}
		if id := p.Representation.ID; id != "" {
			w.reps[id] = p.Representation
		}
		for _, cr := range p.Representation.CompoundReps {
			if cr.ID != "" {
				w.compoundReps[cr.ID] = cr
			}
		}
	}
	for _, inst := range g.Instances {
		if inst.ID != "" {
			w.instances[inst.ID] = inst
		}
	}
	return w
}

func (w *briefWalker) emit(depth int, line string) {
	w.lines = append(w.lines, strings.Repeat(indentUnit, depth)+line)
}

// walk prints the record registered under id and its children. Lookups run in
// the order Part, Instance, Representation, CompoundRep. Unknown identifiers
// print nothing and are not marked visited.
func (w *briefWalker) walk(id string, depth int) {
	if w.visited[id] {
		return
	}
	if p, ok := w.parts[id]; ok {
		w.part(p, depth)
		return
	}
	if inst, ok := w.instances[id]; ok {
		w.instance(inst, depth)
		return
	}
	if rep, ok := w.reps[id]; ok {
		w.representation(rep, depth)
		return
	}
	if cr, ok := w.compoundReps[id]; ok {
		w.compoundRep(cr, depth)
	}
}

func (w *briefWalker) part(p *plm.Part, depth int) {
	line := "Part: id=" + p.ID
	if p.InstanceRefs != "" {
		line += ", instanceRefs=" + p.InstanceRefs
	}
	if p.RepresentationRefs != "" {
		line += ", representationRefs=" + p.RepresentationRefs
	}
	if p.Nomenclature != "" {
		line += ", nomenclature=" + p.Nomenclature
	}
	w.emit(depth, line)
	w.visited[p.ID] = true

	// An anonymous Representation cannot be reached by identifier, so it is
	// printed in place under its Part.
	if rep := p.Representation; rep != nil {
		if rep.ID == "" {
			w.representation(rep, depth+1)
		} else {
			w.walk(rep.ID, depth+1)
		}
	}
	for _, child := range p.ChildObjects {
		switch child.Kind() {
		case plm.KindInstance, plm.KindPart, plm.KindCompoundRep:
			w.walk(child.Identifier(), depth+1)
		}
	}
}

func (w *briefWalker) instance(inst *plm.Instance, depth int) {
	line := "Instance: id=" + inst.ID
	if inst.PartRef != "" {
		line += ", partRef=" + inst.PartRef
	}
	if inst.Nomenclature != "" {
		line += ", nomenclature=" + inst.Nomenclature
	}
	w.emit(depth, line)
	w.visited[inst.ID] = true

	if inst.Transform != nil {
		w.transform(inst.Transform, depth+1)
	}
	for _, ref := range strings.Fields(inst.PartRef) {
		w.walk(ref, depth+1)
	}
}

func (w *briefWalker) representation(rep *plm.Representation, depth int) {
	w.emit(depth, "Representation: id="+rep.ID)
	if rep.ID != "" {
		w.visited[rep.ID] = true
	}

	for _, cr := range rep.CompoundReps {
		w.walk(cr.ID, depth+1)
	}
}

func (w *briefWalker) compoundRep(cr *plm.CompoundRep, depth int) {
	line := "CompoundRep: id=" + cr.ID
	if cr.Location != "" {
		line += ", location=" + cr.Location
	}
	if cr.Name != "" {
		line += ", name=" + cr.Name
	}
	w.emit(depth, line)
	w.visited[cr.ID] = true

	if cr.Transform != nil {
		w.transform(cr.Transform, depth+1)
	}
}

// transform lines are not guarded by the visited set; a Transform is owned by
// exactly one record.
func (w *briefWalker) transform(t *plm.Transform, depth int) {
	line := "Transform: id=" + t.ID
	if !t.Matrix.IsEmpty() {
		line += ", matrix=" + t.Matrix.String()
	}
	w.emit(depth, line)
}
