package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/plmgraph/pkg/plm"
)

// Structural renders doc as a YAML block document.
//
// Keys follow each record's field order. Absent attributes render as null and
// attributes present with an empty value as ''. Reference fields render as
// identifier lists and are omitted when empty.
func Structural(doc *plm.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("render structural: nil document")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(documentNode(doc)); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func documentNode(doc *plm.Document) *yaml.Node {
	m := mapping()
	put(m, "author", attr(doc.Blank, "author", doc.Author))
	put(m, "date", attr(doc.Blank, "date", doc.Date))
	if doc.SchemaVersion != nil {
		put(m, "schema_version", float(*doc.SchemaVersion))
	} else {
		put(m, "schema_version", null())
	}
	put(m, "time", attr(doc.Blank, "time", doc.Time))
	put(m, "schema_location", attr(doc.Blank, "schemaLocation", doc.SchemaLocation))

	if pd := doc.ProductDef; pd != nil {
		pdm := mapping()
		if pd.InstanceGraph != nil {
			put(pdm, "instance_graph", instanceGraphNode(pd.InstanceGraph))
		}
		put(m, "product_def", pdm)
	}
	if doc.Header != nil {
		put(m, "header", headerNode(doc.Header))
	}
	return m
}

func headerNode(h *plm.Header) *yaml.Node {
	m := mapping()
	put(m, "author", attr(h.Blank, "author", h.Author))
	put(m, "creation_date", attr(h.Blank, "creationDate", h.CreationDate))
	put(m, "definition", attr(h.Blank, "definition", h.Definition))
	put(m, "extension_version", attr(h.Blank, "extensionVersion", h.ExtensionVersion))
	put(m, "smaragd_version", attr(h.Blank, "smaragdVersion", h.SmaragdVersion))
	putUserData(m, h.UserData)

	if h.Contexts != nil {
		cm := mapping()
		if c := h.Contexts.Context; c != nil {
			ctx := mapping()
			put(ctx, "id", attr(c.Blank, "id", c.ID))
			put(ctx, "ref_config", attr(c.Blank, "refConfig", c.RefConfig))
			put(cm, "context", ctx)
		}
		put(m, "contexts", cm)
	}
	if h.Definitions != nil {
		defs := sequence()
		for _, d := range h.Definitions.TableAttributeDefinitions {
			dm := mapping()
			put(dm, "id", attr(d.Blank, "id", d.ID))
			put(dm, "columns", columnsNode(d.Columns))
			defs.Content = append(defs.Content, dm)
		}
		dm := mapping()
		put(dm, "table_attribute_definitions", defs)
		put(m, "definitions", dm)
	}
	return m
}

func instanceGraphNode(g *plm.InstanceGraph) *yaml.Node {
	m := mapping()
	put(m, "root_refs", attr(g.Blank, "rootRefs", g.RootRefs))

	instances := sequence()
	for _, inst := range g.Instances {
		instances.Content = append(instances.Content, instanceNode(inst))
	}
	put(m, "instances", instances)

	parts := sequence()
	for _, p := range g.Parts {
		parts.Content = append(parts.Content, partNode(p))
	}
	put(m, "parts", parts)

	objects := sequence()
	for _, obj := range g.GeneralObjects {
		om := mapping()
		put(om, "id", attr(obj.Blank, "id", obj.ID))
		put(om, "class_name", attr(obj.Blank, "class", obj.ClassName))
		putUserData(om, obj.UserData)
		objects.Content = append(objects.Content, om)
	}
	put(m, "general_objects", objects)

	relations := sequence()
	for _, rel := range g.Relations {
		rm := mapping()
		put(rm, "id", attr(rel.Blank, "id", rel.ID))
		put(rm, "related_refs", attr(rel.Blank, "relatedRefs", rel.RelatedRefs))
		put(rm, "sub_type", attr(rel.Blank, "subType", rel.SubType))
		putUserData(rm, rel.UserData)
		putRefs(rm, "related_objects", rel.RelatedObjects)
		relations.Content = append(relations.Content, rm)
	}
	put(m, "relations", relations)
	return m
}

func instanceNode(inst *plm.Instance) *yaml.Node {
	m := mapping()
	put(m, "id", attr(inst.Blank, "id", inst.ID))
	put(m, "part_ref", attr(inst.Blank, "partRef", inst.PartRef))
	put(m, "quantity", integer(inst.Quantity))
	if inst.NomenclatureSet {
		put(m, "nomenclature", present(inst.Nomenclature))
	}
	if inst.Transform != nil {
		put(m, "transform", transformNode(inst.Transform))
	}
	putUserData(m, inst.UserData)
	putRefs(m, "part_references", inst.PartReferences)
	return m
}

func partNode(p *plm.Part) *yaml.Node {
	m := mapping()
	put(m, "id", attr(p.Blank, "id", p.ID))
	put(m, "name", attr(p.Blank, "name", p.Name))
	put(m, "representation_refs", attr(p.Blank, "representationRefs", p.RepresentationRefs))
	put(m, "instance_refs", attr(p.Blank, "instanceRefs", p.InstanceRefs))
	if p.NomenclatureSet {
		put(m, "nomenclature", present(p.Nomenclature))
	}
	if rep := p.Representation; rep != nil {
		rm := mapping()
		put(rm, "id", attr(rep.Blank, "id", rep.ID))
		put(rm, "format", attr(rep.Blank, "format", rep.Format))
		crs := sequence()
		for _, cr := range rep.CompoundReps {
			crs.Content = append(crs.Content, compoundRepNode(cr))
		}
		put(rm, "compound_reps", crs)
		put(m, "representation", rm)
	}
	putUserData(m, p.UserData)
	if p.TableAttribute != nil {
		put(m, "table_attribute", tableAttributeNode(p.TableAttribute))
	}
	putRefs(m, "child_objects", p.ChildObjects)
	return m
}

func compoundRepNode(cr *plm.CompoundRep) *yaml.Node {
	m := mapping()
	put(m, "id", attr(cr.Blank, "id", cr.ID))
	put(m, "format", attr(cr.Blank, "format", cr.Format))
	put(m, "location", attr(cr.Blank, "location", cr.Location))
	put(m, "name", attr(cr.Blank, "name", cr.Name))
	if cr.Transform != nil {
		put(m, "transform", transformNode(cr.Transform))
	}
	putUserData(m, cr.UserData)
	if cr.TableAttribute != nil {
		put(m, "table_attribute", tableAttributeNode(cr.TableAttribute))
	}
	return m
}

func transformNode(t *plm.Transform) *yaml.Node {
	m := mapping()
	put(m, "id", attr(t.Blank, "id", t.ID))
	rows := sequence()
	for _, row := range t.Matrix {
		r := sequence()
		r.Style = yaml.FlowStyle
		for _, v := range row {
			r.Content = append(r.Content, float(v))
		}
		rows.Content = append(rows.Content, r)
	}
	put(m, "matrix", rows)
	return m
}

func tableAttributeNode(ta *plm.TableAttribute) *yaml.Node {
	m := mapping()
	put(m, "definition_ref", attr(ta.Blank, "definitionRef", ta.DefinitionRef))
	rows := sequence()
	for _, row := range ta.Rows {
		rm := mapping()
		put(rm, "columns", columnsNode(row.Columns))
		rows.Content = append(rows.Content, rm)
	}
	put(m, "rows", rows)
	return m
}

func columnsNode(cols []plm.Column) *yaml.Node {
	seq := sequence()
	for _, c := range cols {
		cm := mapping()
		put(cm, "col", integer(c.Col))
		put(cm, "value", attr(c.Blank, "value", c.Value))
		seq.Content = append(seq.Content, cm)
	}
	return seq
}

func putUserData(m *yaml.Node, blocks []*plm.UserData) {
	if len(blocks) == 0 {
		return
	}
	seq := sequence()
	for _, ud := range blocks {
		um := mapping()
		put(um, "type", attr(ud.Blank, "type", ud.Type))
		values := sequence()
		for _, uv := range ud.Values {
			vm := mapping()
			put(vm, "title", attr(uv.Blank, "title", uv.Title))
			put(vm, "value", attr(uv.Blank, "value", uv.Value))
			values.Content = append(values.Content, vm)
		}
		put(um, "user_values", values)
		seq.Content = append(seq.Content, um)
	}
	put(m, "user_data", seq)
}

// putRefs writes the identifiers of resolved references, never their content.
func putRefs(m *yaml.Node, key string, refs []plm.Record) {
	if len(refs) == 0 {
		return
	}
	seq := sequence()
	for _, id := range plm.IDs(refs) {
		seq.Content = append(seq.Content, str(id))
	}
	put(m, key, seq)
}

func mapping() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"} }
func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"} }
func null() *yaml.Node     { return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"} }

func put(m *yaml.Node, key string, v *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
}

func str(s string) *yaml.Node {
	if s == "" {
		return null()
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// attr renders an attribute value, keeping an empty value apart from an
// absent attribute.
func attr(blank plm.Blank, name, s string) *yaml.Node {
	if s == "" && blank.Has(name) {
		return present(s)
	}
	return str(s)
}

// present renders s as a string even when it is empty.
func present(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if s == "" {
		n.Style = yaml.SingleQuotedStyle
	}
	return n
}

func integer(n int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(n)}
}

func float(f float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatFloat(f)}
}

// formatFloat always keeps a decimal point so integral values read as floats.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
