package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/plmgraph/pkg/plm"
)

// DOTOptions configures graph export.
type DOTOptions struct {
	// Detailed adds names, nomenclature and class names to node labels.
	// When false, labels show only the kind and identifier.
	Detailed bool
}

// DOT converts doc to Graphviz DOT format. Composition edges (Part to
// Representation to CompoundRep) are solid; resolved references are dashed.
// Records without an identifier are not drawn.
//
// The result can be rendered with [SVG].
func DOT(doc *plm.Document, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	g := doc.InstanceGraph()
	if g == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	reg := doc.Registry()
	if reg == nil {
		reg = plm.Index(doc)
	}

	buf.WriteString("\n")
	for _, id := range reg.IDs() {
		rec, _ := reg.Lookup(id)
		writeNode(&buf, rec, opts.Detailed)
	}
	for _, p := range g.Parts {
		// Representations are not reference targets, so they are not in the registry.
		if rep := p.Representation; rep != nil && rep.ID != "" {
			if _, taken := reg.Lookup(rep.ID); !taken {
				writeNode(&buf, rep, opts.Detailed)
			}
		}
	}

	buf.WriteString("\n")
	for _, p := range g.Parts {
		if p.ID == "" || p.Representation == nil {
			continue
		}
		owner := p.ID
		if rep := p.Representation; rep.ID != "" {
			writeEdge(&buf, p.ID, rep.ID, false)
			owner = rep.ID
		}
		for _, cr := range p.Representation.CompoundReps {
			if cr.ID != "" {
				writeEdge(&buf, owner, cr.ID, false)
			}
		}
	}
	for _, p := range g.Parts {
		writeRefEdges(&buf, p.ID, p.ChildObjects)
	}
	for _, inst := range g.Instances {
		writeRefEdges(&buf, inst.ID, inst.PartReferences)
	}
	for _, rel := range g.Relations {
		writeRefEdges(&buf, rel.ID, rel.RelatedObjects)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, rec plm.Record, detailed bool) {
	label := fmtLabel(rec, detailed)
	attrs := fmtAttrs(rec, label)
	fmt.Fprintf(buf, "  %q [%s];\n", rec.Identifier(), strings.Join(attrs, ", "))
}

func writeRefEdges(buf *bytes.Buffer, from string, refs []plm.Record) {
	if from == "" {
		return
	}
	for _, id := range plm.IDs(refs) {
		writeEdge(buf, from, id, true)
	}
}

func writeEdge(buf *bytes.Buffer, from, to string, reference bool) {
	if reference {
		fmt.Fprintf(buf, "  %q -> %q [style=dashed];\n", from, to)
		return
	}
	fmt.Fprintf(buf, "  %q -> %q;\n", from, to)
}

func fmtLabel(rec plm.Record, detailed bool) string {
	label := rec.Kind().String() + "\n" + rec.Identifier()
	if !detailed {
		return label
	}

	var extra []string
	switch r := rec.(type) {
	case *plm.Part:
		if r.Name != "" {
			extra = append(extra, "name: "+r.Name)
		}
		if r.NomenclatureSet {
			extra = append(extra, "nomenclature: "+r.Nomenclature)
		}
	case *plm.Instance:
		extra = append(extra, "quantity: "+strconv.Itoa(r.Quantity))
		if r.NomenclatureSet {
			extra = append(extra, "nomenclature: "+r.Nomenclature)
		}
	case *plm.GeneralObject:
		if r.ClassName != "" {
			extra = append(extra, "class: "+r.ClassName)
		}
	case *plm.Relation:
		if r.SubType != "" {
			extra = append(extra, "subType: "+r.SubType)
		}
	case *plm.Representation:
		if r.Format != "" {
			extra = append(extra, "format: "+r.Format)
		}
	case *plm.CompoundRep:
		if r.Location != "" {
			extra = append(extra, "location: "+r.Location)
		}
	}
	if len(extra) == 0 {
		return label
	}
	return label + "\n" + strings.Join(extra, "\n")
}

func fmtAttrs(rec plm.Record, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch rec.Kind() {
	case plm.KindInstance:
		attrs = append(attrs, "fillcolor=lightyellow")
	case plm.KindRepresentation, plm.KindCompoundRep:
		attrs = append(attrs, "fillcolor=lightblue")
	case plm.KindGeneralObject, plm.KindRelation:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element so the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
