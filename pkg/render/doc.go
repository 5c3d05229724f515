// Package render turns a linked PLMXML document into text.
//
// # Overview
//
// Three views are provided, each a pure function of the [plm.Document]:
//
//   - [Structural]: the full record tree as a YAML block document
//   - [Brief]: an indented hierarchy walked from the instance graph's root refs
//   - [DOT]: a Graphviz digraph of composition and reference edges
//
// # Structural Dump
//
// Owned children are rendered inline. Reference fields (child_objects,
// part_references, related_objects) are rendered as identifier lists only, so
// the dump stays finite even when references form cycles. Dumping the same
// document twice yields identical bytes.
//
//	out, err := render.Structural(doc)
//
// # Brief View
//
// The brief view starts at each identifier in the InstanceGraph's rootRefs and
// prints one line per record, two spaces of indentation per level. A visited
// set scoped to the call guarantees every record is printed at most once, so
// shared (diamond) structure is not duplicated and reference cycles terminate.
// Relations follow as a flat trailing list.
//
//	fmt.Println(render.Brief(doc))
//
// # Graph Export
//
// [DOT] emits one node per identifiable record. Composition edges are solid,
// resolved references are dashed. [SVG] lays the graph out with Graphviz.
//
//	dot := render.DOT(doc, render.DOTOptions{})
//	svg, err := render.SVG(ctx, dot)
package render
