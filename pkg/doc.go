// Package pkg provides the libraries behind plmgraph, a reader and renderer
// for PLMXML product-structure documents.
//
// # Overview
//
// A PLMXML export describes an assembly as an instance graph: Parts that
// own Representations and reference child Instances, Instances that place a
// Part with a Transform, and GeneralObjects and Relations that hang metadata
// off the structure. Cross-references are whitespace-separated identifier
// lists held in attributes.
//
// # Architecture
//
//	PLMXML bytes
//	     ↓
//	[markup] package (namespace-agnostic element tree)
//	     ↓
//	[plm] package (typed records, identifier registry, reference resolution)
//	     ↓
//	[render] package (structural YAML, brief outline, DOT/SVG/PDF/PNG graph)
//
// [pipeline] runs these stages for the CLI and the HTTP API, with rendered
// output cached through [cache] and events reported through [observability].
//
// # Quick Start
//
//	doc, err := pipeline.ParseDocument(data, true)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(render.Brief(doc))
//
// # Main Packages
//
//   - [markup]: decode XML into an element tree, matching names by local part
//   - [plm]: the record model, [plm.Build], [plm.Index] and [plm.Resolve]
//   - [render]: the three views of a linked document
//   - [pipeline]: options, runner, caching and statistics
//   - [cache]: file, Redis and MongoDB backends for rendered output
//   - [config]: TOML configuration
//   - [errors]: coded errors shared by the CLI and the API
//   - [observability]: hook interfaces with a Prometheus implementation
//   - [buildinfo]: version information injected at build time
//
// [markup]: github.com/matzehuels/plmgraph/pkg/markup
// [plm]: github.com/matzehuels/plmgraph/pkg/plm
// [plm.Build]: github.com/matzehuels/plmgraph/pkg/plm#Build
// [plm.Index]: github.com/matzehuels/plmgraph/pkg/plm#Index
// [plm.Resolve]: github.com/matzehuels/plmgraph/pkg/plm#Resolve
// [render]: github.com/matzehuels/plmgraph/pkg/render
// [pipeline]: github.com/matzehuels/plmgraph/pkg/pipeline
// [cache]: github.com/matzehuels/plmgraph/pkg/cache
// [config]: github.com/matzehuels/plmgraph/pkg/config
// [errors]: github.com/matzehuels/plmgraph/pkg/errors
// [observability]: github.com/matzehuels/plmgraph/pkg/observability
// [buildinfo]: github.com/matzehuels/plmgraph/pkg/buildinfo
package pkg
