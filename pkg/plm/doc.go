// Package plm builds a typed object graph from PLMXML product-structure documents.
//
// A PLMXML document describes parts, instances of parts, geometric representations
// and relations. Records are nested (a Part owns its Representation, which owns its
// CompoundReps) and also point at each other through whitespace-separated identifier
// lists such as partRef or instanceRefs. This package keeps those two kinds of edges
// apart:
//
//   - Composition edges are ordinary struct fields. Every record has exactly one
//     owner and the owners form a tree rooted at [Document].
//   - Reference edges are the raw identifier strings kept on each record, plus the
//     resolved []Record slices filled in by [Resolve]. Resolved slices point into
//     the composition tree; they never own what they point at.
//
// # Phases
//
// Building a graph is an explicit, ordered pipeline:
//
//  1. [Build] projects a decoded markup tree onto typed records in one top-down pass.
//     Unrecognized elements are skipped. Nomenclature is derived here because it
//     depends only on owned UserData.
//  2. [Index] registers every identifiable record in a [Registry].
//  3. [Resolve] splits reference strings and looks every token up in the registry.
//     Tokens with no matching identifier are dropped silently.
//
// [Link] runs phases 2 and 3, and [Parse] runs all of them starting from raw XML.
// References are never resolved lazily: a record's resolved slices are empty until
// [Resolve] has run over the whole document, which is what lets forward references
// work.
//
// # Record kinds
//
// The identifiable kinds form a closed set behind the [Record] interface:
// [*Part], [*Instance], [*GeneralObject], [*Relation], [*Representation] and
// [*CompoundRep]. Switch on [Record.Kind] or use a type switch; no other
// implementations exist.
//
// # Transforms
//
// A Transform element carries 16 whitespace-separated numbers, row-major. Fewer
// than 16, or a token that is not a number, fails the whole build with
// [errors.ErrCodeMalformedTransform] unless [BuildOptions.Lenient] is set, in which
// case that Transform keeps an empty [Matrix] and the build continues.
package plm
