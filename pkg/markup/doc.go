// Package markup decodes XML documents into a small, order-preserving element tree.
//
// The tree keeps exactly what the record builder in [github.com/matzehuels/plmgraph/pkg/plm]
// needs: each element's local name and namespace, its attributes in document order,
// its child elements in document order, and its concatenated character data.
// Comments, processing instructions and directives are dropped.
//
// Tag names are compared by suffix on the unqualified local name (see [Element.Is]),
// so documents that declare the PLMXML namespace with or without a prefix decode
// to the same tree.
package markup
