package plm

import (
	"io"

	"github.com/matzehuels/plmgraph/pkg/markup"
)

// Parse decodes a PLMXML document from r and runs every build phase:
// decode, [Build], [Index] and [Resolve]. On error no Document is returned.
func Parse(r io.Reader, opts BuildOptions) (*Document, ResolveStats, error) {
	root, err := markup.Parse(r)
	if err != nil {
		return nil, ResolveStats{}, err
	}
	doc, err := Build(root, opts)
	if err != nil {
		return nil, ResolveStats{}, err
	}
	st := Link(doc)
	return doc, st, nil
}
