package render

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plmgraph/pkg/plm"
)

func loadFixture(t *testing.T) *plm.Document {
	t.Helper()
	f, err := os.Open("testdata/assembly.xml")
	require.NoError(t, err)
	defer f.Close()

	doc, _, err := plm.Parse(f, plm.BuildOptions{})
	require.NoError(t, err)
	return doc
}

func parseString(t *testing.T, xml string, opts plm.BuildOptions) *plm.Document {
	t.Helper()
	doc, _, err := plm.Parse(strings.NewReader(xml), opts)
	require.NoError(t, err)
	return doc
}

// graph wraps instance graph children in a minimal document.
func graph(rootRefs, body string) string {
	return `<PLMXML><ProductDef><InstanceGraph rootRefs="` + rootRefs + `">` + body +
		`</InstanceGraph></ProductDef></PLMXML>`
}
