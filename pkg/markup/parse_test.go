package markup

import (
	"strings"
	"testing"

	"github.com/matzehuels/plmgraph/pkg/errors"
)

const nsDoc = `<?xml version="1.0" encoding="utf-8"?>
<!-- exported -->
<plm:PLMXML xmlns:plm="http://www.plmxml.org/Schemas/PLMXMLSchema"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
    xsi:schemaLocation="http://www.plmxml.org/Schemas/PLMXMLSchema plmxml.xsd"
    schemaVersion="6" author="alice">
  <plm:Header author="bob"/>
  <plm:ProductDef>
    <plm:InstanceGraph rootRefs="p1">
      <plm:Part id="p1" name="Frame"/>
      <plm:Transform id="t1">1 0 0 0
        0 1 0 0</plm:Transform>
    </plm:InstanceGraph>
  </plm:ProductDef>
</plm:PLMXML>
`

func TestParseNamespacedDocument(t *testing.T) {
	root, err := Parse(strings.NewReader(nsDoc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if root.Name != "PLMXML" {
		t.Errorf("root.Name = %q, want PLMXML", root.Name)
	}
	if root.Space != "http://www.plmxml.org/Schemas/PLMXMLSchema" {
		t.Errorf("root.Space = %q", root.Space)
	}
	if got := root.AttrValue("author"); got != "alice" {
		t.Errorf("author = %q, want alice", got)
	}
	loc, ok := root.AttrNS("http://www.w3.org/2001/XMLSchema-instance", "schemaLocation")
	if !ok || !strings.HasSuffix(loc, "plmxml.xsd") {
		t.Errorf("schemaLocation = %q, %v", loc, ok)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}
	if !root.Children[0].Is("Header") || !root.Children[1].Is("ProductDef") {
		t.Errorf("children out of order: %s, %s", root.Children[0].Name, root.Children[1].Name)
	}

	graph := root.Children[1].Children[0]
	if len(graph.ChildrenOf("Part")) != 1 {
		t.Errorf("ChildrenOf(Part) = %d, want 1", len(graph.ChildrenOf("Part")))
	}
	tr := graph.ChildrenOf("Transform")[0]
	if fields := strings.Fields(tr.Text); len(fields) != 8 {
		t.Errorf("transform text fields = %d, want 8", len(fields))
	}
}

func TestAttrPresence(t *testing.T) {
	root, err := ParseBytes([]byte(`<Instance id="i1" quantity=""/>`))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	if v, ok := root.Attr("quantity"); !ok || v != "" {
		t.Errorf("Attr(quantity) = %q, %v; want empty, true", v, ok)
	}
	if _, ok := root.Attr("partRef"); ok {
		t.Error("Attr(partRef) should be absent")
	}
}

func TestAttrSkipsNamespaceDeclarations(t *testing.T) {
	root, err := ParseBytes([]byte(`<Part xmlns:name="urn:x" name="Frame"/>`))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	if got := root.AttrValue("name"); got != "Frame" {
		t.Errorf("AttrValue(name) = %q, want Frame", got)
	}
}

func TestIsSuffixMatch(t *testing.T) {
	tests := []struct {
		name string
		kind string
		want bool
	}{
		{"Part", "Part", true},
		{"ProductPart", "Part", true},
		{"InstanceGraph", "Instance", false},
		{"Contexts", "Context", false},
		{"Context", "Context", true},
	}

	for _, tt := range tests {
		e := &Element{Name: tt.name}
		if got := e.Is(tt.kind); got != tt.want {
			t.Errorf("(%s).Is(%s) = %v, want %v", tt.name, tt.kind, got, tt.want)
		}
	}

	var nilElem *Element
	if nilElem.Is("Part") {
		t.Error("nil element should not match")
	}
}

func TestWalk(t *testing.T) {
	root, err := ParseBytes([]byte(`<a><b><c/></b><d/></a>`))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	var names []string
	root.Walk(func(e *Element) bool {
		names = append(names, e.Name)
		return e.Name != "b"
	})

	if got := strings.Join(names, ","); got != "a,b,d" {
		t.Errorf("Walk order = %s, want a,b,d", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed", `<PLMXML><Header></PLMXML>`},
		{"text after root", `<PLMXML/>trailing`},
		{"second root", `<PLMXML/><PLMXML/>`},
		{"text before root", `junk<PLMXML/>`},
		{"bad attribute", `<PLMXML author=alice/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseBytes([]byte(tt.input))
			if err == nil {
				t.Fatalf("ParseBytes(%q) = %v, want error", tt.input, root)
			}
			if root != nil {
				t.Error("no partial tree should be returned")
			}
			if !errors.Is(err, errors.ErrCodeMalformedMarkup) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeMalformedMarkup)
			}
		})
	}
}

func TestParseDeclaredLatin1(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<PLMXML><ProductDef><InstanceGraph><Part id=\"p\" name=\"Gr\xfcn\"/></InstanceGraph></ProductDef></PLMXML>"

	root, err := ParseBytes([]byte(input))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}

	var part *Element
	root.Walk(func(e *Element) bool {
		if e.Is("Part") {
			part = e
		}
		return true
	})
	if part == nil {
		t.Fatal("Part not found")
	}
	if got := part.AttrValue("name"); got != "Grün" {
		t.Errorf("name = %q, want %q", got, "Grün")
	}
}
