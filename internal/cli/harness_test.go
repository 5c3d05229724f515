package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

const badTransform = `<PLMXML><ProductDef><InstanceGraph rootRefs="i">` +
	`<Instance id="i"><Transform id="t">1 2 3</Transform></Instance>` +
	`</InstanceGraph></ProductDef></PLMXML>`

// harness runs the root command against an isolated config and cache.
type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return &harness{t: t, dir: t.TempDir()}
}

// run executes args and returns stdout and the status lines.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var out, status, logs bytes.Buffer

	prev := uiOut
	uiOut = &status
	defer func() { uiOut = prev }()

	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), status.String(), err
}

// write creates a file under the harness directory and returns its path.
func (h *harness) write(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.t.Fatal(err)
	}
	return path
}

func (h *harness) fixture() string {
	h.t.Helper()
	data, err := os.ReadFile("testdata/assembly.xml")
	if err != nil {
		h.t.Fatal(err)
	}
	return h.write("assembly.xml", string(data))
}

func pipelineStats(records, resolved, dropped, dups int) pipeline.Stats {
	return pipeline.Stats{Records: records, Resolved: resolved, Dropped: dropped, Duplicates: dups}
}
