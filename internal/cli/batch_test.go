package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const minimalDoc = `<PLMXML><ProductDef><InstanceGraph rootRefs="p"><Part id="p"/></InstanceGraph></ProductDef></PLMXML>`

func TestExpandPatterns(t *testing.T) {
	h := newHarness(t)
	a := h.write("in/a.xml", minimalDoc)
	b := h.write("in/sub/b.xml", minimalDoc)
	h.write("in/notes.txt", "ignored")

	files, err := expandPatterns([]string{
		filepath.Join(h.dir, "in", "**", "*.xml"),
		filepath.Join(h.dir, "in", "a.xml"),
	})
	if err != nil {
		t.Fatalf("expandPatterns: %v", err)
	}
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("files = %v, want [%s %s]", files, a, b)
	}

	if _, err := expandPatterns([]string{"[unclosed"}); err == nil {
		t.Error("expected error for bad pattern")
	}
}

func TestBatchRendersAndReportsFailures(t *testing.T) {
	h := newHarness(t)
	h.write("in/a.xml", minimalDoc)
	h.write("in/sub/b.xml", minimalDoc)
	h.write("in/bad.xml", badTransform)
	outDir := filepath.Join(h.dir, "out")

	_, status, err := h.run("", "batch", "--no-cache", "-m", "brief", "-j", "2", "-d", outDir,
		filepath.Join(h.dir, "in", "**", "*.xml"))
	if err == nil || !strings.Contains(err.Error(), "1 of 3 documents failed") {
		t.Fatalf("expected one failure, got %v", err)
	}
	if !strings.Contains(status, "bad.xml") {
		t.Errorf("status should name the failing file: %q", status)
	}

	for _, name := range []string{"a.txt", "b.txt"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if want := "InstanceGraph: rootRefs=p\nPart: id=p"; strings.TrimSpace(string(data)) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "bad.txt")); !os.IsNotExist(err) {
		t.Error("failed document should not produce output")
	}
}

func TestBatchLenient(t *testing.T) {
	h := newHarness(t)
	h.write("in/bad.xml", badTransform)
	outDir := filepath.Join(h.dir, "out")

	if _, _, err := h.run("", "batch", "--no-cache", "--lenient", "-m", "dot", "-d", outDir,
		filepath.Join(h.dir, "in", "*.xml")); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "bad.dot")); err != nil {
		t.Errorf("expected bad.dot: %v", err)
	}
}

func TestBatchOutputCollision(t *testing.T) {
	h := newHarness(t)
	h.write("in/a.xml", minimalDoc)
	h.write("in/sub/a.xml", minimalDoc)

	_, _, err := h.run("", "batch", "--no-cache", "-d", filepath.Join(h.dir, "out"),
		filepath.Join(h.dir, "in", "**", "*.xml"))
	if err == nil || !strings.Contains(err.Error(), "would both be written") {
		t.Errorf("expected collision error, got %v", err)
	}
}

func TestBatchArguments(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no match", []string{"batch", filepath.Join(h.dir, "*.none")}, "no files match"},
		{"bad mode", []string{"batch", "-m", "xml", filepath.Join(h.dir, "*.xml")}, "invalid mode"},
		{"bad jobs", []string{"batch", "-j", "0", filepath.Join(h.dir, "*.xml")}, "--jobs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.run("", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestBatchModeFromConfig(t *testing.T) {
	h := newHarness(t)
	h.write("in/a.xml", minimalDoc)
	cfg := h.write("plmgraph.toml", "[render]\nmode = \"dot\"\n")
	outDir := filepath.Join(h.dir, "out")

	if _, _, err := h.run("", "--config", cfg, "batch", "--no-cache", "-d", outDir,
		filepath.Join(h.dir, "in", "*.xml")); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.dot")); err != nil {
		t.Errorf("expected a.dot from configured mode: %v", err)
	}

	if _, _, err := h.run("", "--config", cfg, "batch", "--no-cache", "-m", "brief", "-d", outDir,
		filepath.Join(h.dir, "in", "*.xml")); err != nil {
		t.Fatalf("batch -m brief: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.txt")); err != nil {
		t.Errorf("--mode should override config: %v", err)
	}
}
