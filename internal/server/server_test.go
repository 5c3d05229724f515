package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/plmgraph/pkg/buildinfo"
	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/observability"
)

const badTransform = `<PLMXML><ProductDef><InstanceGraph rootRefs="i">` +
	`<Instance id="i"><Transform id="t">1 2 3</Transform></Instance>` +
	`</InstanceGraph></ProductDef></PLMXML>`

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.NewRegistry()
	}
	s := New(opts)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = s.Close()
	})
	return srv
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/assembly.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func post(t *testing.T, url string, body []byte) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/xml", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode error body %q: %v", data, err)
	}
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(data) != "ok\n" {
		t.Errorf("body = %q", data)
	}
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatalf("GET /version: %v", err)
	}
	defer resp.Body.Close()

	var info buildinfo.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info != buildinfo.Get() {
		t.Errorf("version = %+v, want %+v", info, buildinfo.Get())
	}
}

func TestRenderBrief(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, data := post(t, srv.URL+"/v1/render/brief", fixture(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Run-ID") == "" {
		t.Error("missing X-Run-ID")
	}
	if !strings.HasPrefix(string(data), "Header: author=alice\nInstanceGraph: rootRefs=p1\n") {
		t.Errorf("unexpected body:\n%s", data)
	}
}

func TestRenderStructuralAndDOT(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, data := post(t, srv.URL+"/v1/render/structural", fixture(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("structural: expected 200, got %d: %s", resp.StatusCode, data)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(data), "product_def:") {
		t.Errorf("structural output missing product_def:\n%s", data)
	}

	resp, data = post(t, srv.URL+"/v1/render/dot?detailed=true", fixture(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dot: expected 200, got %d: %s", resp.StatusCode, data)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output:\n%s", data)
	}
}

func TestRenderCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	srv := newTestServer(t, Options{Cache: fc})

	resp, first := post(t, srv.URL+"/v1/render/brief", fixture(t))
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	resp, second := post(t, srv.URL+"/v1/render/brief", fixture(t))
	if got := resp.Header.Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached output differs")
	}
	resp, _ = post(t, srv.URL+"/v1/render/brief?refresh=1", fixture(t))
	if got := resp.Header.Get("X-Cache"); got != "MISS" {
		t.Errorf("refresh X-Cache = %q, want MISS", got)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t, Options{MaxBody: 4096})

	tests := []struct {
		name   string
		path   string
		body   []byte
		status int
		code   errors.Code
	}{
		{"invalid mode", "/v1/render/xml", fixture(t), http.StatusBadRequest, errors.ErrCodeInvalidMode},
		{"empty body", "/v1/render/brief", nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"not markup", "/v1/render/brief", []byte("hello"), http.StatusUnprocessableEntity, errors.ErrCodeMalformedMarkup},
		{"unclosed", "/v1/render/brief", []byte("<PLMXML><ProductDef>"), http.StatusUnprocessableEntity, errors.ErrCodeMalformedMarkup},
		{"bad transform", "/v1/render/brief", []byte(badTransform), http.StatusUnprocessableEntity, errors.ErrCodeMalformedTransform},
		{"bad flag", "/v1/render/brief?lenient=maybe", fixture(t), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad scale", "/v1/render/png?scale=-1", fixture(t), http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "/v1/render/brief", bytes.Repeat([]byte("<"), 5000), http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, data)
			}
			if got := decodeError(t, data).Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestRenderLenient(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, data := post(t, srv.URL+"/v1/render/brief?lenient=true", []byte(badTransform))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, data)
	}
	if want := "InstanceGraph: rootRefs=i\nInstance: id=i\n  Transform: id=t"; string(data) != want {
		t.Errorf("body = %q, want %q", data, want)
	}

	lenient := newTestServer(t, Options{Lenient: true})
	if resp, data := post(t, lenient.URL+"/v1/render/brief", []byte(badTransform)); resp.StatusCode != http.StatusOK {
		t.Errorf("server default lenient: got %d: %s", resp.StatusCode, data)
	}
	if resp, _ := post(t, lenient.URL+"/v1/render/brief?lenient=false", []byte(badTransform)); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("explicit strict: got %d", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := newTestServer(t, Options{Gatherer: reg})
	post(t, srv.URL+"/v1/render/brief", fixture(t))
	post(t, srv.URL+"/v1/render/brief", []byte(badTransform))

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	text := string(data)

	for _, want := range []string{
		`plmgraph_http_requests_total{code="200",method="POST",route="/v1/render/{mode}"} 1`,
		`plmgraph_http_requests_total{code="422",method="POST",route="/v1/render/{mode}"} 1`,
		`plmgraph_renders_total{mode="brief",result="ok"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}
