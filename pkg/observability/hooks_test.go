package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "assembly.xml")
	p.OnParseComplete(ctx, "assembly.xml", 8, time.Second, nil)
	p.OnResolve(ctx, 6, 2)
	p.OnRenderStart(ctx, "brief")
	p.OnRenderComplete(ctx, "brief", 512, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/render/{mode}")
	h.OnResponse(ctx, "POST", "/v1/render/{mode}", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)

	h.OnParseComplete(ctx, "a.xml", 8, time.Millisecond, nil)
	h.OnParseComplete(ctx, "b.xml", 0, time.Millisecond, errors.New("bad markup"))
	h.OnResolve(ctx, 6, 2)
	h.OnRenderComplete(ctx, "brief", 400, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "render")
	h.OnCacheSet(ctx, "render", 400)
	h.OnCacheHit(ctx, "render")
	h.OnCacheHit(ctx, "render")
	h.OnResponse(ctx, "POST", "/v1/render/{mode}", 422, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"parsed ok", testutil.ToFloat64(h.documents.WithLabelValues("ok")), 1},
		{"parsed error", testutil.ToFloat64(h.documents.WithLabelValues("error")), 1},
		{"resolved", testutil.ToFloat64(h.references.WithLabelValues("resolved")), 6},
		{"dropped", testutil.ToFloat64(h.references.WithLabelValues("dropped")), 2},
		{"renders", testutil.ToFloat64(h.renders.WithLabelValues("brief", "ok")), 1},
		{"cache hits", testutil.ToFloat64(h.cacheEvents.WithLabelValues("render", "hit")), 2},
		{"cache misses", testutil.ToFloat64(h.cacheEvents.WithLabelValues("render", "miss")), 1},
		{"requests", testutil.ToFloat64(h.requests.WithLabelValues("POST", "/v1/render/{mode}", "422")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if n := testutil.CollectAndCount(h.parseDuration); n != 1 {
		t.Errorf("parse duration collectors = %d, want 1", n)
	}
}

func TestPrometheusHooksDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice should panic")
		}
	}()
	NewPrometheusHooks(reg)
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
