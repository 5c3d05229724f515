package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/plmgraph/pkg/buildinfo"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/observability"
	"github.com/matzehuels/plmgraph/pkg/pipeline"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	if err := pipeline.ValidateMode(mode); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts := pipeline.Options{
		Mode:    mode,
		Lenient: s.lenient,
		MaxSize: s.maxBody,
		Source:  "request:" + middleware.GetReqID(r.Context()),
	}
	q := r.URL.Query()
	var err error
	if opts.Lenient, err = boolParam(q.Get("lenient"), s.lenient); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "lenient"))
		return
	}
	if opts.Detailed, err = boolParam(q.Get("detailed"), false); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "detailed"))
		return
	}
	if opts.Refresh, err = boolParam(q.Get("refresh"), false); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "refresh"))
		return
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil || opts.Scale <= 0 {
			writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "scale: %q is not a positive number", v))
			return
		}
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, int64(s.maxBody)+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	if len(data) > s.maxBody {
		writeError(w, http.StatusRequestEntityTooLarge,
			errors.New(errors.ErrCodeInvalidInput, "document too large (max %d bytes)", s.maxBody))
		return
	}

	result, err := s.runner.Execute(r.Context(), data, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(mode))
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Cache", cacheHeader(result.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Output)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// instrument reports every request to the HTTP hooks, labelled by route
// pattern so that path parameters do not explode metric cardinality.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func statusFor(err error) int {
	switch {
	case errors.IsDocumentError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeInvalidInput), errors.Is(err, errors.ErrCodeInvalidMode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func boolParam(v string, def bool) (bool, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
