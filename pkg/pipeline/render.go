package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/observability"
	"github.com/matzehuels/plmgraph/pkg/plm"
	"github.com/matzehuels/plmgraph/pkg/render"
)

// Render produces the view of doc selected by mode with default options.
func Render(ctx context.Context, doc *plm.Document, mode string) ([]byte, error) {
	return RenderWithOptions(ctx, doc, Options{Mode: mode})
}

// RenderWithOptions produces the view of doc selected by opts.Mode.
func RenderWithOptions(ctx context.Context, doc *plm.Document, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document to render")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Mode)
	start := time.Now()

	out, err := renderMode(ctx, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Mode, len(out), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Mode, err)
	}
	return out, nil
}

func renderMode(ctx context.Context, doc *plm.Document, opts Options) ([]byte, error) {
	switch opts.Mode {
	case ModeStructural:
		return render.Structural(doc)
	case ModeBrief:
		return []byte(render.Brief(doc)), nil
	}

	dot := render.DOT(doc, render.DOTOptions{Detailed: opts.Detailed})
	if opts.Mode == ModeDOT {
		return []byte(dot), nil
	}

	svg, err := render.SVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch opts.Mode {
	case ModePDF:
		return render.ToPDF(ctx, svg)
	case ModePNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	}
	return svg, nil
}
