package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/observability"
	"github.com/matzehuels/plmgraph/pkg/plm"
)

// Parse decodes data and runs the build, index and resolve phases in order.
// No Document is returned on error.
//
// Malformed transforms fail the document unless opts.Lenient is set. Duplicate
// identifiers are not an error; the later declaration wins and each overwrite
// is logged as a warning.
func Parse(ctx context.Context, data []byte, opts Options) (*plm.Document, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, err
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	doc, st, err := parse(data, opts)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Source, 0, elapsed, err)
		return nil, Stats{}, err
	}

	reg := doc.Registry()
	dups := reg.Duplicates()
	for _, id := range dups {
		logger.Warn("duplicate identifier, later declaration wins", "source", opts.Source, "id", id)
	}

	stats := Stats{
		Records:    reg.Len(),
		Duplicates: len(dups),
		References: st.Tokens,
		Resolved:   st.Resolved,
		Dropped:    st.Dropped,
		ParseTime:  elapsed,
	}
	hooks.OnParseComplete(ctx, opts.Source, stats.Records, elapsed, nil)
	hooks.OnResolve(ctx, st.Resolved, st.Dropped)

	logger.Debug("parsed document",
		"source", opts.Source,
		"records", stats.Records,
		"resolved", stats.Resolved,
		"dropped", stats.Dropped,
		"duration", elapsed)
	return doc, stats, nil
}

func parse(data []byte, opts Options) (*plm.Document, plm.ResolveStats, error) {
	if err := errors.ValidateDocument(data, opts.MaxSize); err != nil {
		return nil, plm.ResolveStats{}, err
	}
	build := plm.BuildOptions{
		Lenient: opts.Lenient,
		Warn: func(err error) {
			opts.Logger.Warn("malformed transform replaced by empty matrix", "source", opts.Source, "err", err)
		},
	}
	return plm.Parse(bytes.NewReader(data), build)
}

// ParseDocument parses and links a document. With strict set, a malformed
// Transform fails the parse; otherwise it is replaced by an empty matrix.
func ParseDocument(data []byte, strict bool) (*plm.Document, error) {
	doc, _, err := Parse(context.Background(), data, Options{Lenient: !strict})
	return doc, err
}
