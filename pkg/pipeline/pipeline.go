// Package pipeline runs the PLMXML document pipeline for every entry point.
//
// The CLI, the batch command and the HTTP API all go through this package so
// that parsing, caching and rendering behave the same everywhere.
//
// # Stages
//
//  1. Parse: decode the markup, build typed records, index identifiers and
//     resolve references ([Parse])
//  2. Render: produce one view of the linked document ([Render])
//
// Each document is processed by one goroutine with its own registry and
// visited set; independent documents may run concurrently.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, data, pipeline.Options{Mode: pipeline.ModeBrief})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
//
// The two engine entry points are also available without a Runner:
//
//	doc, err := pipeline.ParseDocument(data, true)
//	out, err := pipeline.Render(ctx, doc, pipeline.ModeStructural)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plmgraph/pkg/cache"
	"github.com/matzehuels/plmgraph/pkg/errors"
	"github.com/matzehuels/plmgraph/pkg/plm"
)

// Render modes.
const (
	ModeStructural = "structural"
	ModeBrief      = "brief"
	ModeDOT        = "dot"
	ModeSVG        = "svg"
	ModePDF        = "pdf"
	ModePNG        = "png"
)

// Defaults shared by the CLI, the API and the config file.
const (
	DefaultMode     = ModeBrief
	DefaultPNGScale = 2.0
	DefaultCacheTTL = 24 * time.Hour
)

// ValidModes is the set of supported render modes.
var ValidModes = map[string]bool{
	ModeStructural: true,
	ModeBrief:      true,
	ModeDOT:        true,
	ModeSVG:        true,
	ModePDF:        true,
	ModePNG:        true,
}

// contentTypes maps each mode to the media type of its output.
var contentTypes = map[string]string{
	ModeStructural: "application/yaml",
	ModeBrief:      "text/plain; charset=utf-8",
	ModeDOT:        "text/vnd.graphviz",
	ModeSVG:        "image/svg+xml",
	ModePDF:        "application/pdf",
	ModePNG:        "image/png",
}

// ValidateMode checks that mode is a supported render mode.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode,
			"invalid mode: %q (must be one of: structural, brief, dot, svg, pdf, png)", mode)
	}
	return nil
}

// ContentType returns the media type of output rendered in mode.
func ContentType(mode string) string {
	if ct, ok := contentTypes[mode]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Options configures one pipeline run.
type Options struct {
	// Mode selects the rendered view. Defaults to DefaultMode.
	Mode string `json:"mode,omitempty"`

	// Lenient replaces a malformed Transform with an empty matrix and logs a
	// warning instead of failing the document.
	Lenient bool `json:"lenient,omitempty"`

	// Detailed adds record attributes to graph node labels.
	Detailed bool `json:"detailed,omitempty"`

	// Scale is the PNG resolution factor. Defaults to DefaultPNGScale.
	Scale float64 `json:"scale,omitempty"`

	// MaxSize rejects larger documents when positive.
	MaxSize int `json:"max_size,omitempty"`

	// Refresh bypasses cached output and overwrites it.
	Refresh bool `json:"refresh,omitempty"`

	// Source names the document in logs and hooks (usually a file path).
	Source string `json:"-"`

	// Logger receives warnings. Defaults to a discard logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the mode and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Source == "" {
		o.Source = "-"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Strict reports whether malformed transforms fail the document.
func (o *Options) Strict() bool {
	return !o.Lenient
}

// RenderKeyOpts returns the cache key options for this run.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	opts := cache.RenderKeyOpts{
		Mode:     o.Mode,
		Strict:   o.Strict(),
		Detailed: o.Detailed,
	}
	if o.Mode == ModePNG {
		opts.Scale = o.Scale
	}
	return opts
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Document is the linked document. It is nil when Output came from cache.
	Document *plm.Document

	// Output is the rendered view.
	Output []byte

	// Stats contains counts and timings.
	Stats Stats

	// CacheHit reports whether Output was served from cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int // distinct registered identifiers
	Duplicates int // identifiers declared more than once
	References int // reference tokens seen by the resolver
	Resolved   int
	Dropped    int
	ParseTime  time.Duration
	RenderTime time.Duration
}
