// Package cache stores rendered document views keyed by their inputs.
//
// # Backends
//
//   - [NullCache]: never stores anything (--no-cache)
//   - [FileCache]: JSON envelopes under a directory, the CLI default
//   - [RedisCache]: a shared Redis server, for the HTTP API
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// [Open] picks a backend from [Options].
//
// # Keys
//
// A [Keyer] derives keys from the document bytes and every option that
// changes the output, plus the build version. Two renders with the same key
// produce identical bytes.
//
//	key := cache.NewDefaultKeyer().RenderKey(input, cache.RenderKeyOpts{Mode: "brief", Strict: true})
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/plmgraph/pkg/buildinfo"
)

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey returns the key for rendering input with opts.
	RenderKey(input []byte, opts RenderKeyOpts) string
}

// RenderKeyOpts holds every option that affects rendered output.
type RenderKeyOpts struct {
	Mode     string  `json:"mode"`
	Strict   bool    `json:"strict"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "render:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey hashes the document digest together with the options and the
// build version, so an upgraded binary never serves another build's output.
func (DefaultKeyer) RenderKey(input []byte, opts RenderKeyOpts) string {
	return hashKey("render", buildinfo.Version, Hash(input), opts)
}
