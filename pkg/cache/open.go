package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string // none, file, redis or mongo; empty means file
	Dir      string // file backend directory; empty means DefaultDir()
	URL      string // redis or mongo connection URL
	Database string // mongo database
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		if opts.URL == "" {
			return nil, fmt.Errorf("redis cache: url is required")
		}
		rc, err := NewRedisCache(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendMongo:
		if opts.URL == "" || opts.Database == "" {
			return nil, fmt.Errorf("mongo cache: url and database are required")
		}
		mc, err := NewMongoCache(ctx, opts.URL, opts.Database)
		if err != nil {
			return nil, err
		}
		return mc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// DefaultDir returns the per-user cache directory for the file backend.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("user cache dir: %w", err)
	}
	return filepath.Join(base, "plmgraph"), nil
}
