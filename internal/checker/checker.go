// Package checker answers whether a hub repository's metadata file is
// already present in the local cache.
package checker

import (
	"github.com/xynehq/gpu-scripts/internal/cache"
	apperrors "github.com/xynehq/gpu-scripts/internal/errors"
	"github.com/xynehq/gpu-scripts/internal/interfaces"
	"github.com/xynehq/gpu-scripts/pkg/config"
)

// Checker reports cache presence through a CacheLookup. It holds no state
// between calls, so repeated checks against an unchanged cache agree.
type Checker struct {
	lookup     interfaces.CacheLookup
	lookupOpts []cache.LookupOption
}

// Option configures the checker.
type Option func(*Checker)

// WithRevision checks the file at a branch, tag or commit hash.
func WithRevision(revision string) Option {
	return func(c *Checker) {
		c.lookupOpts = append(c.lookupOpts, cache.WithRevision(revision))
	}
}

// WithRepoType checks a dataset or space instead of a model.
func WithRepoType(t cache.RepoType) Option {
	return func(c *Checker) {
		c.lookupOpts = append(c.lookupOpts, cache.WithRepoType(t))
	}
}

// New creates a checker backed by lookup.
func New(lookup interfaces.CacheLookup, opts ...Option) *Checker {
	c := &Checker{lookup: lookup}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsCached reports whether filename of repoID is materialized in the cache.
// An empty filename means config.DefaultFilename. Errors come only from a
// cache that cannot be read; a missing file is (false, nil).
func (c *Checker) IsCached(repoID, filename string) (bool, error) {
	loc, err := c.Locate(repoID, filename)
	if err != nil {
		return false, err
	}
	return loc.Found(), nil
}

// Locate is IsCached returning the full lookup result.
func (c *Checker) Locate(repoID, filename string) (cache.Location, error) {
	if filename == "" {
		filename = config.DefaultFilename
	}
	loc, err := c.lookup.TryToLoad(repoID, filename, c.lookupOpts...)
	if err != nil {
		return cache.Location{}, apperrors.NewCommandError("look up cache", err, repoID)
	}
	return loc, nil
}
