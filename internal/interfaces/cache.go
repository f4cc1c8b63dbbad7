// Package interfaces provides shared interfaces for dependency injection across commands.
package interfaces

import "github.com/xynehq/gpu-scripts/internal/cache"

// CacheLookup resolves a repository file to its location in the local hub cache.
// A file that is not cached is reported through Location.Found, not an error.
type CacheLookup interface {
	TryToLoad(repoID, filename string, opts ...cache.LookupOption) (cache.Location, error)
}
