// Package cache resolves files inside the local Hugging Face hub cache.
//
// Lookups are read-only and never touch the network. A file that is not
// present is reported as a Location without a Path, not as an error; errors
// are reserved for a cache that exists but cannot be read.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"

	apperrors "github.com/xynehq/gpu-scripts/internal/errors"
)

// Cache errors
var (
	// ErrInvalidRepoID indicates the repository identifier is malformed
	ErrInvalidRepoID = errors.New("invalid repo id")
	// ErrInvalidRepoType indicates an unsupported repository type
	ErrInvalidRepoType = errors.New("invalid repo type")
)

// Location is the result of a cache lookup.
type Location struct {
	// Path is the materialized file, empty when the file is not cached.
	Path string
	// Revision is the commit hash the requested revision resolved to.
	Revision string
	// NoExist is set when the cache records the file as absent upstream.
	NoExist bool
}

// Found reports whether the lookup produced a concrete local path.
func (l Location) Found() bool {
	return l.Path != ""
}

// Cache looks up files in a hub cache rooted at a directory.
type Cache struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

// Option configures the cache.
type Option func(*Cache)

// WithLogger sets the logger for this cache instead of the process-wide one.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// New creates a cache reading from dir through fs. Nothing is created on disk.
func New(fs afero.Fs, dir string, opts ...Option) *Cache {
	c := &Cache{
		fs:  fs,
		dir: filepath.Clean(dir),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

type lookupConfig struct {
	revision string
	repoType RepoType
}

// LookupOption configures a single lookup.
type LookupOption func(*lookupConfig)

// WithRevision looks the file up at a branch, tag or commit hash. Empty means main.
func WithRevision(revision string) LookupOption {
	return func(lc *lookupConfig) {
		if revision != "" {
			lc.revision = revision
		}
	}
}

// WithRepoType selects the repository kind. Empty means model.
func WithRepoType(t RepoType) LookupOption {
	return func(lc *lookupConfig) {
		if t != "" {
			lc.repoType = t
		}
	}
}

// TryToLoad returns where filename of repoID is materialized in the cache.
// A miss, including a missing cache directory or a malformed repoID, yields
// a Location with an empty Path and a nil error.
func (c *Cache) TryToLoad(repoID, filename string, opts ...LookupOption) (Location, error) {
	lc := lookupConfig{revision: DefaultRevision, repoType: RepoTypeModel}
	for _, opt := range opts {
		opt(&lc)
	}
	if _, err := ParseRepoType(string(lc.repoType)); err != nil {
		return Location{}, err
	}

	log := c.log().With("repo_id", repoID, "filename", filename)

	if err := ValidateRepoID(repoID); err != nil {
		log.Warn("treating malformed repository identifier as not cached", "error", err)
		return Location{}, nil
	}
	relFile, ok := localPath(filename)
	if !ok {
		log.Warn("treating filename outside the snapshot as not cached")
		return Location{}, nil
	}

	repoDir := filepath.Join(c.dir, RepoFolderName(repoID, lc.repoType))
	isRepoDir, err := c.isDir(repoDir)
	if err != nil {
		return Location{}, err
	}
	if !isRepoDir {
		log.Debug("repository not in cache", "dir", repoDir)
		return Location{}, nil
	}

	revision, err := c.resolveRevision(repoDir, lc.revision)
	if err != nil {
		return Location{}, err
	}
	relRevision, ok := localPath(revision)
	if !ok {
		log.Warn("treating unusable revision as not cached", "revision", revision)
		return Location{}, nil
	}

	noExist, err := c.isFile(filepath.Join(repoDir, noExistDir, relRevision, relFile))
	if err != nil {
		return Location{}, err
	}
	if noExist {
		log.Debug("file recorded as absent upstream", "revision", revision)
		return Location{Revision: revision, NoExist: true}, nil
	}

	hasSnapshot, err := c.hasSnapshot(repoDir, revision)
	if err != nil {
		return Location{}, err
	}
	if !hasSnapshot {
		log.Debug("revision not in cache", "revision", revision)
		return Location{}, nil
	}

	cached := filepath.Join(repoDir, snapshotsDir, relRevision, relFile)
	isCached, err := c.isFile(cached)
	if err != nil {
		return Location{}, err
	}
	if !isCached {
		log.Debug("file not in snapshot", "revision", revision)
		return Location{Revision: revision}, nil
	}
	return Location{Path: cached, Revision: revision}, nil
}

// resolveRevision maps a ref name to the commit hash stored under refs/.
// Revisions without a ref file are returned unchanged.
func (c *Cache) resolveRevision(repoDir, revision string) (string, error) {
	rel, ok := localPath(revision)
	if !ok {
		return revision, nil
	}
	refFile := filepath.Join(repoDir, refsDir, rel)
	isRef, err := c.isFile(refFile)
	if err != nil || !isRef {
		return revision, err
	}
	data, err := afero.ReadFile(c.fs, refFile)
	if err != nil {
		return "", fsError("read ref", refFile, err)
	}
	if commit := strings.TrimSpace(string(data)); commit != "" {
		return commit, nil
	}
	return revision, nil
}

// hasSnapshot reports whether snapshots/ lists revision as an entry.
func (c *Cache) hasSnapshot(repoDir, revision string) (bool, error) {
	dir := filepath.Join(repoDir, snapshotsDir)
	entries, err := afero.ReadDir(c.fs, dir)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, fsError("list snapshots", dir, err)
	}
	for _, entry := range entries {
		if entry.Name() == revision {
			return true, nil
		}
	}
	return false, nil
}

func (c *Cache) isDir(path string) (bool, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, fsError("stat", path, err)
	}
	return info.IsDir(), nil
}

// isFile follows symlinks, so a snapshot link whose blob is gone is not a file.
func (c *Cache) isFile(path string) (bool, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, fsError("stat", path, err)
	}
	return info.Mode().IsRegular(), nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func fsError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", apperrors.ErrFileSystem, op, path, err)
}
