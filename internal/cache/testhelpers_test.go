package cache

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	testCacheDir = "/hf/hub"
	testCommit   = "5f1c2d3e4b6a798011223344556677889900aabb"
)

// fixtureRepo describes one repository folder to seed into a test cache.
type fixtureRepo struct {
	repoID   string
	repoType RepoType
	refs     map[string]string // ref name -> commit
	files    map[string][]string
	noExist  map[string][]string
}

// cachedModel returns a model repo with "main" pointing at testCommit and the given files.
func cachedModel(repoID string, files ...string) fixtureRepo {
	return fixtureRepo{
		repoID:   repoID,
		repoType: RepoTypeModel,
		refs:     map[string]string{"main": testCommit},
		files:    map[string][]string{testCommit: files},
	}
}

// setupMemCache creates an in-memory hub cache seeded with repos.
func setupMemCache(t *testing.T, repos ...fixtureRepo) (*Cache, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, repo := range repos {
		seedRepo(t, fs, testCacheDir, repo)
	}
	return New(fs, testCacheDir, WithLogger(slog.New(slog.DiscardHandler))), fs
}

func seedRepo(t *testing.T, fs afero.Fs, root string, repo fixtureRepo) {
	t.Helper()
	repoType := repo.repoType
	if repoType == "" {
		repoType = RepoTypeModel
	}
	repoDir := filepath.Join(root, RepoFolderName(repo.repoID, repoType))
	require.NoError(t, fs.MkdirAll(filepath.Join(repoDir, "blobs"), 0o755))

	for ref, commit := range repo.refs {
		refPath := filepath.Join(repoDir, refsDir, filepath.FromSlash(ref))
		require.NoError(t, fs.MkdirAll(filepath.Dir(refPath), 0o755))
		require.NoError(t, afero.WriteFile(fs, refPath, []byte(commit), 0o644))
	}
	for commit, files := range repo.files {
		snapshot := filepath.Join(repoDir, snapshotsDir, commit)
		require.NoError(t, fs.MkdirAll(snapshot, 0o755))
		for _, name := range files {
			path := filepath.Join(snapshot, filepath.FromSlash(name))
			require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, afero.WriteFile(fs, path, []byte(`{"model_type":"llama"}`), 0o644))
		}
	}
	for commit, files := range repo.noExist {
		for _, name := range files {
			path := filepath.Join(repoDir, noExistDir, commit, filepath.FromSlash(name))
			require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, afero.WriteFile(fs, path, nil, 0o644))
		}
	}
}

// captureLogger returns a debug level text logger writing into a buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
