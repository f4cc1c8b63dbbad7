package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/xynehq/gpu-scripts/internal/cache"
)

const (
	testHubDir = "/hf/hub"
	testCommit = "0a1b2c3d4e5f60718293a4b5c6d7e8f901234567"
)

// MockCacheLookup implements interfaces.CacheLookup for testing
type MockCacheLookup struct {
	location cache.Location
	err      error
	calls    []string
}

func (m *MockCacheLookup) TryToLoad(repoID, filename string, opts ...cache.LookupOption) (cache.Location, error) {
	m.calls = append(m.calls, repoID+":"+filename)
	return m.location, m.err
}

// executeRoot runs the root command with args and returns the exit status and captured output.
func executeRoot(t *testing.T, fs afero.Fs, args []string, opts ...RootOption) (int, string, string) {
	t.Helper()
	t.Cleanup(func() {
		cache.EnableDefaultHandler()
		cache.EnableProgressBars()
	})

	cmd := newRootCommand(fs, opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	code := run(cmd, args)
	return code, stdout.String(), stderr.String()
}

// seedCachedRepo writes a hub cache entry for repoID with "main" pointing at testCommit.
func seedCachedRepo(t *testing.T, fs afero.Fs, root, folder string, files ...string) {
	t.Helper()
	repoDir := filepath.Join(root, folder)
	if err := fs.MkdirAll(filepath.Join(repoDir, "refs"), 0755); err != nil {
		t.Fatalf("Failed to create refs: %v", err)
	}
	if err := afero.WriteFile(fs, filepath.Join(repoDir, "refs", "main"), []byte(testCommit), 0644); err != nil {
		t.Fatalf("Failed to write ref: %v", err)
	}
	snapshot := filepath.Join(repoDir, "snapshots", testCommit)
	if err := fs.MkdirAll(snapshot, 0755); err != nil {
		t.Fatalf("Failed to create snapshot: %v", err)
	}
	for _, name := range files {
		path := filepath.Join(snapshot, filepath.FromSlash(name))
		if err := afero.WriteFile(fs, path, []byte(`{"architectures":["LlamaForCausalLM"]}`), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

// clearHubEnv makes sure the developer's HF_* variables do not leak into a test.
func clearHubEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{cache.EnvHubCache, cache.EnvLegacyHubCache, cache.EnvHome, cache.EnvXDGCacheHome} {
		t.Setenv(name, "")
	}
}
