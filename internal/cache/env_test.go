package cache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearHubEnv unsets every variable ResolveDir reads and pins the home directory.
func clearHubEnv(t *testing.T, home string) {
	t.Helper()
	for _, name := range []string{EnvHubCache, EnvLegacyHubCache, EnvHome, EnvXDGCacheHome} {
		t.Setenv(name, "")
	}
	original := userHomeDir
	userHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDir = original })
}

func TestResolveDir(t *testing.T) {
	home := filepath.FromSlash("/home/tester")

	tests := []struct {
		name     string
		env      map[string]string
		fallback string
		want     string
	}{
		{
			name: "built-in default",
			want: filepath.Join(home, ".cache", "huggingface", "hub"),
		},
		{
			name: "XDG cache home",
			env:  map[string]string{EnvXDGCacheHome: "/xdg"},
			want: filepath.Join("/xdg", "huggingface", "hub"),
		},
		{
			name: "HF_HOME",
			env:  map[string]string{EnvHome: "/data/hf", EnvXDGCacheHome: "/xdg"},
			want: filepath.Join("/data/hf", "hub"),
		},
		{
			name: "legacy hub cache",
			env:  map[string]string{EnvLegacyHubCache: "/legacy", EnvHome: "/data/hf"},
			want: "/legacy",
		},
		{
			name: "HF_HUB_CACHE wins",
			env:  map[string]string{EnvHubCache: "/fast/hub", EnvLegacyHubCache: "/legacy", EnvHome: "/data/hf"},
			want: "/fast/hub",
		},
		{
			name:     "fallback beats default",
			fallback: "/configured/hub",
			want:     "/configured/hub",
		},
		{
			name:     "environment beats fallback",
			env:      map[string]string{EnvHome: "/data/hf"},
			fallback: "/configured/hub",
			want:     filepath.Join("/data/hf", "hub"),
		},
		{
			name: "tilde expansion",
			env:  map[string]string{EnvHubCache: "~/models"},
			want: filepath.Join(home, "models"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearHubEnv(t, home)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := ResolveDir(tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDir_LegacyVariableWarns(t *testing.T) {
	clearHubEnv(t, "/home/tester")
	t.Setenv(EnvLegacyHubCache, "/legacy")

	logger, buf := captureLogger()
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(defaultLogger) })

	_, err := ResolveDir("")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "deprecated")
	assert.Contains(t, buf.String(), EnvLegacyHubCache)
}

func TestResolveDir_NoHome(t *testing.T) {
	clearHubEnv(t, "")
	userHomeDir = func() (string, error) { return "", errors.New("$HOME is not defined") }

	_, err := ResolveDir("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home directory")
}

func TestExpandPath(t *testing.T) {
	clearHubEnv(t, "/home/tester")
	t.Setenv("MODEL_ROOT", "/srv/models")

	tests := map[string]string{
		"~":                 filepath.FromSlash("/home/tester"),
		"~/hub":             filepath.Join("/home/tester", "hub"),
		"$MODEL_ROOT/hub":   "/srv/models/hub",
		"/abs/path":         "/abs/path",
		"relative/path":     "relative/path",
		"~other/not-a-home": "~other/not-a-home",
	}
	for in, want := range tests {
		got, err := ExpandPath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
