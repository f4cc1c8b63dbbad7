package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables honored when locating the hub cache.
const (
	EnvHubCache       = "HF_HUB_CACHE"
	EnvLegacyHubCache = "HUGGINGFACE_HUB_CACHE"
	EnvHome           = "HF_HOME"
	EnvXDGCacheHome   = "XDG_CACHE_HOME"
)

// userHomeDir allows mocking os.UserHomeDir in tests.
var userHomeDir = os.UserHomeDir

// ResolveDir locates the hub cache root. Environment variables win over
// fallback, and fallback wins over the built-in ~/.cache/huggingface/hub.
// Empty variables count as unset.
func ResolveDir(fallback string) (string, error) {
	if dir := os.Getenv(EnvHubCache); dir != "" {
		return ExpandPath(dir)
	}
	if dir := os.Getenv(EnvLegacyHubCache); dir != "" {
		Logger().Warn("environment variable is deprecated, use "+EnvHubCache+" instead",
			"name", EnvLegacyHubCache)
		return ExpandPath(dir)
	}
	if home := os.Getenv(EnvHome); home != "" {
		home, err := ExpandPath(home)
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "hub"), nil
	}
	if fallback != "" {
		return ExpandPath(fallback)
	}

	base := os.Getenv(EnvXDGCacheHome)
	if base == "" {
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("detecting user home directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	base, err := ExpandPath(base)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "huggingface", "hub"), nil
}

// ExpandPath expands $VAR references and a leading "~" in p.
func ExpandPath(p string) (string, error) {
	p = os.ExpandEnv(p)
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	return filepath.Join(home, p[1:]), nil
}
