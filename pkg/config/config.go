// Package config provides centralized configuration constants, defaults, and
// configuration file management for the check-model-cached CLI tool.
//
// The package supports a hierarchical configuration system with the following precedence:
//  1. Project-level configuration: .check-model-cached.yaml
//  2. Global configuration: ~/.config/check-model-cached/config.yaml
//  3. Built-in defaults
//
// Configuration files use YAML format and support the following fields:
//   - revision: branch, tag or commit hash to look up
//   - repo_type: one of model, dataset, space
//   - cache_dir: hub cache root used when no HF_* environment variable is set
//
// Example configuration file:
//
//	revision: main
//	cache_dir: /mnt/models/huggingface/hub
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/xynehq/gpu-scripts/internal/cache"
	apperrors "github.com/xynehq/gpu-scripts/internal/errors"
)

// userConfigDir allows mocking os.UserConfigDir in tests.
var userConfigDir = os.UserConfigDir

const (
	// AppName names the configuration directory and the binary.
	AppName = "check-model-cached"

	// DefaultFilename is the repository metadata file checked when --filename is not given.
	// Configuration files cannot change it.
	DefaultFilename = "config.json"

	// ProjectConfigFile is the project-level configuration file name.
	ProjectConfigFile = ".check-model-cached.yaml"
)

// Config represents the configuration structure for check-model-cached.
type Config struct {
	// Revision is the branch, tag or commit hash to look up.
	Revision string `yaml:"revision"`

	// RepoType selects models, datasets or spaces.
	RepoType string `yaml:"repo_type"`

	// CacheDir overrides the built-in hub cache location. HF_HUB_CACHE,
	// HUGGINGFACE_HUB_CACHE and HF_HOME still take precedence.
	CacheDir string `yaml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Revision: cache.DefaultRevision,
		RepoType: string(cache.RepoTypeModel),
	}
}

// Load reads a configuration file from the filesystem and unmarshals it into the Config struct.
// It uses the provided afero.Fs for filesystem operations to support testing with mock filesystems.
//
// Returns an error if:
//   - The file cannot be read
//   - The YAML content is malformed
//   - The configuration values fail validation
func (c *Config) Load(fs afero.Fs, configPath string) error {
	data, err := afero.ReadFile(fs, configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", configPath, err)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %q: %w", configPath, err)
	}

	return nil
}

// Merge overlays the non-empty fields of other onto this Config.
func (c *Config) Merge(other Config) {
	if other.Revision != "" {
		c.Revision = other.Revision
	}
	if other.RepoType != "" {
		c.RepoType = other.RepoType
	}
	if other.CacheDir != "" {
		c.CacheDir = other.CacheDir
	}
}

// Validate checks if the configuration values are valid. Empty fields are
// allowed and fall back to defaults.
func (c *Config) Validate() error {
	if _, err := cache.ParseRepoType(c.RepoType); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if c.Revision != "" && strings.TrimSpace(c.Revision) != c.Revision {
		return fmt.Errorf("%w: revision %q must not have surrounding whitespace", apperrors.ErrValidation, c.Revision)
	}

	return nil
}

// ValidateFilename checks that name is a relative, '/' separated path inside a repository.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: filename must not be empty", apperrors.ErrValidation)
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: filename %q must be relative to the repository root", apperrors.ErrValidation, name)
	}
	for _, elem := range strings.Split(name, "/") {
		if elem == ".." {
			return fmt.Errorf("%w: filename %q must not contain '..'", apperrors.ErrValidation, name)
		}
	}
	return nil
}

// FindConfigFiles locates project and global configuration files.
// The project-level path is relative to the filesystem's current working directory.
// The global-level path lives under os.UserConfigDir.
//
// Returns:
//   - projectPath: path to project-level config file, empty string if not found
//   - globalPath: path to global config file, empty string if not found
//   - error: any error encountered during file system operations
func FindConfigFiles(fs afero.Fs) (projectPath, globalPath string, err error) {
	if exists, err := afero.Exists(fs, ProjectConfigFile); err != nil {
		return "", "", fmt.Errorf("failed to check project config existence: %w", err)
	} else if exists {
		projectPath = ProjectConfigFile
	}

	configDir, err := userConfigDir()
	if err != nil {
		// No user config dir means no global config; not fatal.
		return projectPath, "", nil
	}

	globalConfigPath := filepath.Join(configDir, AppName, "config.yaml")
	if exists, err := afero.Exists(fs, globalConfigPath); err != nil {
		return projectPath, "", fmt.Errorf("failed to check global config at %q: %w", globalConfigPath, err)
	} else if exists {
		globalPath = globalConfigPath
	}

	return projectPath, globalPath, nil
}

// LoadConfig loads and merges configuration from project and global config files with fallback to defaults.
// Project config overrides global config, both override built-in defaults.
// If no config files exist, built-in defaults are used.
func LoadConfig(fs afero.Fs) (Config, error) {
	config := Default()

	projectPath, globalPath, err := FindConfigFiles(fs)
	if err != nil {
		return Config{}, fmt.Errorf("failed to locate config files: %w", err)
	}

	if globalPath != "" {
		var globalConfig Config
		if err := globalConfig.Load(fs, globalPath); err != nil {
			return Config{}, fmt.Errorf("failed to load global config: %w", err)
		}
		config.Merge(globalConfig)
	}

	if projectPath != "" {
		var projectConfig Config
		if err := projectConfig.Load(fs, projectPath); err != nil {
			return Config{}, fmt.Errorf("failed to load project config: %w", err)
		}
		config.Merge(projectConfig)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("merged configuration is invalid: %w", err)
	}

	return config, nil
}
