package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/xynehq/gpu-scripts/internal/cache"
	apperrors "github.com/xynehq/gpu-scripts/internal/errors"
	"github.com/xynehq/gpu-scripts/internal/interfaces"
	"github.com/xynehq/gpu-scripts/pkg/config"
)

// lookupSettings is the resolved input of a single cache check
type lookupSettings struct {
	filename string
	revision string
	repoType cache.RepoType
	cacheDir string
}

// resolveSettings merges configuration files with command-line flags.
// Flags win over the project file, which wins over the global file and defaults.
// The filename comes only from --filename. A configuration file that cannot be
// loaded is reported on stderr and ignored.
func resolveSettings(fs afero.Fs, stderr io.Writer, flags *rootFlags) (lookupSettings, error) {
	filename := config.DefaultFilename
	if flags.filename != "" {
		if err := config.ValidateFilename(flags.filename); err != nil {
			if apperrors.IsValidation(err) {
				return lookupSettings{}, apperrors.NewUsageError("--filename: %v", err)
			}
			return lookupSettings{}, err
		}
		filename = flags.filename
	}

	settings, err := config.LoadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: ignoring configuration: %v\n", err)
		settings = config.Default()
	}
	settings.Merge(config.Config{
		Revision: flags.revision,
		RepoType: flags.repoType,
	})

	repoType, err := cache.ParseRepoType(settings.RepoType)
	if err != nil {
		return lookupSettings{}, apperrors.NewUsageError("%v", err)
	}

	return lookupSettings{
		filename: filename,
		revision: settings.Revision,
		repoType: repoType,
		cacheDir: settings.CacheDir,
	}, nil
}

// setupCacheLookup returns lookup if set, otherwise a read-only cache rooted at
// flagDir, the HF_* environment, configDir or the default location, in that order.
func setupCacheLookup(fs afero.Fs, lookup interfaces.CacheLookup, flagDir, configDir string) (interfaces.CacheLookup, error) {
	if lookup != nil {
		return lookup, nil
	}

	var (
		dir string
		err error
	)
	if flagDir != "" {
		dir, err = cache.ExpandPath(flagDir)
	} else {
		dir, err = cache.ResolveDir(configDir)
	}
	if err != nil {
		return nil, apperrors.NewCommandError("resolve cache directory", err)
	}
	return cache.New(fs, dir), nil
}
