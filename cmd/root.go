package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/xynehq/gpu-scripts/internal/cache"
	"github.com/xynehq/gpu-scripts/internal/checker"
	apperrors "github.com/xynehq/gpu-scripts/internal/errors"
	"github.com/xynehq/gpu-scripts/internal/interfaces"
	"github.com/xynehq/gpu-scripts/pkg/config"
)

// RootOption configures the root command
type RootOption func(*rootConfig)

// rootConfig holds injectable dependencies for the root command
type rootConfig struct {
	cacheLookup interfaces.CacheLookup
}

// WithCacheLookup sets a custom cache lookup for testing
func WithCacheLookup(lookup interfaces.CacheLookup) RootOption {
	return func(config *rootConfig) {
		config.cacheLookup = lookup
	}
}

// rootFlags holds the values of the optional command-line flags
type rootFlags struct {
	filename string
	revision string
	repoType string
	cacheDir string
	verbose  bool
}

// newRootCommand creates the check-model-cached command
func newRootCommand(fs afero.Fs, opts ...RootOption) *cobra.Command {
	cfg := &rootConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "check-model-cached <repo_id>",
		Short: "Check if a Hugging Face model is cached locally",
		Long: `check-model-cached reports whether a Hugging Face repository's config.json
is already present in the local hub cache. It never touches the network.

Exit status:
  0  the file is cached
  1  the file is not cached
  2  invalid command line
  3  the cache could not be read

The cache location follows HF_HUB_CACHE, HF_HOME and XDG_CACHE_HOME like the
huggingface_hub library does.`,
		Example: `  check-model-cached meta-llama/Llama-2-7b-hf
  check-model-cached --revision v1.0 --filename tokenizer.json org/model`,
		Version:       config.GetVersion(),
		Args:          requireRepoID,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRootCommand(cmd, fs, cfg, flags, args[0])
		},
	}
	cmd.SetVersionTemplate(config.GetFullVersion() + "\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewUsageError("%v", err)
	})

	f := cmd.Flags()
	f.StringVar(&flags.filename, "filename", "", `repository file to look for (default "config.json")`)
	f.StringVar(&flags.revision, "revision", "", `branch, tag or commit hash (default "main")`)
	f.StringVar(&flags.repoType, "repo-type", "", `repository type: model, dataset or space (default "model")`)
	f.StringVar(&flags.cacheDir, "cache-dir", "", "hub cache directory, overrides HF_HUB_CACHE and HF_HOME")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "print the result")

	return cmd
}

// requireRepoID accepts exactly one positional argument
func requireRepoID(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return errMissingRepoID
	case len(args) > 1:
		return apperrors.NewUsageError("unrecognized arguments: %s", strings.Join(args[1:], " "))
	}
	return nil
}

var errMissingRepoID = apperrors.NewUsageError("the following arguments are required: repo_id")

// runRootCommand executes the cache check and encodes the answer as an ExitError
func runRootCommand(cmd *cobra.Command, fs afero.Fs, cfg *rootConfig, flags *rootFlags, repoID string) error {
	settings, err := resolveSettings(fs, cmd.ErrOrStderr(), flags)
	if err != nil {
		return err
	}

	lookup, err := setupCacheLookup(fs, cfg.cacheLookup, flags.cacheDir, settings.cacheDir)
	if err != nil {
		return err
	}

	chk := checker.New(lookup, checker.WithRevision(settings.revision), checker.WithRepoType(settings.repoType))
	cached, err := chk.IsCached(repoID, settings.filename)
	if err != nil {
		return err
	}

	if flags.verbose {
		renderResult(cmd, repoID, settings.filename, cached)
	}
	if !cached {
		return apperrors.NewExitError(apperrors.ExitNotCached, nil)
	}
	return nil
}

// renderResult prints a one-line summary of the check
func renderResult(cmd *cobra.Command, repoID, filename string, cached bool) {
	if cached {
		fmt.Fprintf(cmd.OutOrStdout(), "Model '%s' (specifically %s) is cached.\n", repoID, filename)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Model '%s' (specifically %s) is NOT cached.\n", repoID, filename)
}

// Execute runs the root command against the real filesystem and returns the process exit status
func Execute() int {
	return run(newRootCommand(afero.NewReadOnlyFs(afero.NewOsFs())), os.Args[1:])
}

// run silences hub logging, executes cmd with args and reports errors on stderr
func run(cmd *cobra.Command, args []string) int {
	suppressHubOutput()

	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()
	code := apperrors.ExitCode(err)

	switch code {
	case apperrors.ExitUsage:
		reportUsageError(cmd, args, err)
	case apperrors.ExitFailure:
		reportFailure(cmd, err)
	}
	return code
}

// reportUsageError prints the full help for a bare invocation and a short
// usage with the error otherwise, always to stderr
func reportUsageError(cmd *cobra.Command, args []string, err error) {
	stderr := cmd.ErrOrStderr()
	if len(args) == 0 {
		cmd.SetOut(stderr)
		_ = cmd.Help()
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	fmt.Fprint(stderr, cmd.UsageString())
}

// reportFailure prints a lookup failure to stderr, followed by the underlying
// error when the friendly message does not already include it
func reportFailure(cmd *cobra.Command, err error) {
	msg := apperrors.UserFriendlyError(err)
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", msg)
	if cause := failureCause(err); !strings.Contains(msg, cause) {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", cause)
	}
}

// failureCause returns the error text below the outermost CommandError
func failureCause(err error) string {
	var cmdErr *apperrors.CommandError
	if apperrors.As(err, &cmdErr) && cmdErr.Err != nil {
		return cmdErr.Err.Error()
	}
	return err.Error()
}

// suppressHubOutput turns off the hub's default log handler and progress bars.
// Missing-token style warnings are irrelevant to a local cache check.
func suppressHubOutput() {
	cache.DisableProgressBars()
	cache.DisableDefaultHandler()
}
