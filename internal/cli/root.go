// Package cli implements the chg command tree.
package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chg/internal/config"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
	"github.com/ariel-frischer/chg/internal/git"
)

var (
	changelogFile string
	repoDir       string
	configPath    string
	verboseCount  int
	silentCount   int
)

// logger is configured by the root command before any subcommand runs.
var logger = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "chg",
	Short: "Keep CHANGELOG.md in sync with git history",
	Long: `chg maintains a markdown changelog next to a git repository.

It imports the first-parent history into release sections (one per version
tag), and merges new commits into an existing, possibly hand-edited,
CHANGELOG.md without touching what is already there.`,
	Example: `  # Start a changelog for a new project
  chg new

  # Generate a changelog from the whole git history
  chg init

  # Add everything committed since the latest release in CHANGELOG.md
  chg sync

  # Show what sync would change
  chg sync --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogger(logger, cmd.ErrOrStderr(), verboseCount, silentCount)
		git.SetDebugLogger(logger.Debugf)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&changelogFile, "file", "f", "", "changelog file (default from config: CHANGELOG.md)")
	rootCmd.PersistentFlags().StringVar(&repoDir, "dir", "", "git repository directory (default from config: .)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: .chg/config.yml)")
	rootCmd.PersistentFlags().CountVarP(&verboseCount, "verbose", "v", "more output (-v debug, -vv trace)")
	rootCmd.PersistentFlags().CountVarP(&silentCount, "silent", "s", "less output (-s warnings, -ss errors, -sss nothing)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine(), "See: "+cmd.CommandPath()+" --help")
	})
}

// noArgs rejects positional arguments with an argument error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	}
	return nil
}

// Execute runs the root command and prints a failure to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		clierrors.FprintError(os.Stderr, err, plainErrors())
	}
	return err
}

// Settings is the resolved configuration of one command run.
type Settings struct {
	ChangelogFile string
	RepoDir       string
	Config        *config.Configuration
	Log           logrus.FieldLogger
}

// loadSettings merges the tool config with the global flags.
// Flags win over every config source.
func loadSettings() (*Settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}

	s := &Settings{
		ChangelogFile: cfg.ChangelogFile,
		RepoDir:       cfg.RepoDir,
		Config:        cfg,
		Log:           logger,
	}
	if changelogFile != "" {
		s.ChangelogFile = changelogFile
	}
	if repoDir != "" {
		s.RepoDir = repoDir
	}
	return s, nil
}

// logLevel maps -v/-s counts to a level. ok is false when output is silenced.
func logLevel(verbose, silent int) (level logrus.Level, ok bool) {
	switch n := verbose - silent; {
	case n >= 2:
		return logrus.TraceLevel, true
	case n == 1:
		return logrus.DebugLevel, true
	case n == 0:
		return logrus.InfoLevel, true
	case n == -1:
		return logrus.WarnLevel, true
	case n == -2:
		return logrus.ErrorLevel, true
	default:
		return logrus.PanicLevel, false
	}
}

func configureLogger(l *logrus.Logger, w io.Writer, verbose, silent int) {
	level, ok := logLevel(verbose, silent)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if !ok {
		l.SetOutput(io.Discard)
		return
	}
	l.SetOutput(w)
}

// plainErrors disables colored errors when NO_COLOR is set.
func plainErrors() bool {
	return os.Getenv("NO_COLOR") != ""
}
