package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/git"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
	"github.com/raphi011/tasktree/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupTask    = "task"
	GroupRemote  = "remote"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// errSilent makes the process exit 1 without printing anything more;
// the command already reported why.
var errSilent = errors.New("")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasktree",
	Short: "Multi-repository task workspaces on git worktrees",
	Long: `tasktree manages tasks: named workspaces holding one git worktree per
repository, all on a branch named after the task.

Canonical repositories live under repos_dir; each task gets a directory
under tasks_dir. Finishing a task checks every worktree for uncommitted,
unpushed or unmerged work before removing it.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		ctx, err := setupContext(cmd.Context(), isConfigCmd(cmd))
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)

		if isConfigCmd(cmd) {
			return nil
		}
		return git.CheckGit()
	},
	// Run is not set - shows help when no subcommand provided
}

// isConfigCmd reports whether cmd is part of "tasktree config", which must
// work without git and with a broken config file.
func isConfigCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		// rootCmd's pre-run hook calls this, so it must not refer to rootCmd.
		if c.Name() == "config" && c.Parent() != nil && !c.Parent().HasParent() {
			return true
		}
	}
	return false
}

// setupContext loads the configuration and attaches the logger, printer,
// git timeouts and config resolver. With lenient, an invalid config file is
// a warning and defaults are used.
func setupContext(ctx context.Context, lenient bool) (context.Context, error) {
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Downsample or strip colors for pipes, NO_COLOR and dumb terminals.
	stdout := colorprofile.NewWriter(os.Stdout, os.Environ())
	styles.Init(stdout.Profile)
	ctx = output.WithPrinter(ctx, stdout)

	cfg, err := config.Load()
	if err != nil {
		if !lenient {
			return ctx, err
		}
		logger.Printf("Warning: %v\n", err)
	}

	ctx = git.WithTimeouts(ctx, git.Timeouts{
		Read:    cfg.Timeouts.Read,
		Branch:  cfg.Timeouts.Branch,
		Network: cfg.Timeouts.Network,
	})
	ctx = config.WithResolver(ctx, config.NewResolver(&cfg))

	logger.Debug("config loaded", "repos_dir", cfg.ReposDir, "tasks_dir", cfg.TasksDir)
	return ctx, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errSilent) {
			cancel()
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'tasktree -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupTask, Title: "Task Commands:"},
		&cobra.Group{ID: GroupRemote, Title: "Remote Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Task commands
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFinishCmd())

	// Remote commands
	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newPullCmd())

	// Utility commands
	rootCmd.AddCommand(newReposCmd())
	rootCmd.AddCommand(newPathCmd())
	rootCmd.AddCommand(newNotesCmd())

	// Config commands
	rootCmd.AddCommand(newConfigCmd())
}
