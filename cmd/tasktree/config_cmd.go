package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/config"
	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage tasktree configuration.

Global config: $XDG_CONFIG_HOME/tasktree/config.toml (~/.config/tasktree/config.toml)
Local config:  ` + config.LocalConfigFileName + ` (in a canonical repository's root)`,
		Example: `  tasktree config init         # Create default global config
  tasktree config show         # Show effective config
  tasktree config show -r api  # Show config merged with api's local config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  tasktree config init      # Create global config
  tasktree config init -f   # Overwrite existing config
  tasktree config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if stdout {
				return config.WriteDefault(out.Writer())
			}

			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			l.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		repoName   string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

With --repo, shows the global config merged with that repository's
` + config.LocalConfigFileName + `.`,
		Example: `  tasktree config show           # Global config
  tasktree config show --repo api  # Merged config for api
  tasktree config show --json      # Output as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			r := resolverFromContext(ctx)

			cfg := r.Global()
			if repoName != "" {
				repoPath := filepath.Join(cfg.ReposDir, filepath.FromSlash(repoName))
				if _, err := os.Stat(repoPath); err != nil {
					return fmt.Errorf("repository %q not found in %s", repoName, cfg.ReposDir)
				}
				merged, err := r.ConfigForRepo(repoPath)
				if err != nil {
					return err
				}
				cfg = merged
			}

			if jsonOutput {
				return out.JSON(cfg)
			}
			return cfg.Encode(out.Writer())
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&repoName, "repo", "r", "", "Merge the local config of this repository")

	return cmd
}
