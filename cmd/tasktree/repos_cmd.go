package main

import (
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/log"
	"github.com/raphi011/tasktree/internal/output"
)

func newReposCmd() *cobra.Command {
	var (
		taskName string
		filter   string
	)

	cmd := &cobra.Command{
		Use:     "repos",
		Short:   "List repositories available for tasks",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `List the canonical repositories under repos_dir, including nested ones
such as backend/api.

With --task, only repositories the task doesn't have yet are listed.
With --filter, repositories are fuzzy-matched and ranked best first.`,
		Example: `  tasktree repos                      # All repositories
  tasktree repos --task PROJ-123      # Repositories PROJ-123 could add
  tasktree repos --filter api         # Fuzzy search`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			m := newManager(ctx)
			repos := m.AvailableRepos()
			if taskName != "" {
				t, err := m.GetTask(taskName)
				if err != nil {
					return err
				}
				repos = m.ReposNotInTask(t)
			}

			repos = filterRepos(repos, filter)
			if len(repos) == 0 {
				l.Println("No repositories found")
				return nil
			}
			for _, r := range repos {
				out.Println(r)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskName, "task", "t", "", "Only repositories not yet in this task")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter, best matches first")
	_ = cmd.RegisterFlagCompletionFunc("task", completeTasks)

	return cmd
}

// filterRepos returns the repositories fuzzy-matching pattern, best first.
// An empty pattern keeps every repository in its original order.
func filterRepos(repos []string, pattern string) []string {
	if pattern == "" {
		return repos
	}
	matches := fuzzy.Find(pattern, repos)
	filtered := make([]string, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, match.Str)
	}
	return filtered
}
