package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/tasktree/internal/history"
)

// completeTasks completes the first argument with existing task names,
// most used first.
func completeTasks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx := cmd.Context()
	tasks, err := newManager(ctx).ListTasks()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, t := range tasks {
		if strings.HasPrefix(t.Name, toComplete) {
			matches = append(matches, t.Name)
		}
	}

	h, err := history.Load(historyPath(ctx))
	if err == nil {
		matches = rankByUse(matches, h.Frequent())
	}
	return matches, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
}

// rankByUse moves names found in frequent to the front, in that order.
// The rest keep their order.
func rankByUse(names, frequent []string) []string {
	ranked := make([]string, 0, len(names))
	for _, f := range frequent {
		if slices.Contains(names, f) {
			ranked = append(ranked, f)
		}
	}
	for _, n := range names {
		if !slices.Contains(ranked, n) {
			ranked = append(ranked, n)
		}
	}
	return ranked
}

// completeTaskThenRepos completes a task name, then repositories available
// under repos_dir that the task doesn't have yet.
func completeTaskThenRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return completeTasks(cmd, args, toComplete)
	}

	m := newManager(cmd.Context())
	repos := m.AvailableRepos()
	if t, err := m.GetTask(args[0]); err == nil {
		repos = m.ReposNotInTask(t)
	}

	var matches []string
	for _, r := range repos {
		if strings.HasPrefix(r, toComplete) {
			matches = append(matches, r)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeTaskRepos completes a task name, then the repositories in it.
func completeTaskRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeTasks(cmd, args, toComplete)
	case 1:
		t, err := newManager(cmd.Context()).GetTask(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var matches []string
		for _, wt := range t.Worktrees {
			if strings.HasPrefix(wt.Name, toComplete) {
				matches = append(matches, wt.Name)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
