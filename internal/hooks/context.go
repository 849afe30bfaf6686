package hooks

// NewContext builds the hook context for one worktree of a task. The task
// name doubles as the branch name.
func NewContext(task, repo, path, mainRepo string, trigger Trigger, env map[string]string) Context {
	return Context{
		Task:     task,
		Path:     path,
		Branch:   task,
		Repo:     repo,
		MainRepo: mainRepo,
		Trigger:  trigger,
		Env:      env,
	}
}
