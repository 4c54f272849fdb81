// Package gitmeta resolves repository context for run reports.
package gitmeta

import (
	git "github.com/go-git/go-git/v5"
)

// Context is the repository state a pipeline ran against.
type Context struct {
	Commit string // short SHA of HEAD
	Branch string // branch name, empty on detached HEAD
	Dirty  bool   // uncommitted changes in the worktree
}

// Resolve reads HEAD of the repository containing dir. Returns nil when
// dir is not inside a git repository; a pipeline run does not require one.
func Resolve(dir string) *Context {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}

	head, err := repo.Head()
	if err != nil {
		return nil
	}

	ctx := &Context{Commit: head.Hash().String()[:8]}
	if head.Name().IsBranch() {
		ctx.Branch = head.Name().Short()
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			ctx.Dirty = !status.IsClean()
		}
	}
	return ctx
}
