package jj

import (
	"context"
	"strings"
)

// Revset serializes a set of change IDs as a revset: the IDs joined by the
// union operator. This is the only revset algebra this program synthesizes.
func Revset(ids []string) string {
	return strings.Join(ids, "|")
}

// ParentRevset returns the revset selecting the immediate parent of a change.
func ParentRevset(id string) string {
	return id + "-"
}

// RebaseArgs builds the rebase argument vector: base command, a repeated
// (source-flag, id) pair for each source in input order, then the
// destination pair.
func RebaseArgs(sourceFlag string, sources []string, destFlag, dest string) []string {
	args := make([]string, 0, 1+2*len(sources)+2)
	args = append(args, "rebase")
	for _, src := range sources {
		args = append(args, sourceFlag, src)
	}
	args = append(args, destFlag, dest)
	return args
}

// Describe sets the description of a change.
func Describe(ctx context.Context, r CommandRunner, id, message string) error {
	_, err := r.Run(ctx, "describe", id, "-m", message)
	return err
}

// New creates a new change on top of the given parents.
func New(ctx context.Context, r CommandRunner, parents ...string) error {
	args := append([]string{"new"}, parents...)
	_, err := r.Run(ctx, args...)
	return err
}

// Abandon abandons all changes selected by the revset.
func Abandon(ctx context.Context, r CommandRunner, revset string) error {
	_, err := r.Run(ctx, "abandon", revset)
	return err
}

// Edit switches the working copy to the given change.
func Edit(ctx context.Context, r CommandRunner, id string) error {
	_, err := r.Run(ctx, "edit", id)
	return err
}

// Undo undoes the last operation via jj's operation log.
func Undo(ctx context.Context, r CommandRunner) error {
	_, err := r.Run(ctx, "undo")
	return err
}

// Squash squashes the changes selected by the from revset into the target
// change, with the given message.
func Squash(ctx context.Context, r CommandRunner, from, into, message string) error {
	_, err := r.Run(ctx, "squash", "--from", from, "--into", into, "-m", message)
	return err
}

// GitPush pushes the changes selected by the revset. allowNew permits
// pushing bookmarks that do not yet exist on the remote.
func GitPush(ctx context.Context, r CommandRunner, revset string, allowNew bool) error {
	args := []string{"git", "push", "-r", revset}
	if allowNew {
		args = append(args, "--allow-new")
	}
	_, err := r.Run(ctx, args...)
	return err
}

// GitFetch fetches from the default remote.
func GitFetch(ctx context.Context, r CommandRunner) error {
	_, err := r.Run(ctx, "git", "fetch")
	return err
}

// BookmarkList returns the local bookmark names pointing at the given
// revset, or all local bookmarks when revset is empty.
func BookmarkList(ctx context.Context, r CommandRunner, revset string) ([]string, error) {
	args := []string{"bookmark", "list", "-T", `name ++ "\n"`}
	if revset != "" {
		args = append(args, "-r", revset)
	}
	res, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// BookmarkCreate creates a new bookmark at the given change.
func BookmarkCreate(ctx context.Context, r CommandRunner, name, id string) error {
	_, err := r.Run(ctx, "bookmark", "create", name, "-r", id)
	return err
}

// BookmarkSet moves an existing bookmark to the given change.
// --allow-backwards is always passed: "set bookmark here" can legitimately
// move a bookmark to a non-descendant position, and jj refuses that without
// the flag.
func BookmarkSet(ctx context.Context, r CommandRunner, name, id string) error {
	_, err := r.Run(ctx, "bookmark", "set", name, "-r", id, "--allow-backwards")
	return err
}

// BookmarkDelete deletes a bookmark.
func BookmarkDelete(ctx context.Context, r CommandRunner, name string) error {
	_, err := r.Run(ctx, "bookmark", "delete", name)
	return err
}

// BookmarkRename renames a bookmark.
func BookmarkRename(ctx context.Context, r CommandRunner, oldName, newName string) error {
	_, err := r.Run(ctx, "bookmark", "rename", oldName, newName)
	return err
}

// BookmarkPull re-points a local bookmark at its fetched remote ref. The
// fetch runs first; the bookmark is not touched if the fetch fails.
func BookmarkPull(ctx context.Context, r CommandRunner, name, remote string) error {
	if _, err := r.Run(ctx, "git", "fetch"); err != nil {
		return err
	}
	_, err := r.Run(ctx, "bookmark", "set", name, "-r", name+"@"+remote, "--allow-backwards")
	return err
}

// Diff returns the diff for a change rendered with the given preset
// arguments (e.g. --git, --stat).
func Diff(ctx context.Context, r CommandRunner, id string, presetArgs []string) (string, error) {
	args := append([]string{"diff", "-r", id}, presetArgs...)
	res, err := r.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}
