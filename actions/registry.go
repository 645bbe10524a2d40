// Package actions is the lookup table between logical action names (the
// values of the keybinding config) and the interactive flows. Unknown names
// are never an error: they become pass-through actions whose value is
// forwarded to jj verbatim, which is the configured extension point.
package actions

import (
	"context"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/flows"
)

// Kind tells the host how to run an entry.
type Kind int

const (
	KindFlow    Kind = iota // opens a modal flow overlay
	KindCommand             // runs immediately, no overlay
	KindUI                  // handled by the UI shell itself (quit, refresh, ...)
	KindCustom              // user-supplied jj arguments, forwarded verbatim
)

// Display groups, in help order.
const (
	GroupChanges   = "Changes"
	GroupRearrange = "Rearrange"
	GroupBookmarks = "Bookmarks"
	GroupGit       = "Git"
	GroupApp       = "App"
	GroupCustom    = "Custom"
)

var groupOrder = []string{GroupChanges, GroupRearrange, GroupBookmarks, GroupGit, GroupApp, GroupCustom}

// Entry describes one action: its display metadata and how to start it.
type Entry struct {
	Name  string
	Kind  Kind
	Group string
	Order int // position within the group in help output
	Help  string

	newFlow func(flows.Context) flows.Flow
	command func(flows.Context) tea.Cmd
}

// Flow builds the entry's modal flow, or nil for non-flow kinds.
func (e Entry) Flow(ctx flows.Context) flows.Flow {
	if e.newFlow == nil {
		return nil
	}
	return e.newFlow(ctx)
}

// Command builds the entry's immediate command, or nil for non-command kinds.
func (e Entry) Command(ctx flows.Context) tea.Cmd {
	switch {
	case e.command != nil:
		return e.command(ctx)
	case e.Kind == KindCustom:
		return passThrough(ctx, e.Name)
	}
	return nil
}

// passThrough forwards the configured value to jj verbatim. Success triggers
// a log refresh like any other executed operation; the selection is left
// alone because the command's semantics are unknown here.
func passThrough(ctx flows.Context, raw string) tea.Cmd {
	args := strings.Fields(raw)
	title := "jj " + raw
	return func() tea.Msg {
		if len(args) == 0 {
			return nil
		}
		if _, err := ctx.Runner.Run(context.Background(), args...); err != nil {
			return flows.FailedMsg{Flow: title, Err: err}
		}
		return flows.ExecutedMsg{Flow: title, Message: "ran " + title}
	}
}

var registry = map[string]Entry{
	"new": {
		Name: "new", Kind: KindCommand, Group: GroupChanges, Order: 0,
		Help:    "new change on selected/cursor parents",
		command: flows.NewChange,
	},
	"describe": {
		Name: "describe", Kind: KindFlow, Group: GroupChanges, Order: 1,
		Help:    "edit description of cursor change",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewDescribe(ctx) },
	},
	"edit": {
		Name: "edit", Kind: KindCommand, Group: GroupChanges, Order: 2,
		Help:    "make cursor change the working copy",
		command: flows.Edit,
	},
	"abandon": {
		Name: "abandon", Kind: KindFlow, Group: GroupChanges, Order: 3,
		Help:    "abandon selected/cursor changes",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewAbandon(ctx) },
	},
	"undo": {
		Name: "undo", Kind: KindCommand, Group: GroupChanges, Order: 4,
		Help:    "undo the last jj operation",
		command: flows.Undo,
	},
	"rebase": {
		Name: "rebase", Kind: KindFlow, Group: GroupRearrange, Order: 0,
		Help:    "rebase selected/cursor changes",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewRebase(ctx) },
	},
	"squash": {
		Name: "squash", Kind: KindFlow, Group: GroupRearrange, Order: 1,
		Help:    "squash selection into cursor (or cursor into parent)",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewSquash(ctx) },
	},
	"squash-to": {
		Name: "squash-to", Kind: KindFlow, Group: GroupRearrange, Order: 2,
		Help:    "squash cursor change into a picked target",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewSquashTo(ctx) },
	},
	"bookmark-set": {
		Name: "bookmark-set", Kind: KindFlow, Group: GroupBookmarks, Order: 0,
		Help:    "set or create a bookmark on cursor change",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewBookmarkSet(ctx) },
	},
	"bookmarks": {
		Name: "bookmarks", Kind: KindFlow, Group: GroupBookmarks, Order: 1,
		Help:    "delete / rename / pull bookmarks on cursor change",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewBookmarkMenu(ctx) },
	},
	"push": {
		Name: "push", Kind: KindFlow, Group: GroupGit, Order: 0,
		Help:    "push selected/cursor changes",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewPush(ctx, false) },
	},
	"push-new": {
		Name: "push-new", Kind: KindFlow, Group: GroupGit, Order: 1,
		Help:    "push, allowing new remote bookmarks",
		newFlow: func(ctx flows.Context) flows.Flow { return flows.NewPush(ctx, true) },
	},
	"fetch": {
		Name: "fetch", Kind: KindCommand, Group: GroupGit, Order: 2,
		Help:    "fetch from the git remote",
		command: flows.Fetch,
	},
	"select":          {Name: "select", Kind: KindUI, Group: GroupApp, Order: 0, Help: "toggle selection of cursor change"},
	"clear-selection": {Name: "clear-selection", Kind: KindUI, Group: GroupApp, Order: 1, Help: "clear the selection"},
	"refresh":         {Name: "refresh", Kind: KindUI, Group: GroupApp, Order: 2, Help: "reload the log"},
	"help":            {Name: "help", Kind: KindUI, Group: GroupApp, Order: 3, Help: "show keybindings"},
	"quit":            {Name: "quit", Kind: KindUI, Group: GroupApp, Order: 4, Help: "quit"},
}

// Lookup resolves an action name. Unknown names come back as pass-through
// custom entries rather than errors.
func Lookup(name string) Entry {
	if e, ok := registry[name]; ok {
		return e
	}
	return Entry{
		Name:  name,
		Kind:  KindCustom,
		Group: GroupCustom,
		Help:  "jj " + name,
	}
}

// Known reports whether name is a built-in action.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// HelpBinding is one key → description line in the help overlay.
type HelpBinding struct {
	Key   string
	Help  string
	order int
}

// HelpGroup is a titled section of the help overlay.
type HelpGroup struct {
	Title    string
	Bindings []HelpBinding
}

// HelpGroups renders the keybinding table (key → action name) into display
// groups. Built-in actions sort by their registered order; everything
// unknown lands in a trailing custom bucket sorted by key.
func HelpGroups(bindings map[string]string) []HelpGroup {
	byGroup := make(map[string][]HelpBinding)
	for k, name := range bindings {
		e := Lookup(name)
		byGroup[e.Group] = append(byGroup[e.Group], HelpBinding{Key: k, Help: e.Help, order: e.Order})
	}

	var groups []HelpGroup
	for _, title := range groupOrder {
		entries := byGroup[title]
		if len(entries) == 0 {
			continue
		}
		if title == GroupCustom {
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		} else {
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].order != entries[j].order {
					return entries[i].order < entries[j].order
				}
				return entries[i].Key < entries[j].Key
			})
		}
		groups = append(groups, HelpGroup{Title: title, Bindings: entries})
	}
	return groups
}
