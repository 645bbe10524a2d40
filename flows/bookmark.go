package flows

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/jjnav/jj"
)

// createNewSentinel is the synthetic menu entry offered alongside existing
// bookmark names in the set flow.
const createNewSentinel = "[create new]"

// bookmarksMsg carries a fetched bookmark name list.
type bookmarksMsg struct {
	names []string
	err   error
}

type bookmarkSetStep int

const (
	bookmarkSetLoading bookmarkSetStep = iota
	bookmarkSetChooseName
	bookmarkSetEnterName
	bookmarkSetRunning
)

// BookmarkSetFlow moves an existing bookmark to the cursor change or creates
// a new one there. Bookmark set is inherently single-target, so it always
// uses the cursor change regardless of selection.
type BookmarkSetFlow struct {
	ctx      Context
	step     bookmarkSetStep
	menu     menu
	input    textinput.Model
	errText  string
	executed bool
}

// NewBookmarkSet creates the set/create flow for the cursor change.
func NewBookmarkSet(ctx Context) *BookmarkSetFlow {
	return &BookmarkSetFlow{ctx: ctx, step: bookmarkSetLoading}
}

func (f *BookmarkSetFlow) Title() string { return "Bookmark set" }

func (f *BookmarkSetFlow) Executed() bool { return f.executed }

func (f *BookmarkSetFlow) Init() tea.Cmd {
	runner := f.ctx.Runner
	return func() tea.Msg {
		names, err := jj.BookmarkList(context.Background(), runner, "")
		return bookmarksMsg{names: names, err: err}
	}
}

func (f *BookmarkSetFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	switch f.step {
	case bookmarkSetChooseName:
		if msg.String() == "esc" {
			return ActionClose, nil
		}
		if i, ok := f.menu.handleKey(msg); ok {
			choice := f.menu.options[i].label
			if choice == createNewSentinel {
				ti := textinput.New()
				ti.Placeholder = "new bookmark name"
				ti.Focus()
				f.input = ti
				f.step = bookmarkSetEnterName
				return ActionContinue, textinput.Blink
			}
			f.step = bookmarkSetRunning
			return ActionContinue, f.runSet(choice)
		}
	case bookmarkSetEnterName:
		switch msg.String() {
		case "esc":
			return ActionClose, nil
		case "enter":
			name := strings.TrimSpace(f.input.Value())
			if name == "" {
				f.errText = "bookmark name cannot be empty"
				return ActionContinue, nil
			}
			f.step = bookmarkSetRunning
			f.errText = ""
			return ActionContinue, f.runCreate(name)
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return ActionContinue, cmd
	default:
		if msg.String() == "esc" {
			return ActionClose, nil
		}
	}
	return ActionContinue, nil
}

// runSet moves an existing bookmark to the cursor change. The move may be
// backwards (to a non-descendant), which is exactly what "set bookmark
// here" means, so the allow-backwards flag is always requested.
func (f *BookmarkSetFlow) runSet(name string) tea.Cmd {
	target := f.ctx.Cursor
	return f.ctx.exec(f.Title(), false, fmt.Sprintf("moved bookmark %s to %s", name, target), func(ctx context.Context) error {
		return jj.BookmarkSet(ctx, f.ctx.Runner, name, target)
	})
}

func (f *BookmarkSetFlow) runCreate(name string) tea.Cmd {
	target := f.ctx.Cursor
	return f.ctx.exec(f.Title(), false, fmt.Sprintf("created bookmark %s at %s", name, target), func(ctx context.Context) error {
		return jj.BookmarkCreate(ctx, f.ctx.Runner, name, target)
	})
}

func (f *BookmarkSetFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case bookmarksMsg:
		if msg.err != nil {
			return ActionClose, func() tea.Msg {
				return FailedMsg{Flow: f.Title(), Err: msg.err}
			}
		}
		options := make([]menuOption, 0, len(msg.names)+1)
		for _, name := range msg.names {
			options = append(options, menuOption{label: name})
		}
		options = append(options, menuOption{key: "c", label: createNewSentinel})
		f.menu = menu{title: "Set bookmark on " + f.ctx.Cursor, options: options}
		f.step = bookmarkSetChooseName
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = bookmarkSetChooseName
		}
	}
	return ActionContinue, nil
}

func (f *BookmarkSetFlow) RenderOverlay(width int) []string {
	var lines []string
	switch f.step {
	case bookmarkSetLoading:
		lines = []string{menuTitleStyle.Render("Set bookmark"), "Fetching bookmarks..."}
	case bookmarkSetChooseName:
		lines = f.menu.render()
	case bookmarkSetEnterName:
		lines = []string{
			menuTitleStyle.Render("New bookmark on " + f.ctx.Cursor),
			f.input.View(),
			menuDimStyle.Render("enter create · esc cancel"),
		}
	case bookmarkSetRunning:
		lines = []string{menuTitleStyle.Render("Set bookmark"), "Running..."}
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

type bookmarkMenuStep int

const (
	bookmarkMenuLoading bookmarkMenuStep = iota
	bookmarkMenuChooseOp
	bookmarkMenuChooseName
	bookmarkMenuEnterName
	bookmarkMenuRunning
)

type bookmarkOp int

const (
	bookmarkOpDelete bookmarkOp = iota
	bookmarkOpRename
	bookmarkOpPull
)

// BookmarkMenuFlow offers delete/rename/pull for the bookmarks on the cursor
// change. A change with no bookmarks is a dead end reported as a warning.
type BookmarkMenuFlow struct {
	ctx      Context
	step     bookmarkMenuStep
	names    []string
	op       bookmarkOp
	chosen   string
	menu     menu
	input    textinput.Model
	errText  string
	executed bool
}

// NewBookmarkMenu creates the bookmark management flow for the cursor change.
func NewBookmarkMenu(ctx Context) *BookmarkMenuFlow {
	return &BookmarkMenuFlow{ctx: ctx, step: bookmarkMenuLoading}
}

func (f *BookmarkMenuFlow) Title() string { return "Bookmarks" }

func (f *BookmarkMenuFlow) Executed() bool { return f.executed }

func (f *BookmarkMenuFlow) Init() tea.Cmd {
	runner := f.ctx.Runner
	rev := f.ctx.Cursor
	return func() tea.Msg {
		names, err := jj.BookmarkList(context.Background(), runner, rev)
		return bookmarksMsg{names: names, err: err}
	}
}

func (f *BookmarkMenuFlow) HandleKey(msg tea.KeyMsg) (Action, tea.Cmd) {
	if msg.String() == "esc" && f.step != bookmarkMenuRunning {
		if f.step == bookmarkMenuEnterName || f.step == bookmarkMenuChooseName {
			// Back out one level instead of aborting outright.
			f.step = bookmarkMenuChooseOp
			f.menu = bookmarkOpMenu()
			f.errText = ""
			return ActionContinue, nil
		}
		return ActionClose, nil
	}

	switch f.step {
	case bookmarkMenuChooseOp:
		if i, ok := f.menu.handleKey(msg); ok {
			f.op = bookmarkOp(i)
			f.step = bookmarkMenuChooseName
			f.menu = bookmarkNameMenu(f.names)
		}
	case bookmarkMenuChooseName:
		if i, ok := f.menu.handleKey(msg); ok {
			f.chosen = f.names[i]
			switch f.op {
			case bookmarkOpDelete:
				f.step = bookmarkMenuRunning
				return ActionContinue, f.runDelete()
			case bookmarkOpRename:
				ti := textinput.New()
				ti.Placeholder = "new name"
				ti.SetValue(f.chosen)
				ti.Focus()
				f.input = ti
				f.step = bookmarkMenuEnterName
				return ActionContinue, textinput.Blink
			case bookmarkOpPull:
				f.step = bookmarkMenuRunning
				return ActionContinue, f.runPull()
			}
		}
	case bookmarkMenuEnterName:
		if msg.String() == "enter" {
			name := strings.TrimSpace(f.input.Value())
			if name == "" {
				f.errText = "bookmark name cannot be empty"
				return ActionContinue, nil
			}
			f.step = bookmarkMenuRunning
			f.errText = ""
			return ActionContinue, f.runRename(name)
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return ActionContinue, cmd
	}
	return ActionContinue, nil
}

func bookmarkOpMenu() menu {
	return menu{
		title: "Bookmark operation",
		options: []menuOption{
			{key: "d", label: "delete"},
			{key: "r", label: "rename"},
			{key: "p", label: "pull", detail: "fetch, then re-point at the remote ref"},
		},
	}
}

func bookmarkNameMenu(names []string) menu {
	options := make([]menuOption, len(names))
	for i, n := range names {
		options[i] = menuOption{label: n}
	}
	return menu{title: "Which bookmark?", options: options}
}

func (f *BookmarkMenuFlow) runDelete() tea.Cmd {
	name := f.chosen
	return f.ctx.exec(f.Title(), false, "deleted bookmark "+name, func(ctx context.Context) error {
		return jj.BookmarkDelete(ctx, f.ctx.Runner, name)
	})
}

func (f *BookmarkMenuFlow) runRename(newName string) tea.Cmd {
	oldName := f.chosen
	return f.ctx.exec(f.Title(), false, fmt.Sprintf("renamed bookmark %s to %s", oldName, newName), func(ctx context.Context) error {
		return jj.BookmarkRename(ctx, f.ctx.Runner, oldName, newName)
	})
}

func (f *BookmarkMenuFlow) runPull() tea.Cmd {
	name := f.chosen
	remote := f.ctx.remote()
	return f.ctx.exec(f.Title(), false, fmt.Sprintf("pulled bookmark %s from %s", name, remote), func(ctx context.Context) error {
		return jj.BookmarkPull(ctx, f.ctx.Runner, name, remote)
	})
}

func (f *BookmarkMenuFlow) Update(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case bookmarksMsg:
		if msg.err != nil {
			return ActionClose, func() tea.Msg {
				return FailedMsg{Flow: f.Title(), Err: msg.err}
			}
		}
		if len(msg.names) == 0 {
			flow := f.Title()
			cursor := f.ctx.Cursor
			return ActionClose, func() tea.Msg {
				return WarnMsg{Flow: flow, Text: "no bookmarks on change " + cursor}
			}
		}
		f.names = msg.names
		f.menu = bookmarkOpMenu()
		f.step = bookmarkMenuChooseOp
	case ExecutedMsg:
		if msg.Flow == f.Title() {
			f.executed = true
			return ActionClose, nil
		}
	case FailedMsg:
		if msg.Flow == f.Title() {
			f.errText = msg.Err.Error()
			f.step = bookmarkMenuChooseOp
			f.menu = bookmarkOpMenu()
		}
	}
	return ActionContinue, nil
}

func (f *BookmarkMenuFlow) RenderOverlay(width int) []string {
	var lines []string
	switch f.step {
	case bookmarkMenuLoading:
		lines = []string{menuTitleStyle.Render("Bookmarks"), "Fetching bookmarks..."}
	case bookmarkMenuChooseOp, bookmarkMenuChooseName:
		lines = f.menu.render()
	case bookmarkMenuEnterName:
		lines = []string{
			menuTitleStyle.Render("Rename bookmark " + f.chosen),
			f.input.View(),
			menuDimStyle.Render("enter rename · esc back"),
		}
	case bookmarkMenuRunning:
		lines = []string{menuTitleStyle.Render("Bookmarks"), "Running..."}
	}
	if f.errText != "" {
		lines = append(lines, menuErrStyle.Render("Error: ")+f.errText)
	}
	return lines
}

var (
	_ Flow = (*BookmarkSetFlow)(nil)
	_ Flow = (*BookmarkMenuFlow)(nil)
)
