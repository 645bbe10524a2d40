package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/jjnav/actions"
	"github.com/gerunddev/jjnav/config"
	"github.com/gerunddev/jjnav/flows"
	"github.com/gerunddev/jjnav/jj"
	"github.com/gerunddev/jjnav/selection"
	"github.com/gerunddev/jjnav/ui/floating"
	"github.com/gerunddev/jjnav/ui/messages"
	"github.com/gerunddev/jjnav/ui/panels"
	"github.com/gerunddev/jjnav/ui/theme"
)

// App is the main application model: the log view with its diff preview,
// hosting at most one modal flow at a time.
type App struct {
	runner jj.CommandRunner
	cfg    *config.Config
	keys   KeyMap
	sel    *selection.Set

	logPanel  *panels.LogPanel
	diffPanel *panels.DiffPanel

	flow        flows.Flow
	helpOverlay *floating.HelpOverlay
	showHelp    bool

	notice      string
	noticeLevel messages.NoticeLevel

	width  int
	height int
	ready  bool
}

// NewApp creates the application model.
func NewApp(runner jj.CommandRunner, cfg *config.Config) *App {
	sel := selection.NewSet()
	a := &App{
		runner:   runner,
		cfg:      cfg,
		keys:     DefaultKeyMap(),
		sel:      sel,
		logPanel: panels.NewLogPanel(sel),
	}
	a.logPanel.SetFocused(true)
	if cfg.DiffEnabled() {
		// Only the unified-diff preset benefits from line colorizing;
		// summary/stat/color-words carry their own formatting.
		a.diffPanel = panels.NewDiffPanel(cfg.UI.DiffPreset == "git")
	}
	return a
}

// Notify seeds a startup notice (e.g. config warnings).
func (a *App) Notify(level messages.NoticeLevel, text string) {
	a.noticeLevel = level
	a.notice = text
}

func (a *App) Init() tea.Cmd {
	return a.refreshLog()
}

// refreshLog re-queries the log. It is triggered on startup, on explicit
// refresh, and exactly once per successful mutating operation.
func (a *App) refreshLog() tea.Cmd {
	runner := a.runner
	revset := a.cfg.UI.LogRevset
	return func() tea.Msg {
		out, err := jj.Log(context.Background(), runner, revset)
		return messages.LogLoadedMsg{Log: out, Err: err}
	}
}

// fetchDiff loads the preview for the change under the cursor, skipping the
// query when the preview is disabled or already current.
func (a *App) fetchDiff() tea.Cmd {
	if a.diffPanel == nil {
		return nil
	}
	id, ok := a.logPanel.CursorChangeID()
	if !ok || id == a.diffPanel.ChangeID() {
		return nil
	}
	runner := a.runner
	presetArgs := a.cfg.DiffArgs()
	return func() tea.Msg {
		content, err := jj.Diff(context.Background(), runner, id, presetArgs)
		if err != nil {
			content = "Error: " + err.Error()
		}
		return messages.DiffContentMsg{ChangeID: id, Content: content}
	}
}

func (a *App) flowContext() flows.Context {
	cursor, _ := a.logPanel.CursorChangeID()
	return flows.Context{
		Runner:    a.runner,
		Selection: a.sel,
		Cursor:    cursor,
		Remote:    a.cfg.Git.Remote,
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		a.ready = true
		return a, nil

	case messages.LogLoadedMsg:
		if msg.Err != nil {
			a.Notify(messages.NoticeError, msg.Err.Error())
			return a, nil
		}
		a.logPanel.SetLog(msg.Log)
		return a, a.fetchDiff()

	case messages.DiffContentMsg:
		if a.diffPanel != nil {
			a.diffPanel.SetContent(msg.ChangeID, msg.Content)
		}
		return a, nil

	case messages.NoticeMsg:
		a.Notify(msg.Level, msg.Text)
		return a, nil

	case flows.ExecutedMsg:
		a.Notify(messages.NoticeInfo, msg.Message)
		cmds := []tea.Cmd{a.refreshLog()}
		if cmd := a.forwardToFlow(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case flows.FailedMsg:
		a.Notify(messages.NoticeError, msg.Err.Error())
		return a, a.forwardToFlow(msg)

	case flows.WarnMsg:
		a.Notify(messages.NoticeWarn, msg.Text)
		return a, a.forwardToFlow(msg)

	case tea.MouseMsg:
		return a, a.routeMouse(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	default:
		// Flow-internal messages (fetched drafts, bookmark lists).
		return a, a.forwardToFlow(msg)
	}
}

// forwardToFlow delivers a message to the open flow and applies the
// resulting action.
func (a *App) forwardToFlow(msg tea.Msg) tea.Cmd {
	if a.flow == nil {
		return nil
	}
	action, cmd := a.flow.Update(msg)
	if action == flows.ActionClose {
		a.closeFlow()
	}
	a.syncPickMode()
	return cmd
}

// closeFlow dismisses the current flow. A flow that never executed was
// cancelled, which is worth a notice of its own.
func (a *App) closeFlow() {
	if a.flow == nil {
		return
	}
	if !a.flow.Executed() {
		a.Notify(messages.NoticeInfo, a.flow.Title()+" cancelled")
	}
	a.flow = nil
	a.logPanel.SetPickMode(false)
}

func (a *App) syncPickMode() {
	picker, ok := a.flow.(flows.TargetPicker)
	a.logPanel.SetPickMode(ok && picker.NeedsTarget())
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	if a.showHelp {
		switch {
		case key.Matches(msg, a.keys.Escape), msg.String() == "?", msg.String() == "q":
			a.showHelp = false
		default:
			_, cmd := a.helpOverlay.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.flow != nil {
		return a.handleFlowKey(msg)
	}

	// Normal mode: navigation first, then the configured action table.
	if a.keys.IsNavigation(msg) {
		_, cmd := a.logPanel.Update(msg)
		return a, tea.Batch(cmd, a.fetchDiff())
	}

	if action, bound := a.cfg.Keys[msg.String()]; bound {
		return a, a.runAction(action)
	}
	return a, nil
}

// handleFlowKey routes keys while a flow is open. In pick mode the log
// keeps navigation and enter confirms the target; otherwise the flow
// overlay has the keyboard.
func (a *App) handleFlowKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if picker, ok := a.flow.(flows.TargetPicker); ok && picker.NeedsTarget() {
		switch {
		case a.keys.IsNavigation(msg):
			_, cmd := a.logPanel.Update(msg)
			return a, cmd
		case key.Matches(msg, a.keys.Enter):
			id, ok := a.logPanel.CursorChangeID()
			if !ok {
				// Extraction failed: warn and stay in pick mode.
				a.Notify(messages.NoticeWarn, "could not identify the change under the cursor")
				return a, nil
			}
			cmd := picker.TargetPicked(id)
			a.syncPickMode()
			return a, cmd
		case key.Matches(msg, a.keys.Escape):
			a.closeFlow()
			return a, nil
		}
		return a, nil
	}

	action, cmd := a.flow.HandleKey(msg)
	if action == flows.ActionClose {
		a.closeFlow()
	} else {
		a.syncPickMode()
	}
	return a, cmd
}

// runAction dispatches a configured action name through the registry.
func (a *App) runAction(name string) tea.Cmd {
	entry := actions.Lookup(name)

	switch entry.Kind {
	case actions.KindUI:
		return a.runUIAction(entry.Name)

	case actions.KindFlow:
		if _, ok := a.logPanel.CursorChangeID(); !ok {
			a.Notify(messages.NoticeWarn, "no change under the cursor")
			return nil
		}
		flow := entry.Flow(a.flowContext())
		a.flow = flow
		a.syncPickMode()
		return flow.Init()

	default: // KindCommand, KindCustom
		if _, ok := a.logPanel.CursorChangeID(); !ok {
			a.Notify(messages.NoticeWarn, "no change under the cursor")
			return nil
		}
		return entry.Command(a.flowContext())
	}
}

func (a *App) runUIAction(name string) tea.Cmd {
	switch name {
	case "select":
		id, ok := a.logPanel.CursorChangeID()
		if !ok {
			a.Notify(messages.NoticeWarn, "no change under the cursor")
			return nil
		}
		a.sel.Toggle(id)
		a.logPanel.MoveCursor(0) // redraw markers
	case "clear-selection":
		a.sel.Clear()
		a.logPanel.MoveCursor(0)
	case "refresh":
		return a.refreshLog()
	case "help":
		a.helpOverlay = floating.NewHelpOverlay(a.cfg.Keys)
		a.helpOverlay.SetSize(floating.OverlayWidth(a.width), a.height*3/4)
		a.showHelp = true
	case "quit":
		return tea.Quit
	}
	return nil
}

func (a *App) routeMouse(msg tea.MouseMsg) tea.Cmd {
	if a.diffPanel != nil && msg.X >= a.logPanel.Width() {
		_, cmd := a.diffPanel.Update(msg)
		return cmd
	}
	_, cmd := a.logPanel.Update(msg)
	return cmd
}

func (a *App) mode() Mode {
	switch {
	case a.showHelp:
		return ModeHelp
	case a.flow != nil:
		if picker, ok := a.flow.(flows.TargetPicker); ok && picker.NeedsTarget() {
			return ModePick
		}
		return ModeFlow
	default:
		return ModeNormal
	}
}

func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var main string
	if a.diffPanel != nil {
		main = lipgloss.JoinHorizontal(lipgloss.Top, a.logPanel.View(), a.diffPanel.View())
	} else {
		main = a.logPanel.View()
	}

	ctx := HelpBarContext{
		Mode:           a.mode(),
		SelectionCount: a.sel.Count(),
		Bindings:       a.cfg.Keys,
	}
	if a.flow != nil {
		ctx.FlowTitle = a.flow.Title()
	}

	full := lipgloss.JoinVertical(lipgloss.Left,
		main,
		a.renderStatusLine(),
		RenderContextualHelpBar(ctx, a.width),
	)

	switch {
	case a.showHelp:
		return floating.Compose(full, a.helpOverlay.View(), a.width)
	case a.flow != nil && a.mode() != ModePick:
		w := floating.OverlayWidth(a.width)
		box := floating.Frame(a.flow.Title(), a.flow.RenderOverlay(w-2), w)
		return floating.Compose(full, box, a.width)
	}
	return full
}

// renderStatusLine shows the cursor/selection summary on the left and the
// latest notice on the right.
func (a *App) renderStatusLine() string {
	left := a.logPanel.Summary()

	var right string
	if a.notice != "" {
		switch a.noticeLevel {
		case messages.NoticeError:
			right = theme.NoticeErrorStyle.Render(a.notice)
		case messages.NoticeWarn:
			right = theme.NoticeWarnStyle.Render(a.notice)
		default:
			right = theme.NoticeInfoStyle.Render(a.notice)
		}
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (a *App) updateLayout() {
	contentHeight := a.height - 2 // status line + help bar

	if a.diffPanel == nil {
		a.logPanel.SetSize(a.width, contentHeight)
		return
	}

	logWidth := a.width / (1 + theme.DiffPanelRatio)
	if logWidth < theme.LogMinWidth {
		logWidth = min(theme.LogMinWidth, a.width)
	}
	a.logPanel.SetSize(logWidth, contentHeight)
	a.diffPanel.SetSize(a.width-logWidth, contentHeight)
}
