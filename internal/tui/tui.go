// Package tui is the interactive host for the task list: a Bubble Tea
// program whose Update loop owns the rendered list while each request runs
// in its own command.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/tasklist"
	"github.com/idilsaglam/tasks/internal/ui"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	inputCharLimit = 500
)

// taskItem adapts model.Task to bubbles/list.Item. The id is copied into
// the row when it is built, so a delete always targets the row's task.
type taskItem struct {
	id        int64
	text      string
	createdAt string
}

func newTaskItem(t model.Task) taskItem {
	return taskItem{id: t.ID, text: t.Task, createdAt: t.CreatedAt}
}

// Implement list.Item interface
func (i taskItem) Title() string       { return i.text }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return i.text }

func (i taskItem) suffix() string {
	return model.Task{CreatedAt: i.createdAt}.Suffix()
}

// Custom delegate to control how rows render (single line)
type itemDelegate struct {
	st    styles
	glyph string
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	line := it.text
	if s := it.suffix(); s != "" {
		line += " " + d.st.muted.Render(s)
	}
	line += "  " + d.st.danger.Render(d.glyph)

	prefix := "  "
	if index == m.Index() {
		prefix = d.st.selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// Messages carrying controller outcomes back into Update.
type (
	loadedMsg  struct{ out tasklist.Outcome }
	addedMsg   struct{ out tasklist.Outcome }
	removedMsg struct{ out tasklist.Outcome }
)

type keyMap struct {
	add     key.Binding
	delete  key.Binding
	focus   key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:     key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "add")),
		delete:  key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
		refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// Model is the Bubble Tea model for the task list.
type Model struct {
	ctx  context.Context
	ctl  *tasklist.Controller
	st   styles
	keys keyMap

	list  list.Model
	input textinput.Model
	focus focusArea

	// Pending alerts, shown one at a time; the first blocks all keys
	// except dismissal.
	alerts []string

	width, height int
}

// New builds the model. Collaborators are passed in; nothing is looked up
// globally.
func New(ctx context.Context, ctl *tasklist.Controller) Model {
	theme := ui.Current()
	st := newStyles(theme)
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{st: st, glyph: theme.DeleteGlyph()}, defaultWidth, defaultHeight)
	l.Title = "Tasks"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = st.title
	l.Styles.HelpStyle = st.help
	l.Styles.PaginationStyle = st.help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.delete, keys.focus, keys.refresh} }
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.add, keys.delete, keys.focus, keys.refresh, keys.quit}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task..."
	ti.CharLimit = inputCharLimit
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	m := Model{
		ctx:   ctx,
		ctl:   ctl,
		st:    st,
		keys:  keys,
		list:  l,
		input: ti,
		focus: focusInput,
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctl *tasklist.Controller) error {
	p := tea.NewProgram(New(ctx, ctl), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init loads the collection, like a page load.
func (m Model) Init() tea.Cmd { return m.loadCmd() }

func (m Model) loadCmd() tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg { return loadedMsg{ctl.Load(ctx)} }
}

func (m Model) addCmd(text string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg { return addedMsg{ctl.Add(ctx, text)} }
}

func (m Model) removeCmd(id int64) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg { return removedMsg{ctl.Remove(ctx, id)} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		if msg.out.Render {
			return m, m.render(msg.out.Tasks)
		}
		return m, nil

	case addedMsg:
		return m.afterMutation(msg.out)

	case removedMsg:
		return m.afterMutation(msg.out)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		if len(m.alerts) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alerts = m.alerts[1:]
			}
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	// Non-key messages go to both panes. The list's filter matches,
	// spinner ticks and status timeouts must land whichever one has focus.
	var listCmd, inputCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	m.input, inputCmd = m.input.Update(msg)
	return m, tea.Batch(listCmd, inputCmd)
}

func (m Model) afterMutation(out tasklist.Outcome) (tea.Model, tea.Cmd) {
	if out.Alert != "" {
		m.alerts = append(m.alerts, out.Alert)
	}
	if out.ClearInput {
		m.input.SetValue("")
	}
	if out.Reload {
		return m, m.loadCmd()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		if tasklist.Blank(m.input.Value()) {
			return m, nil
		}
		return m, m.addCmd(m.input.Value())
	case key.Matches(msg, m.keys.focus):
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadCmd()
	case msg.String() == "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While filtering, every key belongs to the filter input.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.delete):
		if it, ok := m.list.SelectedItem().(taskItem); ok {
			return m, m.removeCmd(it.id)
		}
		return m, nil
	case key.Matches(msg, m.keys.focus), msg.String() == "a", msg.String() == "i":
		m.setFocus(focusInput)
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadCmd()
	case msg.String() == "q":
		return m, tea.Quit
	case msg.String() == "esc" && m.list.FilterState() == list.Unfiltered:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// render discards every row and rebuilds the list from tasks in order.
// The returned command re-applies an active filter, if any.
func (m *Model) render(tasks model.TaskCollection) tea.Cmd {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, newTaskItem(t))
	}
	m.list.ResetSelected()
	return m.list.SetItems(items)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	// panel border+padding, input box (3 lines) and spacing
	m.list.SetSize(max(w-4, 10), max(h-7, 3))
	m.input.Width = max(w-10, 10)
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.alerts) > 0 {
		box := m.st.alertBox.Render(m.alerts[0] + "\n\n" + m.st.help.Render("enter: OK"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	inputStyle := m.st.inputBox
	if m.focus == focusInput {
		inputStyle = m.st.inputFocus
	}
	input := inputStyle.Width(max(m.width-6, 10)).Render(m.input.View())

	return m.st.panel.Render(m.list.View() + "\n" + input)
}
