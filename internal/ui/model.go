// Package ui implements the interactive terminal client. It renders the
// synchronizer's local view as a single-line checklist and dispatches every
// mutation as a background command, so the list never shows state the server
// has not confirmed.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todocore/internal/syncer"
	"todocore/pkg/domain"
)

// listItem adapts a todo record to the bubbles list surface.
type listItem struct {
	todo domain.Todo
}

func (i listItem) Title() string {
	box := boxUnchecked
	if i.todo.Completed {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.todo.Title)
}

func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders each todo on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.todo.Title
	if it.todo.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// actionDoneMsg reports a settled synchronizer call.
type actionDoneMsg struct {
	verb string
	err  error
}

type model struct {
	sync *syncer.Synchronizer

	list list.Model
	spin spinner.Model
	ti   textinput.Model

	// Inline add/edit via the shared text input.
	adding   bool
	editing  bool
	editID   int64
	inputErr string

	banner  string
	pending int

	width  int
	height int
}

func newModel(s *syncer.Synchronizer) model {
	l := list.New([]list.Item{}, itemDelegate{}, 0, 0)
	l.Title = listTitle(nil)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.AdditionalShortHelpKeys = extraKeys
	l.AdditionalFullHelpKeys = extraKeys

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return model{
		sync:    s,
		list:    l,
		spin:    sp,
		ti:      ti,
		pending: 1, // Init dispatches the first load
	}
}

func extraKeys() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

func listTitle(todos []domain.Todo) string {
	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	return fmt.Sprintf("%s  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render(boxChecked), done,
		pendingStyle.Render(boxUnchecked), len(todos)-done)
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m model) loadCmd() tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		return actionDoneMsg{verb: "load", err: s.Load(context.Background())}
	}
}

func (m model) createCmd(title string) tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		_, err := s.Create(context.Background(), domain.CreateInput{Title: title})
		return actionDoneMsg{verb: "create", err: err}
	}
}

func (m model) renameCmd(id int64, title string) tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		_, err := s.Update(context.Background(), id, domain.UpdateInput{Title: &title})
		return actionDoneMsg{verb: "update", err: err}
	}
}

func (m model) toggleCmd(todo domain.Todo) tea.Cmd {
	s := m.sync
	next := !todo.Completed
	return func() tea.Msg {
		_, err := s.Update(context.Background(), todo.ID, domain.UpdateInput{Completed: &next})
		return actionDoneMsg{verb: "update", err: err}
	}
}

func (m model) deleteCmd(id int64) tea.Cmd {
	s := m.sync
	return func() tea.Msg {
		return actionDoneMsg{verb: "delete", err: s.Delete(context.Background(), id)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case actionDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.err != nil {
			m.banner = fmt.Sprintf("%s failed: %v", msg.verb, msg.err)
		} else {
			m.banner = ""
		}
		return m, m.refresh()
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.dispatch(m.loadCmd())
		case " ":
			if it, ok := m.selected(); ok {
				return m, m.dispatch(m.toggleCmd(it.todo))
			}
			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				return m, m.dispatch(m.deleteCmd(it.todo.ID))
			}
			return m, nil
		case "a":
			m.openInput("", 0)
			return m, m.ti.Focus()
		case "e":
			if it, ok := m.selected(); ok {
				m.openInput(it.todo.Title, it.todo.ID)
				return m, m.ti.Focus()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles messages while the inline add/edit bar is open. Empty
// titles are rejected here, before any request is issued.
func (m model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "title must not be empty"
				return m, nil
			}
			var cmd tea.Cmd
			if m.editing {
				cmd = m.renameCmd(m.editID, title)
			} else {
				cmd = m.createCmd(title)
			}
			m.closeInput()
			return m, m.dispatch(cmd)
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *model) dispatch(cmd tea.Cmd) tea.Cmd {
	m.pending++
	return cmd
}

// refresh mirrors the synchronizer's current view into the visible list.
func (m *model) refresh() tea.Cmd {
	todos := m.sync.Snapshot()
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{todo: t})
	}
	cmd := m.list.SetItems(items)
	if len(items) > 0 && m.list.Index() >= len(items) {
		m.list.Select(len(items) - 1)
	}
	m.list.Title = listTitle(todos)
	return cmd
}

func (m *model) openInput(title string, id int64) {
	m.adding = id == 0
	m.editing = id != 0
	m.editID = id
	m.inputErr = ""
	m.ti.SetValue(title)
	m.ti.CursorEnd()
	if id == 0 {
		m.ti.Placeholder = "New todo title..."
	} else {
		m.ti.Placeholder = "Todo title..."
	}
	m.layout()
}

func (m *model) closeInput() {
	m.adding = false
	m.editing = false
	m.editID = 0
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.layout()
}

func (m model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m *model) layout() {
	if m.width == 0 && m.height == 0 {
		return
	}
	h := m.height - 4
	if m.adding || m.editing {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-2, h)
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.list.View())
	if m.adding || m.editing {
		title := "Add todo"
		if m.editing {
			title = "Edit title"
		}
		if m.inputErr != "" {
			title += "  " + errorStyle.Render(m.inputErr)
		}
		b.WriteString("\n" + inputBarStyle.Render(title+"\n"+m.ti.View()))
	}
	if m.banner != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.banner))
	}
	if m.pending > 0 {
		b.WriteString("\n" + m.spin.View() + mutedStyle.Render("syncing"))
	}
	return b.String()
}

// Run drives the interactive client until the user quits.
func Run(s *syncer.Synchronizer) error {
	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderSnapshot formats todos for one-shot, non-interactive output.
func RenderSnapshot(todos []domain.Todo) string {
	if len(todos) == 0 {
		return mutedStyle.Render("no todos") + "\n"
	}
	var b strings.Builder
	done := 0
	for _, t := range todos {
		box := mutedStyle.Render(boxUnchecked)
		text := t.Title
		if t.Completed {
			done++
			box = successStyle.Render(boxChecked)
			text = doneStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s %3d  %s\n", box, t.ID, text)
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d done, %d open", done, len(todos)-done)) + "\n")
	return b.String()
}
