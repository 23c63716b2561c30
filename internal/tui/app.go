package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todo-web/internal/model"
	"todo-web/internal/tasks"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
)

type appModel struct {
	ctx  context.Context
	svc  TaskService
	acct model.Account

	mode   mode
	list   list.Model
	input  textinput.Model
	target int64 // task being edited or deleted

	width  int
	height int

	minibufferText  string
	minibufferIsErr bool
}

func newAppModel(ctx context.Context, svc TaskService, acct model.Account) appModel {
	l := list.New(nil, newCompactItemDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)

	in := textinput.New()
	in.CharLimit = model.MaxContentLen
	in.Width = 60

	m := appModel{
		ctx:   ctx,
		svc:   svc,
		acct:  acct,
		list:  l,
		input: in,
	}
	m.reload()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeAdd, modeEdit:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.clearMinibuffer()
		m.reload()
		if m.minibufferText == "" {
			m.showMinibuffer("Reloaded.", false)
		}
		return m, nil
	case "a":
		m.mode = modeAdd
		m.target = 0
		m.input.Placeholder = "What needs doing?"
		m.input.SetValue("")
		return m, m.input.Focus()
	case "e":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.target = t.ID
		m.input.Placeholder = ""
		m.input.SetValue(t.Content)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "d":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.target = t.ID
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.leaveInput()
		return m, nil
	case tea.KeyEnter:
		content := m.input.Value()
		var err error
		if m.mode == modeAdd {
			_, err = m.svc.Add(m.ctx, m.acct.ID, content)
		} else {
			_, err = m.svc.Edit(m.ctx, m.acct.ID, m.target, content)
		}
		if err != nil {
			// Stay in the input so the text can be fixed.
			m.showMinibuffer(describeError(err), true)
			return m, nil
		}
		msgText := "Task added."
		if m.mode == modeEdit {
			msgText = "Task updated."
		}
		m.leaveInput()
		m.reload()
		m.showMinibuffer(msgText, false)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		err := m.svc.Delete(m.ctx, m.acct.ID, m.target)
		m.mode = modeList
		m.target = 0
		m.reload()
		if err != nil {
			m.showMinibuffer(describeError(err), true)
		} else {
			m.showMinibuffer("Task deleted.", false)
		}
	default:
		m.mode = modeList
		m.target = 0
		m.clearMinibuffer()
	}
	return m, nil
}

func (m *appModel) leaveInput() {
	m.mode = modeList
	m.target = 0
	m.input.Blur()
	m.input.SetValue("")
	m.clearMinibuffer()
}

func (m *appModel) reload() {
	curID := int64(0)
	if t, ok := m.selectedTask(); ok {
		curID = t.ID
	}

	items, err := m.svc.List(m.ctx, m.acct.ID)
	if err != nil {
		m.showMinibuffer("Load failed: "+err.Error(), true)
		return
	}
	listItems := make([]list.Item, 0, len(items))
	sel := 0
	for i, t := range items {
		listItems = append(listItems, taskItem{task: t})
		if t.ID == curID {
			sel = i
		}
	}
	m.list.SetItems(listItems)
	if len(listItems) > 0 {
		m.list.Select(sel)
	}
}

func (m appModel) selectedTask() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *appModel) showMinibuffer(text string, isErr bool) {
	m.minibufferText = text
	m.minibufferIsErr = isErr
}

func (m *appModel) clearMinibuffer() {
	m.minibufferText = ""
	m.minibufferIsErr = false
}

func (m *appModel) resizeList() {
	// Header, preview, prompt, minibuffer and footer.
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	w := m.width
	if w < 20 {
		w = 20
	}
	m.list.SetSize(w, h)
	m.input.Width = w - 4
}

func describeError(err error) string {
	switch {
	case errors.Is(err, tasks.ErrEmptyContent):
		return "Task content is required."
	case errors.Is(err, tasks.ErrContentTooLong):
		return fmt.Sprintf("Task content must be at most %d characters.", model.MaxContentLen)
	case tasks.IsNotFoundOrUnauthorized(err):
		return "Task not found."
	default:
		return err.Error()
	}
}

func (m appModel) View() string {
	header := styleHeader().Render(fmt.Sprintf("todo  %s  (%d tasks)", m.acct.Username, len(m.list.Items())))

	var body string
	if len(m.list.Items()) == 0 {
		body = styleMuted().Render("No tasks yet. Press a to add one.")
	} else {
		body = m.list.View()
		if t, ok := m.selectedTask(); ok && m.mode == modeList {
			if preview := renderMarkdown(t.Content, m.list.Width()); preview != "" {
				body = lipgloss.JoinVertical(lipgloss.Left, body, "", styleMuted().Render("Preview"), preview)
			}
		}
	}

	var prompt string
	switch m.mode {
	case modeAdd:
		prompt = "Add: " + m.input.View()
	case modeEdit:
		prompt = fmt.Sprintf("Edit #%d: %s", m.target, m.input.View())
	case modeConfirmDelete:
		prompt = fmt.Sprintf("Delete task #%d? (y/n)", m.target)
	}

	mini := ""
	if m.minibufferText != "" {
		mini = styleMinibuffer(m.minibufferIsErr).Render(m.minibufferText)
	}

	footer := styleMuted().Render(m.helpLine())
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", prompt, mini, footer)
}

func (m appModel) helpLine() string {
	switch m.mode {
	case modeAdd, modeEdit:
		return "enter: save  esc: cancel"
	case modeConfirmDelete:
		return "y: delete  any other key: cancel"
	}
	return strings.Join([]string{"a: add", "e: edit", "d: delete", "r: reload", "q: quit"}, "  ")
}
