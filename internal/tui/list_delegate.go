package tui

import (
	"fmt"
	"io"
	"strings"

	"todo-web/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Content }
func (i taskItem) Title() string       { return fmt.Sprintf("#%d  %s", i.task.ID, i.task.Content) }

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := xansi.Truncate(txt, contentW, "…")
	if lineW := xansi.StringWidth(line); lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	}

	fmt.Fprint(w, style.Render(line))
}
