// Package tui is a terminal front end for one account's task list.
package tui

import (
	"context"

	"todo-web/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// TaskService is the account-scoped task API the TUI drives.
type TaskService interface {
	List(ctx context.Context, accountID int64) ([]model.Task, error)
	Add(ctx context.Context, accountID int64, content string) (model.Task, error)
	Edit(ctx context.Context, accountID, id int64, content string) (model.Task, error)
	Delete(ctx context.Context, accountID, id int64) error
}

func Run(ctx context.Context, svc TaskService, acct model.Account) error {
	applyColorProfilePreference()
	m := newAppModel(ctx, svc, acct)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
