// Package tasks implements task CRUD scoped to the owning account.
package tasks

import (
	"context"
	"errors"
	"unicode/utf8"

	"todo-web/internal/model"
	"todo-web/internal/store"
)

// Repository is the slice of the store the service needs.
type Repository interface {
	TasksByAccount(ctx context.Context, accountID int64) ([]model.Task, error)
	Task(ctx context.Context, id int64) (model.Task, error)
	CreateTask(ctx context.Context, accountID int64, content string) (model.Task, error)
	UpdateTaskContent(ctx context.Context, id int64, content string) (model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, accountID int64) ([]model.Task, error) {
	return s.repo.TasksByAccount(ctx, accountID)
}

// Add creates a task owned by accountID. Empty content returns ErrEmptyContent and
// writes nothing.
func (s *Service) Add(ctx context.Context, accountID int64, content string) (model.Task, error) {
	if err := validateContent(content); err != nil {
		return model.Task{}, err
	}
	return s.repo.CreateTask(ctx, accountID, content)
}

// Get returns the task if accountID owns it.
func (s *Service) Get(ctx context.Context, accountID, id int64) (model.Task, error) {
	t, err := s.repo.Task(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Task{}, NotFoundError{ID: id}
		}
		return model.Task{}, err
	}
	if !t.OwnedBy(accountID) {
		return model.Task{}, OwnerOnlyError{AccountID: accountID, OwnerID: t.AccountID, TaskID: id}
	}
	return t, nil
}

// Edit replaces the content of a task owned by accountID.
// Ownership is checked before the new content is validated.
func (s *Service) Edit(ctx context.Context, accountID, id int64, content string) (model.Task, error) {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return model.Task{}, err
	}
	if err := validateContent(content); err != nil {
		return model.Task{}, err
	}
	t, err := s.repo.UpdateTaskContent(ctx, id, content)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the ownership check and the write.
		return model.Task{}, NotFoundError{ID: id}
	}
	return t, err
}

func (s *Service) Delete(ctx context.Context, accountID, id int64) error {
	if _, err := s.Get(ctx, accountID, id); err != nil {
		return err
	}
	err := s.repo.DeleteTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError{ID: id}
	}
	return err
}

// validateContent accepts content exactly as submitted: only the empty string
// counts as missing, and surrounding whitespace is kept.
func validateContent(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > model.MaxContentLen {
		return ErrContentTooLong
	}
	return nil
}
