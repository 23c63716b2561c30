package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-web/internal/model"
)

const taskColumns = `id, content, account_id, created_at_unixms, updated_at_unixms`

// TasksByAccount returns the account's tasks in insertion order.
func (s *Store) TasksByAccount(ctx context.Context, accountID int64) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE account_id = ? ORDER BY id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Task looks a task up by id regardless of owner; ownership is the caller's check.
func (s *Store) Task(ctx context.Context, id int64) (model.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (s *Store) CreateTask(ctx context.Context, accountID int64, content string) (model.Task, error) {
	nowMs := time.Now().UTC().UnixMilli()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks(content, account_id, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?)`,
		content, accountID, nowMs, nowMs)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: create task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	ts := time.UnixMilli(nowMs).UTC()
	return model.Task{ID: id, Content: content, AccountID: accountID, CreatedAt: ts, UpdatedAt: ts}, nil
}

func (s *Store) UpdateTaskContent(ctx context.Context, id int64, content string) (model.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET content = ?, updated_at_unixms = ? WHERE id = ?`,
		content, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return model.Task{}, fmt.Errorf("store: update task: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return model.Task{}, err
	}
	return s.Task(ctx, id)
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) CountTasks(ctx context.Context, accountID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTask(sc scanner) (model.Task, error) {
	var t model.Task
	var createdMs, updatedMs int64
	if err := sc.Scan(&t.ID, &t.Content, &t.AccountID, &createdMs, &updatedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	t.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return t, nil
}
