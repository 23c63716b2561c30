package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-web/internal/model"
)

// CreateAccount inserts a new account. A duplicate username yields ErrUsernameTaken,
// including when two signups race past the caller's existence check.
func (s *Store) CreateAccount(ctx context.Context, username, password string) (model.Account, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts(username, password, created_at_unixms) VALUES(?, ?, ?)`,
		username, password, now.UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, ErrUsernameTaken
		}
		return model.Account{}, fmt.Errorf("store: create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Account{}, err
	}
	return model.Account{
		ID:        id,
		Username:  username,
		Password:  password,
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

func (s *Store) AccountByID(ctx context.Context, id int64) (model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at_unixms FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (s *Store) AccountByUsername(ctx context.Context, username string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at_unixms FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, password, created_at_unixms FROM accounts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(sc scanner) (model.Account, error) {
	var a model.Account
	var createdMs int64
	if err := sc.Scan(&a.ID, &a.Username, &a.Password, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, ErrNotFound
		}
		return model.Account{}, err
	}
	a.CreatedAt = time.UnixMilli(createdMs).UTC()
	return a, nil
}
