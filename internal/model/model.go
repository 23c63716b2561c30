package model

import "time"

const (
	MaxUsernameLen = 80
	MaxPasswordLen = 80
	MaxContentLen  = 200
)

// Account is a login identity. Password is stored and compared as plain text.
type Account struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AccountID int64     `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether accountID is the task's owner.
func (t Task) OwnedBy(accountID int64) bool {
	return accountID != 0 && t.AccountID == accountID
}
