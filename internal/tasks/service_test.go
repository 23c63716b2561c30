package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"todo-web/internal/model"
	"todo-web/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	st    *store.Store
	svc   *Service
	alice model.Account
	bob   model.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "todo.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	alice, err := st.CreateAccount(ctx, "alice", "pw1")
	require.NoError(t, err)
	bob, err := st.CreateAccount(ctx, "bob", "pw2")
	require.NoError(t, err)
	return fixture{st: st, svc: NewService(st), alice: alice, bob: bob}
}

func TestAdd_EmptyContentIsRejectedWithoutWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.alice.ID, "")
	require.ErrorIs(t, err, ErrEmptyContent)
	n, err := f.st.CountTasks(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdd_StoresContentAsSubmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, content := range []string{"  padded  ", "   ", "\n\t"} {
		task, err := f.svc.Add(ctx, f.alice.ID, content)
		require.NoError(t, err, "content %q", content)
		stored, err := f.st.Task(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, content, stored.Content)
	}
}

func TestAdd_TooLong(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Add(context.Background(), f.alice.ID, strings.Repeat("x", model.MaxContentLen+1))
	require.ErrorIs(t, err, ErrContentTooLong)

	task, err := f.svc.Add(context.Background(), f.alice.ID, strings.Repeat("é", model.MaxContentLen))
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, task.AccountID)
}

func TestList_IsScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1, err := f.svc.Add(ctx, f.alice.ID, "buy milk")
	require.NoError(t, err)
	_, err = f.svc.Add(ctx, f.bob.ID, "fix bike")
	require.NoError(t, err)

	aliceTasks, err := f.svc.List(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceTasks, 1)
	assert.Equal(t, a1.ID, aliceTasks[0].ID)

	bobTasks, err := f.svc.List(ctx, f.bob.ID)
	require.NoError(t, err)
	for _, bt := range bobTasks {
		assert.NotEqual(t, a1.ID, bt.ID)
	}
}

func TestGet_OwnershipAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, f.alice.ID, "buy milk")
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Content)

	_, err = f.svc.Get(ctx, f.bob.ID, task.ID)
	var oo OwnerOnlyError
	require.True(t, errors.As(err, &oo))
	assert.Equal(t, f.alice.ID, oo.OwnerID)
	assert.True(t, IsNotFoundOrUnauthorized(err))

	_, err = f.svc.Get(ctx, f.alice.ID, task.ID+99)
	var nf NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.True(t, IsNotFoundOrUnauthorized(err))
}

func TestEdit_ForeignTaskIsNeverMutated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, f.alice.ID, "original")
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, f.bob.ID, task.ID, "hijacked")
	require.ErrorAs(t, err, &OwnerOnlyError{})

	// Ownership wins over content validation.
	_, err = f.svc.Edit(ctx, f.bob.ID, task.ID, "")
	require.ErrorAs(t, err, &OwnerOnlyError{})

	stored, err := f.st.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Content)

	edited, err := f.svc.Edit(ctx, f.alice.ID, task.ID, "  updated  ")
	require.NoError(t, err)
	assert.Equal(t, "  updated  ", edited.Content)

	_, err = f.svc.Edit(ctx, f.alice.ID, task.ID, "")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestDelete_ThenGetReportsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, f.alice.ID, "short lived")
	require.NoError(t, err)

	require.ErrorAs(t, f.svc.Delete(ctx, f.bob.ID, task.ID), &OwnerOnlyError{})
	_, err = f.svc.Get(ctx, f.alice.ID, task.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.alice.ID, task.ID))
	_, err = f.svc.Get(ctx, f.alice.ID, task.ID)
	require.ErrorAs(t, err, &NotFoundError{})

	require.ErrorAs(t, f.svc.Delete(ctx, f.alice.ID, task.ID), &NotFoundError{})
}
