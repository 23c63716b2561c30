package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo-web/internal/model"
	"todo-web/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "todo.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestSessions(t *testing.T, st *store.Store) *Sessions {
	t.Helper()
	s, err := NewSessions(SessionsConfig{Secret: []byte("test-secret"), Accounts: st})
	require.NoError(t, err)
	return s
}

// carry copies the response's cookies onto a new request, like a browser would.
func carry(t *testing.T, rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(c)
	}
	return req
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := NewService(st)

	alice, err := svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrUsernameTaken)

	all, err := st.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = svc.Login(ctx, "alice", "pw2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "carol", "pw1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignup_Validation(t *testing.T) {
	svc := NewService(newTestStore(t))
	ctx := context.Background()

	_, err := svc.Signup(ctx, "  ", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = svc.Signup(ctx, "dave", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = svc.Signup(ctx, strings.Repeat("u", model.MaxUsernameLen+1), "pw")
	assert.ErrorIs(t, err, ErrCredentialsTooLong)
}

func TestSessions_EstablishCurrentClear(t *testing.T) {
	st := newTestStore(t)
	s := newTestSessions(t, st)

	rec := httptest.NewRecorder()
	require.NoError(t, s.Establish(rec, 42))

	req := carry(t, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id, ok := s.Current(req)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	clr := httptest.NewRecorder()
	s.Clear(clr)
	cookies := clr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestSessions_RejectsForeignSignature(t *testing.T) {
	st := newTestStore(t)
	s := newTestSessions(t, st)
	other, err := NewSessions(SessionsConfig{Secret: []byte("another-secret"), Accounts: st})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, other.Establish(rec, 1))
	req := carry(t, rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := s.Current(req)
	assert.False(t, ok)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	_, ok = s.Current(req2)
	assert.False(t, ok)
}

func TestRequireSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	s := newTestSessions(t, st)
	alice, err := st.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	called := false
	var seen model.Account
	h := s.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = AccountFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fapi%2Ftasks", rec.Header().Get("Location"))

	login := httptest.NewRecorder()
	require.NoError(t, s.Establish(login, alice.ID))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, carry(t, login, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.True(t, called)
	assert.Equal(t, "alice", seen.Username)

	// A session for an account id that does not exist is treated as no session.
	called = false
	ghost := httptest.NewRecorder()
	require.NoError(t, s.Establish(ghost, alice.ID+1000))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, carry(t, ghost, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, clearsSession(rec))
}

type lockedFinder struct{}

func (lockedFinder) AccountByID(context.Context, int64) (model.Account, error) {
	return model.Account{}, errors.New("database is locked")
}

func TestRequireSession_StoreErrorKeepsSession(t *testing.T) {
	s, err := NewSessions(SessionsConfig{Secret: []byte("test-secret"), Accounts: lockedFinder{}})
	require.NoError(t, err)

	called := false
	h := s.RequireSession(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	login := httptest.NewRecorder()
	require.NoError(t, s.Establish(login, 7))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, carry(t, login, httptest.NewRequest(http.MethodGet, "/", nil)))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.False(t, clearsSession(rec))
}

func clearsSession(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestAddFlash_AccumulatesWithinOneResponse(t *testing.T) {
	s := newTestSessions(t, newTestStore(t))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/edit/1", nil)
	require.NoError(t, s.AddFlash(w, r, Flash{Category: FlashError, Message: "one"}))
	require.NoError(t, s.AddFlash(w, r, Flash{Category: FlashSuccess, Message: "two"}))

	var flashCookies int
	for _, c := range w.Result().Cookies() {
		if c.Name == FlashCookieName {
			flashCookies++
		}
	}
	assert.Equal(t, 1, flashCookies)

	got := s.Flashes(httptest.NewRecorder(), carry(t, w, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, "two", got[1].Message)
}

func TestAddFlash_AfterReadDoesNotRequeueConsumed(t *testing.T) {
	s := newTestSessions(t, newTestStore(t))

	first := httptest.NewRecorder()
	require.NoError(t, s.AddFlash(first, httptest.NewRequest(http.MethodPost, "/", nil), Flash{Category: FlashSuccess, Message: "old"}))

	w := httptest.NewRecorder()
	r := carry(t, first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, s.Flashes(w, r), 1)
	require.NoError(t, s.AddFlash(w, r, Flash{Category: FlashError, Message: "new"}))

	got := s.Flashes(httptest.NewRecorder(), carry(t, w, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)
}

func TestFlashes_AreReadOnce(t *testing.T) {
	s := newTestSessions(t, newTestStore(t))

	first := httptest.NewRecorder()
	require.NoError(t, s.AddFlash(first, httptest.NewRequest(http.MethodPost, "/login", nil), Flash{Category: FlashSuccess, Message: "one"}))

	second := httptest.NewRecorder()
	require.NoError(t, s.AddFlash(second, carry(t, first, httptest.NewRequest(http.MethodGet, "/", nil)), Flash{Category: FlashError, Message: "two"}))

	read := httptest.NewRecorder()
	req := carry(t, second, httptest.NewRequest(http.MethodGet, "/", nil))
	got := s.Flashes(read, req)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Message)
	assert.Equal(t, FlashError, got[1].Category)

	// The read response expires the cookie.
	var cleared bool
	for _, c := range read.Result().Cookies() {
		if c.Name == FlashCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
	assert.Empty(t, s.Flashes(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/api/tasks", SafeNext("/api/tasks"))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
	assert.Equal(t, "/", SafeNext(""))
}

func TestLoadOrInitSecretKey_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web", "secret.key")

	k1, err := LoadOrInitSecretKey(path)
	require.NoError(t, err)
	require.NotEmpty(t, k1)

	k2, err := LoadOrInitSecretKey(path)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	assert.Len(t, k1, MinSecretKeyLen)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrInitSecretKey_RejectsDamagedFile(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.key")
	require.NoError(t, os.WriteFile(short, []byte("c2hvcnQ\n"), 0o600))
	_, err := LoadOrInitSecretKey(short)
	require.ErrorContains(t, err, "need at least")

	garbage := filepath.Join(dir, "garbage.key")
	require.NoError(t, os.WriteFile(garbage, []byte("not base64 at all!\n"), 0o600))
	_, err = LoadOrInitSecretKey(garbage)
	require.Error(t, err)

	// Damaged files are reported, never overwritten.
	b, err := os.ReadFile(garbage)
	require.NoError(t, err)
	assert.Equal(t, "not base64 at all!\n", string(b))

	_, err = LoadOrInitSecretKey("  ")
	require.Error(t, err)
}
