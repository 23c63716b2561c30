package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todo-web/internal/model"
	"todo-web/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "todo_session"
	FlashCookieName   = "todo_flash"
)

// AccountFinder resolves session account ids. A missing account must be
// reported as store.ErrNotFound.
type AccountFinder interface {
	AccountByID(ctx context.Context, id int64) (model.Account, error)
}

// Sessions binds requests to an account through an HS256-signed cookie.
// The token carries only the account id; there is no expiry.
type Sessions struct {
	secret   []byte
	accounts AccountFinder
	secure   bool
}

type SessionsConfig struct {
	Secret   []byte
	Accounts AccountFinder
	// Secure marks cookies HTTPS-only.
	Secure bool
}

func NewSessions(cfg SessionsConfig) (*Sessions, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: empty session secret")
	}
	if cfg.Accounts == nil {
		return nil, errors.New("auth: nil account finder")
	}
	return &Sessions{secret: cfg.Secret, accounts: cfg.Accounts, secure: cfg.Secure}, nil
}

// Establish starts a session for accountID.
func (s *Sessions) Establish(w http.ResponseWriter, accountID int64) error {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(accountID, 10),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(SessionCookieName, signed))
	return nil
}

func (s *Sessions) Clear(w http.ResponseWriter) {
	c := s.cookie(SessionCookieName, "")
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// Current returns the account id bound to the request's session cookie.
func (s *Sessions) Current(r *http.Request) (int64, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return 0, false
	}
	var claims jwt.RegisteredClaims
	if err := s.parse(c.Value, &claims); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RequireSession gates next behind a valid session. Requests without one are
// redirected to the login page; the operation is not executed.
func (s *Sessions) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.Current(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		a, err := s.accounts.AccountByID(r.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// Stale cookie for an account that no longer exists.
			s.Clear(w)
			redirectToLogin(w, r)
			return
		case err != nil:
			// Keep the session: a busy database must not log anyone out.
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), a)))
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// SafeNext returns next when it is a local absolute path, else "/".
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (s *Sessions) parse(raw string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return err
}

func (s *Sessions) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type accountCtxKey struct{}

func WithAccount(ctx context.Context, a model.Account) context.Context {
	return context.WithValue(ctx, accountCtxKey{}, a)
}

// AccountFrom returns the account RequireSession attached to ctx.
func AccountFrom(ctx context.Context) (model.Account, bool) {
	a, ok := ctx.Value(accountCtxKey{}).(model.Account)
	return a, ok
}
