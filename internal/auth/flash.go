package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

type FlashCategory string

const (
	FlashSuccess FlashCategory = "success"
	FlashError   FlashCategory = "error"
)

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Category FlashCategory `json:"c"`
	Message  string        `json:"m"`
}

type flashClaims struct {
	Flashes []Flash `json:"flashes"`
	jwt.RegisteredClaims
}

// AddFlash queues f for the next page, keeping any flashes still unread.
// Flashes already queued on w by this handler are kept too, so repeated calls
// accumulate instead of replacing each other.
func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) error {
	base, queued := s.queuedFlashes(w)
	if !queued {
		base = s.peekFlashes(r)
	}
	pending := append(base, f)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{Flashes: pending})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return err
	}
	dropSetCookie(w.Header(), FlashCookieName)
	http.SetCookie(w, s.cookie(FlashCookieName, signed))
	return nil
}

// Flashes returns the pending flashes and clears them.
func (s *Sessions) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	out := s.peekFlashes(r)
	if _, err := r.Cookie(FlashCookieName); err == nil {
		c := s.cookie(FlashCookieName, "")
		c.MaxAge = -1
		dropSetCookie(w.Header(), FlashCookieName)
		http.SetCookie(w, c)
	}
	return out
}

func (s *Sessions) peekFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	var claims flashClaims
	if err := s.parse(c.Value, &claims); err != nil {
		return nil
	}
	return claims.Flashes
}

// queuedFlashes reads the flash cookie this response already sets. queued is
// false when the response does not touch the flash cookie; a cookie cleared by
// Flashes counts as queued with nothing pending.
func (s *Sessions) queuedFlashes(w http.ResponseWriter) (pending []Flash, queued bool) {
	for _, line := range w.Header().Values("Set-Cookie") {
		c, err := http.ParseSetCookie(line)
		if err != nil || c.Name != FlashCookieName {
			continue
		}
		queued = true
		pending = nil
		if c.MaxAge < 0 || c.Value == "" {
			continue
		}
		var claims flashClaims
		if err := s.parse(c.Value, &claims); err == nil {
			pending = claims.Flashes
		}
	}
	return pending, queued
}

func dropSetCookie(h http.Header, name string) {
	lines := h.Values("Set-Cookie")
	if len(lines) == 0 {
		return
	}
	kept := lines[:0:0]
	for _, line := range lines {
		if c, err := http.ParseSetCookie(line); err == nil && c.Name == name {
			continue
		}
		kept = append(kept, line)
	}
	h.Del("Set-Cookie")
	for _, line := range kept {
		h.Add("Set-Cookie", line)
	}
}
