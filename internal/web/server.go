package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"todo-web/internal/app"
	"todo-web/internal/auth"
	"todo-web/internal/logging"
	"todo-web/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// Server renders the HTML pages and the JSON API over one App.
type Server struct {
	app  *app.App
	log  *slog.Logger
	tmpl *template.Template
}

func NewServer(a *app.App) (*Server, error) {
	if a == nil {
		return nil, errors.New("web: nil app")
	}
	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"markdown": renderMarkdownHTML,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{app: a, log: a.Logger, tmpl: tmpl}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.AccessLog(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/static/app.css", s.handleAppCSS)

	r.Get("/login", s.handleLoginGet)
	r.Post("/login", s.handleLoginPost)
	r.Get("/signup", s.handleSignupGet)
	r.Post("/signup", s.handleSignupPost)

	r.Group(func(r chi.Router) {
		r.Use(s.app.Sessions.RequireSession)

		r.Get("/", s.handleIndex)
		r.Post("/add", s.handleAdd)
		r.Get("/edit/{id}", s.handleEditGet)
		r.Post("/edit/{id}", s.handleEditPost)
		r.Get("/delete/{id}", s.handleDelete)
		r.Get("/logout", s.handleLogout)

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", s.handleAPIList)
			r.Post("/", s.handleAPICreate)
			r.Get("/{id}", s.handleAPIGet)
			r.Put("/{id}", s.handleAPIUpdate)
			r.Delete("/{id}", s.handleAPIDelete)
		})
	})
	return r
}

type baseVM struct {
	Now      string
	Username string
	Flashes  []auth.Flash
}

func (s *Server) baseVMForRequest(w http.ResponseWriter, r *http.Request, extra ...auth.Flash) baseVM {
	vm := baseVM{
		Now:     time.Now().Format(time.RFC3339),
		Flashes: append(s.app.Sessions.Flashes(w, r), extra...),
	}
	if a, ok := auth.AccountFrom(r.Context()); ok {
		vm.Username = a.Username
	}
	return vm
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("err", err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// currentAccount is only valid behind RequireSession.
func currentAccount(r *http.Request) model.Account {
	a, _ := auth.AccountFrom(r.Context())
	return a
}

func (s *Server) flash(w http.ResponseWriter, r *http.Request, category auth.FlashCategory, msg string) {
	if err := s.app.Sessions.AddFlash(w, r, auth.Flash{Category: category, Message: msg}); err != nil {
		s.log.WarnContext(r.Context(), "flash dropped", slog.Any("err", err))
	}
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
