package web

import (
	"errors"
	"net/http"
	"strconv"

	"todo-web/internal/auth"
	"todo-web/internal/model"
	"todo-web/internal/tasks"
)

const (
	msgEditOwnerOnly   = "You can only edit your own tasks."
	msgDeleteOwnerOnly = "You can only delete your own tasks."
	msgContentTooLong  = "Tasks are limited to 200 characters."
	msgContentRequired = "Task content is required."

	msgLoginOK     = "Logged in successfully"
	msgLoginFailed = "Login failed. Check your username and password."
	msgSignupOK    = "Signup successful. Please login."
	msgSignupTaken = "Username already exists. Choose another username."
	msgSignupBlank = "Username and password are required."
	msgSignupLong  = "Username and password are limited to 80 characters."
	msgLoggedOut   = "Logged out successfully"
)

type indexVM struct {
	baseVM
	Tasks []model.Task
}

type editVM struct {
	baseVM
	Task model.Task
}

// credentialsVM echoes the submitted form. FormUsername must not be named
// Username: that would shadow baseVM.Username, which marks a logged-in header.
type credentialsVM struct {
	baseVM
	FormUsername string
	Next         string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	acct := currentAccount(r)
	list, err := s.app.Tasks.List(r.Context(), acct.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeHTMLTemplate(w, r, http.StatusOK, "index.html", indexVM{
		baseVM: s.baseVMForRequest(w, r),
		Tasks:  list,
	})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	form, err := decodeTaskForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err = s.app.Tasks.Add(r.Context(), currentAccount(r).ID, form.Task)
	switch {
	case err == nil, errors.Is(err, tasks.ErrEmptyContent):
		// Empty submissions are ignored.
	case errors.Is(err, tasks.ErrContentTooLong):
		s.flash(w, r, auth.FlashError, msgContentTooLong)
	default:
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleTaskError maps ownership errors for the HTML surface: a missing task is a
// silent redirect, a foreign task redirects with an explicit flash.
// It reports whether err was handled.
func (s *Server) handleTaskError(w http.ResponseWriter, r *http.Request, err error, ownerOnlyMsg string) bool {
	var nf tasks.NotFoundError
	var oo tasks.OwnerOnlyError
	switch {
	case err == nil:
		return false
	case errors.As(err, &nf):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &oo):
		s.flash(w, r, auth.FlashError, ownerOnlyMsg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		s.serverError(w, r, err)
	}
	return true
}

func (s *Server) handleEditGet(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	t, err := s.app.Tasks.Get(r.Context(), currentAccount(r).ID, id)
	if s.handleTaskError(w, r, err, msgEditOwnerOnly) {
		return
	}
	s.writeHTMLTemplate(w, r, http.StatusOK, "edit.html", editVM{
		baseVM: s.baseVMForRequest(w, r),
		Task:   t,
	})
}

func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	form, err := decodeEditForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err = s.app.Tasks.Edit(r.Context(), currentAccount(r).ID, id, form.NewTask)
	switch {
	case errors.Is(err, tasks.ErrEmptyContent):
		s.flash(w, r, auth.FlashError, msgContentRequired)
		http.Redirect(w, r, "/edit/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	case errors.Is(err, tasks.ErrContentTooLong):
		s.flash(w, r, auth.FlashError, msgContentTooLong)
		http.Redirect(w, r, "/edit/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}
	if s.handleTaskError(w, r, err, msgEditOwnerOnly) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := s.app.Tasks.Delete(r.Context(), currentAccount(r).ID, id)
	if s.handleTaskError(w, r, err, msgDeleteOwnerOnly) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, r, http.StatusOK, "login.html", credentialsVM{
		baseVM: s.baseVMForRequest(w, r),
		Next:   r.URL.Query().Get("next"),
	})
}

func (s *Server) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	form, err := decodeCredentialsForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	acct, err := s.app.Auth.Login(r.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.writeHTMLTemplate(w, r, http.StatusOK, "login.html", credentialsVM{
			baseVM:       s.baseVMForRequest(w, r, auth.Flash{Category: auth.FlashError, Message: msgLoginFailed}),
			FormUsername: form.Username,
			Next:         form.Next,
		})
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.app.Sessions.Establish(w, acct.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.flash(w, r, auth.FlashSuccess, msgLoginOK)
	http.Redirect(w, r, auth.SafeNext(form.Next), http.StatusSeeOther)
}

func (s *Server) handleSignupGet(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, r, http.StatusOK, "signup.html", credentialsVM{
		baseVM: s.baseVMForRequest(w, r),
	})
}

func (s *Server) handleSignupPost(w http.ResponseWriter, r *http.Request) {
	form, err := decodeCredentialsForm(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err = s.app.Auth.Signup(r.Context(), form.Username, form.Password)
	var msg string
	switch {
	case err == nil:
		s.flash(w, r, auth.FlashSuccess, msgSignupOK)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, auth.ErrUsernameTaken):
		msg = msgSignupTaken
	case errors.Is(err, auth.ErrMissingCredentials):
		msg = msgSignupBlank
	case errors.Is(err, auth.ErrCredentialsTooLong):
		msg = msgSignupLong
	default:
		s.serverError(w, r, err)
		return
	}
	s.writeHTMLTemplate(w, r, http.StatusOK, "signup.html", credentialsVM{
		baseVM:       s.baseVMForRequest(w, r, auth.Flash{Category: auth.FlashError, Message: msg}),
		FormUsername: form.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Sessions.Clear(w)
	s.flash(w, r, auth.FlashSuccess, msgLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
