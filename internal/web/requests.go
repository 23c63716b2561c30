package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// taskForm is the body of POST /add.
type taskForm struct {
	Task string
}

// editForm is the body of POST /edit/{id}.
type editForm struct {
	NewTask string
}

// credentialsForm is the body of POST /login and POST /signup.
type credentialsForm struct {
	Username string
	Password string
	Next     string
}

// taskRequest is the JSON body of POST /api/tasks and PUT /api/tasks/{id}.
// Content is a pointer so a missing key and an empty string both read as "no content".
type taskRequest struct {
	Content *string `json:"content"`
}

func (t taskRequest) content() string {
	if t.Content == nil {
		return ""
	}
	return *t.Content
}

type taskResponse struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return r.ParseForm()
}

func decodeTaskForm(w http.ResponseWriter, r *http.Request) (taskForm, error) {
	if err := parseForm(w, r); err != nil {
		return taskForm{}, err
	}
	return taskForm{Task: r.PostForm.Get("task")}, nil
}

func decodeEditForm(w http.ResponseWriter, r *http.Request) (editForm, error) {
	if err := parseForm(w, r); err != nil {
		return editForm{}, err
	}
	return editForm{NewTask: r.PostForm.Get("new_task")}, nil
}

func decodeCredentialsForm(w http.ResponseWriter, r *http.Request) (credentialsForm, error) {
	if err := parseForm(w, r); err != nil {
		return credentialsForm{}, err
	}
	next := r.PostForm.Get("next")
	if next == "" {
		next = r.URL.Query().Get("next")
	}
	return credentialsForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
		Next:     next,
	}, nil
}

func decodeTaskRequest(w http.ResponseWriter, r *http.Request) (taskRequest, error) {
	var req taskRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return taskRequest{}, err
	}
	return req, nil
}

// taskIDParam reads the {id} path parameter. ok is false for non-numeric ids.
func taskIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
