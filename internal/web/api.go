package web

import (
	"errors"
	"log/slog"
	"net/http"

	"todo-web/internal/tasks"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	apiMsgNotFound       = "Task not found or unauthorized"
	apiMsgContentMissing = "Task content is required"
	apiMsgContentTooLong = "Task content is too long"
	apiMsgInvalidJSON    = "Request body must be a JSON object"
)

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Tasks.List(r.Context(), currentAccount(r).ID)
	if err != nil {
		s.apiServerError(w, r, err)
		return
	}
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, taskResponse{ID: t.ID, Content: t.Content})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAPICreate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTaskRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiMsgInvalidJSON})
		return
	}
	t, err := s.app.Tasks.Add(r.Context(), currentAccount(r).ID, req.content())
	if s.apiContentError(w, err) {
		return
	}
	if err != nil {
		s.apiServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Task created successfully", ID: t.ID})
}

func (s *Server) handleAPIGet(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apiMsgNotFound})
		return
	}
	t, err := s.app.Tasks.Get(r.Context(), currentAccount(r).ID, id)
	if s.apiTaskError(w, r, err) {
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{ID: t.ID, Content: t.Content})
}

func (s *Server) handleAPIUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apiMsgNotFound})
		return
	}
	acctID := currentAccount(r).ID

	req, decodeErr := decodeTaskRequest(w, r)
	if decodeErr != nil {
		// Ownership is reported before body problems.
		if _, err := s.app.Tasks.Get(r.Context(), acctID, id); s.apiTaskError(w, r, err) {
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiMsgInvalidJSON})
		return
	}

	_, err := s.app.Tasks.Edit(r.Context(), acctID, id, req.content())
	if s.apiContentError(w, err) || s.apiTaskError(w, r, err) {
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Task updated successfully"})
}

func (s *Server) handleAPIDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apiMsgNotFound})
		return
	}
	err := s.app.Tasks.Delete(r.Context(), currentAccount(r).ID, id)
	if s.apiTaskError(w, r, err) {
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

// apiTaskError answers not-found and not-owner with the same 404 body.
// It reports whether err was handled.
func (s *Server) apiTaskError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case tasks.IsNotFoundOrUnauthorized(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apiMsgNotFound})
	default:
		s.apiServerError(w, r, err)
	}
	return true
}

func (s *Server) apiContentError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, tasks.ErrEmptyContent):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiMsgContentMissing})
	case errors.Is(err, tasks.ErrContentTooLong):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiMsgContentTooLong})
	default:
		return false
	}
	return true
}

func (s *Server) apiServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "api request failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("err", err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
