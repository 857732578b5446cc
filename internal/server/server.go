// Package server is the thin JSON transport over the task, category and user
// services. It owns no business rules: it decodes requests, resolves the
// acting user and maps typed service errors to status codes.
package server

import (
	"context"
	"net/http"
	"strings"

	"taskhub/internal/apperror"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/service"
)

// TokenResolver turns a bearer token into the acting user. Token format and
// verification are deliberately pluggable; the default resolver in main
// treats the token as an opaque user identifier.
type TokenResolver func(ctx context.Context, token string) (*model.User, error)

type Server struct {
	users      *service.UserService
	tasks      *service.TaskService
	categories *service.CategoryService
	resolve    TokenResolver
}

func New(users *service.UserService, tasks *service.TaskService, categories *service.CategoryService, resolve TokenResolver) *Server {
	return &Server{users: users, tasks: tasks, categories: categories, resolve: resolve}
}

// Routes builds the API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.Handle("GET /api/auth/me", s.requireUser(s.handleMe))

	mux.Handle("GET /api/tasks", s.requireUser(s.handleListTasks))
	mux.Handle("POST /api/tasks", s.requireUser(s.handleCreateTask))
	mux.Handle("GET /api/tasks/shared", s.requireUser(s.handleListShared))
	mux.Handle("GET /api/tasks/{id}", s.requireUser(s.handleGetTask))
	mux.Handle("PUT /api/tasks/{id}", s.requireUser(s.handleUpdateTask))
	mux.Handle("DELETE /api/tasks/{id}", s.requireUser(s.handleDeleteTask))
	mux.Handle("PUT /api/tasks/{id}/status", s.requireUser(s.handleSetStatus))
	mux.Handle("PUT /api/tasks/{id}/priority", s.requireUser(s.handleSetPriority))
	mux.Handle("POST /api/tasks/{id}/share", s.requireUser(s.handleShareTask))

	mux.Handle("GET /api/categories", s.requireUser(s.handleListCategories))
	mux.Handle("POST /api/categories", s.requireUser(s.handleCreateCategory))
	mux.Handle("DELETE /api/categories/{id}", s.requireUser(s.handleDeleteCategory))

	return mux
}

// requireUser resolves the bearer token and stores the user in the request
// context.
func (s *Server) requireUser(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, apperror.New(apperror.KindUnauthorized, "not authorized to access this route"))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		user, err := s.resolve(r.Context(), token)
		if err != nil {
			writeError(w, apperror.New(apperror.KindUnauthorized, "invalid or expired token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

// actingUser returns the authenticated user placed by requireUser.
func actingUser(r *http.Request) *model.User {
	user, _ := auth.UserFromContext(r.Context())
	return user
}
