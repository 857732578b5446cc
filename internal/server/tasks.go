package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
	"taskhub/internal/service"
)

type createTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	CategoryID     string     `json:"categoryId"`
	Tags           []string   `json:"tags"`
	EstimatedHours *float64   `json:"estimatedHours"`
}

type updateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Priority       *string    `json:"priority"`
	DueDate        *time.Time `json:"dueDate"`
	CategoryID     *string    `json:"categoryId"`
	Tags           *[]string  `json:"tags"`
	EstimatedHours *float64   `json:"estimatedHours"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), actingUser(r).ID, service.TaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       model.Priority(req.Priority),
		DueDate:        req.DueDate,
		CategoryID:     req.CategoryID,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTaskFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := s.tasks.List(r.Context(), actingUser(r).ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", page)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), r.PathValue("id"), actingUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"task": task})
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := service.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		CategoryID:     req.CategoryID,
		Tags:           req.Tags,
		EstimatedHours: req.EstimatedHours,
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}

	task, err := s.tasks.Update(r.Context(), r.PathValue("id"), actingUser(r).ID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), r.PathValue("id"), actingUser(r).ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Task deleted successfully", nil)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.SetStatus(r.Context(), r.PathValue("id"), actingUser(r).ID, model.Status(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Task status updated", map[string]any{"task": task})
}

func (s *Server) handleSetPriority(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Priority string `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.SetPriority(r.Context(), r.PathValue("id"), actingUser(r).ID, model.Priority(req.Priority))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Task priority updated", map[string]any{"task": task})
}

func (s *Server) handleShareTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserEmail string `json:"userEmail"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := s.tasks.Share(r.Context(), r.PathValue("id"), actingUser(r).ID, req.UserEmail)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Task shared successfully", map[string]any{"task": task})
}

func (s *Server) handleListShared(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListShared(r.Context(), actingUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", map[string]any{"tasks": tasks})
}

func parseTaskFilter(r *http.Request) (service.TaskFilter, error) {
	q := r.URL.Query()
	filter := service.TaskFilter{
		Priority:   model.Priority(q.Get("priority")),
		CategoryID: q.Get("category"),
		Search:     q.Get("search"),
	}

	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, model.Status(strings.TrimSpace(s)))
		}
	}
	for param, dst := range map[string]**time.Time{"dueDate[gte]": &filter.DueFrom, "dueDate[lte]": &filter.DueTo} {
		if raw := q.Get(param); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return filter, apperror.Validationf("invalid %s value %q", param, raw)
			}
			*dst = &t
		}
	}
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperror.Validationf("invalid page value %q", raw)
		}
		filter.Page = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperror.Validationf("invalid limit value %q", raw)
		}
		filter.PageSize = n
	}
	// sortBy arrives as "field" or "field:direction".
	if raw := q.Get("sortBy"); raw != "" {
		field, dir, _ := strings.Cut(raw, ":")
		filter.SortBy = field
		filter.SortDir = dir
	}

	return filter, nil
}
