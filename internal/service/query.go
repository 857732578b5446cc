package service

import (
	"context"
	"time"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// sortColumns is the closed set of sortable fields, keyed by API field name.
var sortColumns = map[string]string{
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
	"dueDate":        "due_date",
	"title":          "title",
	"priority":       "priority",
	"status":         "status",
	"estimatedHours": "estimated_hours",
}

// TaskFilter describes a task listing request. Zero values mean "no filter";
// pagination and sorting fall back to page 1, size 10, createdAt descending.
type TaskFilter struct {
	Statuses   []model.Status
	Priority   model.Priority
	CategoryID string
	Search     string
	DueFrom    *time.Time
	DueTo      *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortDir    string
}

// Pagination describes the page that was returned.
type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"limit"`
	Pages    int   `json:"pages"`
}

// StatusCounts aggregates all of a user's tasks per status. The JSON field
// names mirror the stored API contract.
type StatusCounts struct {
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Archived   int64 `json:"archived"`
}

// Total sums the four buckets.
func (s StatusCounts) Total() int64 {
	return s.Todo + s.InProgress + s.Completed + s.Archived
}

// TaskPage is one page of tasks plus pagination metadata and the user-wide
// status stats.
type TaskPage struct {
	Tasks      []model.Task `json:"tasks"`
	Pagination Pagination   `json:"pagination"`
	Stats      StatusCounts `json:"stats"`
}

// QueryEngine builds filtered, sorted, paginated listings of a user's own
// tasks. It is read-only and stateless; shared tasks never appear here.
type QueryEngine struct {
	tasks *repository.TaskRepository
}

func NewQueryEngine(tasks *repository.TaskRepository) *QueryEngine {
	return &QueryEngine{tasks: tasks}
}

// List returns the requested page of the acting user's tasks. Stats are
// always computed over all of the user's tasks, ignoring the page filters.
func (q *QueryEngine) List(ctx context.Context, actingUserID string, filter TaskFilter) (*TaskPage, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperror.Validationf("invalid status value %q", status)
		}
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, apperror.Validationf("invalid priority value %q", filter.Priority)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, apperror.Validationf("cannot sort by %q", sortBy)
	}
	sortDesc := true
	switch filter.SortDir {
	case "", "desc":
	case "asc":
		sortDesc = false
	default:
		return nil, apperror.Validationf("invalid sort direction %q", filter.SortDir)
	}

	page := filter.Page
	if page < 1 {
		page = defaultPage
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	tasks, total, err := q.tasks.FindPage(ctx, actingUserID, repository.TaskQuery{
		Statuses:   filter.Statuses,
		Priority:   filter.Priority,
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		DueFrom:    filter.DueFrom,
		DueTo:      filter.DueTo,
		SortColumn: column,
		SortDesc:   sortDesc,
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		return nil, err
	}

	counts, err := q.tasks.CountByStatus(ctx, actingUserID)
	if err != nil {
		return nil, err
	}

	return &TaskPage{
		Tasks: tasks,
		Pagination: Pagination{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Pages:    int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
		Stats: StatusCounts{
			Todo:       counts[model.StatusTodo],
			InProgress: counts[model.StatusInProgress],
			Completed:  counts[model.StatusCompleted],
			Archived:   counts[model.StatusArchived],
		},
	}, nil
}
