package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
)

// TaskQuery is the persistence-level shape of a task listing. SortColumn must
// come from the query layer's whitelist; it is interpolated into ORDER BY.
type TaskQuery struct {
	Statuses   []model.Status
	Priority   model.Priority
	CategoryID string
	Search     string
	DueFrom    *time.Time
	DueTo      *time.Time
	SortColumn string
	SortDesc   bool
	Offset     int
	Limit      int
}

// TaskRepository handles CRUD and filtered reads for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return apperror.Internal("create task", err)
	}
	return nil
}

// GetByID fetches a task with its category summary attached. Ownership is not
// checked here; shared readers also reach tasks through this path.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", taskID).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperror.NotFoundf("task %s not found", taskID)
	default:
		return nil, apperror.Internal("find task", err)
	}
}

// Save persists the task's own columns; preloaded associations are never
// written back.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error; err != nil {
		return apperror.Internal("save task", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", taskID).Delete(&model.Task{}).Error; err != nil {
		return apperror.Internal("delete task", err)
	}
	return nil
}

// FindPage returns one page of the owner's tasks matching q, plus the total
// match count before pagination.
func (r *TaskRepository) FindPage(ctx context.Context, ownerID string, q TaskQuery) ([]model.Task, int64, error) {
	scope := r.db.WithContext(ctx).Model(&model.Task{}).Where("owner_id = ?", ownerID)

	if len(q.Statuses) > 0 {
		scope = scope.Where("status IN ?", q.Statuses)
	}
	if q.Priority != "" {
		scope = scope.Where("priority = ?", q.Priority)
	}
	if q.CategoryID != "" {
		scope = scope.Where("category_id = ?", q.CategoryID)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		scope = scope.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if q.DueFrom != nil {
		scope = scope.Where("due_date >= ?", *q.DueFrom)
	}
	if q.DueTo != nil {
		scope = scope.Where("due_date <= ?", *q.DueTo)
	}

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("count tasks", err)
	}

	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}

	var tasks []model.Task
	if err := scope.Preload("Category").
		Order(fmt.Sprintf("%s %s", q.SortColumn, direction)).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, apperror.Internal("list tasks", err)
	}
	return tasks, total, nil
}

// CountByStatus groups all of the owner's tasks by status, regardless of any
// listing filters.
func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID string) (map[model.Status]int64, error) {
	var rows []struct {
		Status model.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, apperror.Internal("count tasks by status", err)
	}

	counts := make(map[model.Status]int64, len(model.AllStatuses))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// ListSharedWith returns every task whose sharing set contains userID, with
// category and owner summaries attached.
func (r *TaskRepository) ListSharedWith(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Category").Preload("Owner").
		Where("EXISTS (SELECT 1 FROM json_each(tasks.shared_with) WHERE json_each.value = ?)", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, apperror.Internal("list shared tasks", err)
	}
	return tasks, nil
}

// ClearCategoryRefs detaches every task referencing the category. Used on
// category deletion; tasks themselves are never cascaded.
func (r *TaskRepository) ClearCategoryRefs(ctx context.Context, categoryID string) error {
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("category_id = ?", categoryID).
		UpdateColumn("category_id", nil).Error; err != nil {
		return apperror.Internal("clear category references", err)
	}
	return nil
}
