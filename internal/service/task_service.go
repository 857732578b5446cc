package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"taskhub/internal/apperror"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const maxTitleLength = 200

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title          string
	Description    string
	Priority       model.Priority
	DueDate        *time.Time
	CategoryID     string
	Tags           []string
	EstimatedHours *float64
}

// TaskPatch carries partial updates. Nil fields are left untouched. A non-nil
// CategoryID pointing at the empty string detaches the task from its category.
type TaskPatch struct {
	Title          *string
	Description    *string
	Priority       *model.Priority
	DueDate        *time.Time
	Tags           *[]string
	EstimatedHours *float64
	CategoryID     *string
}

// TaskService orchestrates task mutations. Every operation runs in the order
// authorization check, domain validation, counter adjustment, persistence
// write, so a rejected request never touches a category count. Multi-step
// writes share one store transaction.
type TaskService struct {
	store   *repository.Store
	queries *QueryEngine
}

func NewTaskService(store *repository.Store) *TaskService {
	return &TaskService{store: store, queries: NewQueryEngine(store.Tasks)}
}

// Create validates the input, resolves and authorizes the category if one is
// given, bumps its count and persists the task, all in one transaction. The
// task always starts in todo, owned by the acting user.
func (s *TaskService) Create(ctx context.Context, actingUserID string, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperror.Validationf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, apperror.Validationf("title cannot exceed %d characters", maxTitleLength)
	}
	if input.Priority == "" {
		return nil, apperror.Validationf("priority is required")
	}
	if !input.Priority.Valid() {
		return nil, apperror.Validationf("invalid priority value %q", input.Priority)
	}
	if input.DueDate != nil && !input.DueDate.After(time.Now()) {
		return nil, apperror.Validationf("due date must be in the future")
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, apperror.Validationf("estimated hours cannot be negative")
	}

	task := &model.Task{
		OwnerID:        actingUserID,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Status:         model.StatusTodo,
		Priority:       input.Priority,
		DueDate:        input.DueDate,
		Tags:           normalizeTags(input.Tags),
		EstimatedHours: input.EstimatedHours,
		SharedWith:     []string{},
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if input.CategoryID != "" {
			category, err := tx.Categories.GetByID(ctx, input.CategoryID)
			if err != nil {
				return err
			}
			if !auth.ForCategory(category, actingUserID).CanWrite() {
				return apperror.Forbidden("not authorized for this category")
			}
			if err := NewCategoryCounter(tx.Categories).Increment(ctx, category.ID); err != nil {
				return err
			}
			task.CategoryID = &category.ID
		}
		return tx.Tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	// Re-read so the category summary comes back populated.
	return s.store.Tasks.GetByID(ctx, task.ID)
}

// Get returns the task when the acting user is its owner or a shared reader.
func (s *TaskService) Get(ctx context.Context, taskID, actingUserID string) (*model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !auth.ForTask(task, actingUserID).CanRead() {
		return nil, apperror.Forbidden("not authorized to access this task")
	}
	return task, nil
}

// List returns one page of the acting user's tasks plus per-status stats.
func (s *TaskService) List(ctx context.Context, actingUserID string, filter TaskFilter) (*TaskPage, error) {
	return s.queries.List(ctx, actingUserID, filter)
}

// Update applies a patch to an owned task. When the patch moves the task to a
// different category, the new category is resolved and authorized and both
// counts are adjusted in the same transaction as the task write.
func (s *TaskService) Update(ctx context.Context, taskID, actingUserID string, patch TaskPatch) (*model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !auth.ForTask(task, actingUserID).CanWrite() {
		return nil, apperror.Forbidden("not authorized")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.Validationf("title is required")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return nil, apperror.Validationf("title cannot exceed %d characters", maxTitleLength)
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperror.Validationf("invalid priority value %q", *patch.Priority)
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		// Due dates are only checked against the clock at creation time.
		task.DueDate = patch.DueDate
	}
	if patch.Tags != nil {
		task.Tags = normalizeTags(*patch.Tags)
	}
	if patch.EstimatedHours != nil {
		if *patch.EstimatedHours < 0 {
			return nil, apperror.Validationf("estimated hours cannot be negative")
		}
		task.EstimatedHours = patch.EstimatedHours
	}

	currentCategory := ""
	if task.CategoryID != nil {
		currentCategory = *task.CategoryID
	}
	desiredCategory := currentCategory
	if patch.CategoryID != nil {
		desiredCategory = *patch.CategoryID
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if desiredCategory != currentCategory {
			if desiredCategory != "" {
				category, err := tx.Categories.GetByID(ctx, desiredCategory)
				if err != nil {
					return err
				}
				if !auth.ForCategory(category, actingUserID).CanWrite() {
					return apperror.Forbidden("not authorized for this category")
				}
			}
			if err := NewCategoryCounter(tx.Categories).Reassign(ctx, currentCategory, desiredCategory); err != nil {
				return err
			}
			if desiredCategory == "" {
				task.CategoryID = nil
			} else {
				task.CategoryID = &desiredCategory
			}
			task.Category = nil
		}
		return tx.Tasks.Save(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	return s.store.Tasks.GetByID(ctx, task.ID)
}

// Delete removes an owned task, releasing its category reference in the same
// transaction.
func (s *TaskService) Delete(ctx context.Context, taskID, actingUserID string) error {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !auth.ForTask(task, actingUserID).CanWrite() {
		return apperror.Forbidden("not authorized")
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if task.CategoryID != nil {
			if err := NewCategoryCounter(tx.Categories).Decrement(ctx, *task.CategoryID); err != nil {
				return err
			}
		}
		return tx.Tasks.Delete(ctx, task.ID)
	})
}

// SetStatus moves an owned task through the status state machine. Entering
// completed stamps CompletedAt; landing on any other status clears it.
func (s *TaskService) SetStatus(ctx context.Context, taskID, actingUserID string, newStatus model.Status) (*model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !auth.ForTask(task, actingUserID).CanWrite() {
		return nil, apperror.Forbidden("not authorized")
	}
	if !newStatus.Valid() {
		return nil, apperror.Validationf("invalid status value %q", newStatus)
	}
	if !task.Status.CanTransitionTo(newStatus) {
		return nil, apperror.InvalidTransition(string(task.Status), string(newStatus))
	}

	task.Status = newStatus
	if newStatus == model.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetPriority changes an owned task's priority. Priority is independent of
// status.
func (s *TaskService) SetPriority(ctx context.Context, taskID, actingUserID string, newPriority model.Priority) (*model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !auth.ForTask(task, actingUserID).CanWrite() {
		return nil, apperror.Forbidden("not authorized")
	}
	if !newPriority.Valid() {
		return nil, apperror.Validationf("invalid priority value %q", newPriority)
	}

	task.Priority = newPriority
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Share grants read-only access to another user, resolved by email when the
// target contains an @, otherwise by id. Sharing twice is a no-op.
func (s *TaskService) Share(ctx context.Context, taskID, actingUserID, target string) (*model.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !auth.ForTask(task, actingUserID).CanWrite() {
		return nil, apperror.Forbidden("not authorized")
	}

	target = strings.TrimSpace(target)
	var user *model.User
	if strings.Contains(target, "@") {
		user, err = s.store.Users.FindByEmail(ctx, strings.ToLower(target))
	} else {
		user, err = s.store.Users.FindByID(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	if user.ID == task.OwnerID {
		return nil, apperror.Validationf("cannot share a task with its owner")
	}
	if task.IsSharedWith(user.ID) {
		return task, nil
	}

	task.SharedWith = append(task.SharedWith, user.ID)
	if err := s.store.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListShared returns every task shared with the acting user, with category and
// owner summaries attached.
func (s *TaskService) ListShared(ctx context.Context, actingUserID string) ([]model.Task, error) {
	return s.store.Tasks.ListSharedWith(ctx, actingUserID)
}

// normalizeTags trims entries, drops empties and removes duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
