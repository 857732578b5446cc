package service

import (
	"context"

	"taskhub/internal/repository"
)

// CategoryCounter maintains the invariant that a category's stored task_count
// equals the number of tasks referencing it. All adjustments go through
// single-statement relative updates; the count is never read, modified and
// written back.
type CategoryCounter struct {
	categories *repository.CategoryRepository
}

func NewCategoryCounter(categories *repository.CategoryRepository) *CategoryCounter {
	return &CategoryCounter{categories: categories}
}

func (c *CategoryCounter) Increment(ctx context.Context, categoryID string) error {
	return c.categories.IncrementTaskCount(ctx, categoryID)
}

// Decrement lowers the count by one. Unknown categories and counts already at
// zero are a no-op.
func (c *CategoryCounter) Decrement(ctx context.Context, categoryID string) error {
	return c.categories.DecrementTaskCount(ctx, categoryID)
}

// Reassign moves one reference between categories. Either side may be empty
// (task had no category, or is being detached). Callers run it inside a store
// transaction together with the task write, so a failure cannot leave a
// half-applied move.
func (c *CategoryCounter) Reassign(ctx context.Context, fromID, toID string) error {
	if fromID == toID {
		return nil
	}
	if fromID != "" {
		if err := c.Decrement(ctx, fromID); err != nil {
			return err
		}
	}
	if toID != "" {
		if err := c.Increment(ctx, toID); err != nil {
			return err
		}
	}
	return nil
}

// Reconcile rewrites any drifted counts from the true number of referencing
// tasks. It is idempotent and safe next to foreground traffic; the scheduler
// runs it periodically as the recovery pass for writes that bypass the
// service.
func (c *CategoryCounter) Reconcile(ctx context.Context) (int64, error) {
	return c.categories.RecountTaskCounts(ctx)
}
