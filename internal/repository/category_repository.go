package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
)

// CategoryRepository manages categories and their denormalized task counts.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return apperror.Internal("create category", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperror.NotFoundf("category %s not found", id)
	default:
		return nil, apperror.Internal("find category", err)
	}
}

// ListVisible returns the user's own categories plus global ones.
func (r *CategoryRepository) ListVisible(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? OR owner_id IS NULL", userID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperror.Internal("list categories", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		return apperror.Internal("delete category", err)
	}
	return nil
}

// IncrementTaskCount bumps task_count by one in a single relative UPDATE so
// concurrent adjustments on the same category never lose writes.
func (r *CategoryRepository) IncrementTaskCount(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ?", id).
		UpdateColumn("task_count", gorm.Expr("task_count + 1")).Error; err != nil {
		return apperror.Internal("increment task count", err)
	}
	return nil
}

// DecrementTaskCount lowers task_count by one. Missing categories and counts
// already at zero are a no-op, so the count can never go negative.
func (r *CategoryRepository) DecrementTaskCount(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND task_count > 0", id).
		UpdateColumn("task_count", gorm.Expr("task_count - 1")).Error; err != nil {
		return apperror.Internal("decrement task count", err)
	}
	return nil
}

// RecountTaskCounts rewrites every drifted task_count from the true number of
// referencing tasks and returns how many categories were repaired.
func (r *CategoryRepository) RecountTaskCounts(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE categories
		SET task_count = (
			SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id
		)
		WHERE task_count <> (
			SELECT COUNT(*) FROM tasks WHERE tasks.category_id = categories.id
		)`)
	if res.Error != nil {
		return 0, apperror.Internal("recount task counts", res.Error)
	}
	return res.RowsAffected, nil
}
