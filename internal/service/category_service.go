package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"taskhub/internal/apperror"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

const maxCategoryNameLength = 50

// hexColorPattern is part of the stored-data contract.
var hexColorPattern = regexp.MustCompile(`(?i)^#[0-9A-F]{6}$`)

// CategoryService manages categories. Deleting a category detaches its tasks;
// tasks are never cascaded.
type CategoryService struct {
	store *repository.Store
}

func NewCategoryService(store *repository.Store) *CategoryService {
	return &CategoryService{store: store}
}

// Create validates name and color and persists a category owned by the acting
// user. An empty color falls back to the default.
func (s *CategoryService) Create(ctx context.Context, actingUserID, name, color string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.Validationf("category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return nil, apperror.Validationf("category name cannot exceed %d characters", maxCategoryNameLength)
	}
	if color == "" {
		color = model.DefaultCategoryColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, apperror.Validationf("invalid hex color %q", color)
	}

	category := &model.Category{
		OwnerID: &actingUserID,
		Name:    name,
		Color:   color,
	}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns the acting user's categories plus global ones.
func (s *CategoryService) List(ctx context.Context, actingUserID string) ([]model.Category, error) {
	return s.store.Categories.ListVisible(ctx, actingUserID)
}

// Get returns a category the acting user may at least read.
func (s *CategoryService) Get(ctx context.Context, categoryID, actingUserID string) (*model.Category, error) {
	category, err := s.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !auth.ForCategory(category, actingUserID).CanRead() {
		return nil, apperror.Forbidden("not authorized for this category")
	}
	return category, nil
}

// Delete removes an owned category, first clearing the reference on every
// task that points at it so no dangling ids survive. Both steps share a
// transaction. Global categories cannot be deleted through this path.
func (s *CategoryService) Delete(ctx context.Context, categoryID, actingUserID string) error {
	category, err := s.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.IsGlobal() || !auth.ForCategory(category, actingUserID).CanWrite() {
		return apperror.Forbidden("not authorized")
	}

	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Tasks.ClearCategoryRefs(ctx, category.ID); err != nil {
			return err
		}
		return tx.Categories.Delete(ctx, category.ID)
	})
}
