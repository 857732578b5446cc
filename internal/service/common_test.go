package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// newTestStore opens an in-memory database pinned to a single connection so
// every pooled handle sees the same memory database.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Category{}, &model.Task{}))
	return repository.NewStore(db)
}

func createUser(t *testing.T, store *repository.Store, username, email string) *model.User {
	t.Helper()
	user, err := NewUserService(store.Users).Register(context.Background(), username, email)
	require.NoError(t, err)
	return user
}

func createCategory(t *testing.T, store *repository.Store, ownerID, name string) *model.Category {
	t.Helper()
	category, err := NewCategoryService(store).Create(context.Background(), ownerID, name, "")
	require.NoError(t, err)
	return category
}

func createGlobalCategory(t *testing.T, store *repository.Store, name string) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, Color: model.DefaultCategoryColor}
	require.NoError(t, store.Categories.Create(context.Background(), category))
	return category
}

func taskCount(t *testing.T, store *repository.Store, categoryID string) int64 {
	t.Helper()
	category, err := store.Categories.GetByID(context.Background(), categoryID)
	require.NoError(t, err)
	return category.TaskCount
}
