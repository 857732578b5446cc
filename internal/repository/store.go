package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over one gorm handle so multi-step writes
// (task create + counter increment, category reassignment) can share a
// transaction.
type Store struct {
	db *gorm.DB

	Users      *UserRepository
	Categories *CategoryRepository
	Tasks      *TaskRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Tasks:      NewTaskRepository(db),
	}
}

// Transaction runs fn against a transaction-scoped Store. Returning an error
// rolls back every write made through it.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
