package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
)

func TestCategoryService_CreateValidation(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	svc := NewCategoryService(store)
	ctx := context.Background()

	tests := []struct {
		name     string
		catName  string
		color    string
		wantKind apperror.Kind
	}{
		{"missing name", "", "", apperror.KindValidation},
		{"whitespace name", "   ", "", apperror.KindValidation},
		{"name too long", strings.Repeat("x", 51), "", apperror.KindValidation},
		{"bad color", "work", "blue", apperror.KindValidation},
		{"short hex", "work", "#FFF", apperror.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, owner.ID, tt.catName, tt.color)
			assert.True(t, apperror.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestCategoryService_CreateDefaults(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	svc := NewCategoryService(store)
	ctx := context.Background()

	category, err := svc.Create(ctx, owner.ID, "  work  ", "")
	require.NoError(t, err)
	assert.Equal(t, "work", category.Name)
	assert.Equal(t, model.DefaultCategoryColor, category.Color)
	assert.Zero(t, category.TaskCount)
	require.NotNil(t, category.OwnerID)
	assert.Equal(t, owner.ID, *category.OwnerID)

	// Lowercase hex passes the case-insensitive pattern.
	category, err = svc.Create(ctx, owner.ID, "home", "#ff00aa")
	require.NoError(t, err)
	assert.Equal(t, "#ff00aa", category.Color)
}

func TestCategoryService_ListIncludesGlobal(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", "alice@example.com")
	bob := createUser(t, store, "bob", "bob@example.com")
	createCategory(t, store, alice.ID, "mine")
	createCategory(t, store, bob.ID, "theirs")
	createGlobalCategory(t, store, "inbox")

	categories, err := NewCategoryService(store).List(context.Background(), alice.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"mine", "inbox"}, names)
}

func TestCategoryService_DeleteClearsReferences(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	category := createCategory(t, store, owner.ID, "doomed")
	tasks := NewTaskService(store)
	svc := NewCategoryService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, owner.ID, TaskInput{Title: "survivor", Priority: model.PriorityMedium, CategoryID: category.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, category.ID, owner.ID))

	_, err = store.Categories.GetByID(ctx, category.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// The task outlives its category with the reference cleared.
	got, err := tasks.Get(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestCategoryService_DeleteAuthorization(t *testing.T) {
	store := newTestStore(t)
	alice := createUser(t, store, "alice", "alice@example.com")
	bob := createUser(t, store, "bob", "bob@example.com")
	category := createCategory(t, store, alice.ID, "private")
	global := createGlobalCategory(t, store, "inbox")
	svc := NewCategoryService(store)
	ctx := context.Background()

	_, err := svc.Get(ctx, category.ID, bob.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	got, err := svc.Get(ctx, global.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, got.IsGlobal())

	err = svc.Delete(ctx, category.ID, bob.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	// Global categories are not deletable through the user API.
	err = svc.Delete(ctx, global.ID, alice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	err = svc.Delete(ctx, "missing", alice.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
