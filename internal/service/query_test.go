package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/apperror"
	"taskhub/internal/model"
)

func TestQueryEngine_PaginationMath(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	svc := NewTaskService(store)
	ctx := context.Background()

	const total = 23
	for i := 0; i < total; i++ {
		_, err := svc.Create(ctx, owner.ID, TaskInput{Title: fmt.Sprintf("task %02d", i), Priority: model.PriorityMedium})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, owner.ID, TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(total), page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 10, page.Pagination.PageSize)
	assert.Equal(t, 3, page.Pagination.Pages, "pages == ceil(23/10)")
	assert.Len(t, page.Tasks, 10)

	page, err = svc.List(ctx, owner.ID, TaskFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, page.Tasks, 3, "last page holds the remainder")

	page, err = svc.List(ctx, owner.ID, TaskFilter{Page: 2, PageSize: 5, SortBy: "title", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 5)
	// skip = (2-1)*5, so the page starts at the sixth title.
	assert.Equal(t, "task 05", page.Tasks[0].Title)
	assert.Equal(t, 5, page.Pagination.Pages)
}

func TestQueryEngine_DefaultSortIsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	ctx := context.Background()

	old := model.Task{OwnerID: owner.ID, Title: "old", Status: model.StatusTodo, Priority: model.PriorityMedium, SharedWith: []string{}}
	old.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Tasks.Create(ctx, &old))
	recent := model.Task{OwnerID: owner.ID, Title: "recent", Status: model.StatusTodo, Priority: model.PriorityMedium, SharedWith: []string{}}
	require.NoError(t, store.Tasks.Create(ctx, &recent))

	page, err := NewQueryEngine(store.Tasks).List(ctx, owner.ID, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 2)
	assert.Equal(t, "recent", page.Tasks[0].Title)
}

func TestQueryEngine_Filters(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	svc := NewTaskService(store)
	ctx := context.Background()

	soon := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(10 * 24 * time.Hour)
	a, err := svc.Create(ctx, owner.ID, TaskInput{Title: "Pay invoice", Priority: model.PriorityHigh, DueDate: &soon})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, TaskInput{Title: "Water plants", Description: "the invoice fern", Priority: model.PriorityLow, DueDate: &later})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, a.ID, owner.ID, model.StatusInProgress)
	require.NoError(t, err)

	page, err := svc.List(ctx, owner.ID, TaskFilter{Statuses: []model.Status{model.StatusInProgress}})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Pay invoice", page.Tasks[0].Title)

	// Search matches title or description, case-insensitively.
	page, err = svc.List(ctx, owner.ID, TaskFilter{Search: "INVOICE"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	// Inclusive due-date window.
	from := time.Now().Add(48 * time.Hour)
	page, err = svc.List(ctx, owner.ID, TaskFilter{DueFrom: &from})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "Water plants", page.Tasks[0].Title)

	page, err = svc.List(ctx, owner.ID, TaskFilter{Priority: model.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, page.Tasks, 1)
}

func TestQueryEngine_RejectsBadInput(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	engine := NewQueryEngine(store.Tasks)
	ctx := context.Background()

	_, err := engine.List(ctx, owner.ID, TaskFilter{SortBy: "ownerId"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = engine.List(ctx, owner.ID, TaskFilter{SortDir: "sideways"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = engine.List(ctx, owner.ID, TaskFilter{Statuses: []model.Status{"done"}})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = engine.List(ctx, owner.ID, TaskFilter{Priority: "urgent"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestQueryEngine_StatsCoverAllTasks(t *testing.T) {
	store := newTestStore(t)
	owner := createUser(t, store, "alice", "alice@example.com")
	svc := NewTaskService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, owner.ID, TaskInput{Title: "todo", Priority: model.PriorityMedium})
		require.NoError(t, err)
	}
	task, err := svc.Create(ctx, owner.ID, TaskInput{Title: "busy", Priority: model.PriorityMedium})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, task.ID, owner.ID, model.StatusInProgress)
	require.NoError(t, err)

	// Stats ignore the page filter and always span every status bucket.
	page, err := svc.List(ctx, owner.ID, TaskFilter{Statuses: []model.Status{model.StatusInProgress}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.Total)
	assert.Equal(t, int64(3), page.Stats.Todo)
	assert.Equal(t, int64(1), page.Stats.InProgress)
	assert.Zero(t, page.Stats.Completed)
	assert.Zero(t, page.Stats.Archived)
	assert.Equal(t, int64(4), page.Stats.Total(), "stats sum to the user's total task count")
}
