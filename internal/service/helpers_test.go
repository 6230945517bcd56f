package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"todo-api/internal/model"
	"todo-api/internal/repository"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	clock      *fakeClock
	todoRepo   *repository.TodoRepository
	categories *CategoryService
	todos      *TodoService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	clock := &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	todoRepo := repository.NewTodoRepository(db)
	categories := NewCategoryService(repository.NewCategoryRepository(db), clock.Now)
	return &testEnv{
		clock:      clock,
		todoRepo:   todoRepo,
		categories: categories,
		todos:      NewTodoService(todoRepo, categories, clock.Now),
	}
}

func (e *testEnv) category(t *testing.T, name string) *model.Category {
	t.Helper()
	cat, err := e.categories.Create(context.Background(), name)
	require.NoError(t, err)
	return cat
}

func (e *testEnv) todo(t *testing.T, title, dueDate, categoryID string) *model.Todo {
	t.Helper()
	todo, err := e.todos.Create(context.Background(), TodoInput{
		Title:       title,
		Description: title + " description",
		DueDate:     dueDate,
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	return todo
}

func ids(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, t := range todos {
		out[i] = t.ID
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
