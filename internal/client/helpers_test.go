package client

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"todo-api/internal/api"
	"todo-api/internal/repository"
	"todo-api/internal/service"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type backend struct {
	url        string
	todos      *service.TodoService
	categories *service.CategoryService
	closeDB    func()
}

func newBackend(t *testing.T) *backend {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	clock := func() time.Time { return fixedNow }
	categories := service.NewCategoryService(repository.NewCategoryRepository(db), clock)
	todos := service.NewTodoService(repository.NewTodoRepository(db), categories, clock)

	srv := httptest.NewServer(api.New(api.Options{Todos: todos, Categories: categories, Now: clock}))
	t.Cleanup(srv.Close)

	return &backend{
		url:        srv.URL,
		todos:      todos,
		categories: categories,
		closeDB:    func() { _ = sqlDB.Close() },
	}
}

func (b *backend) category(t *testing.T, name string) string {
	t.Helper()
	cat, err := b.categories.Create(context.Background(), name)
	require.NoError(t, err)
	return cat.ID
}

func (b *backend) todo(t *testing.T, title, due, categoryID string) string {
	t.Helper()
	todo, err := b.todos.Create(context.Background(), service.TodoInput{
		Title:       title,
		Description: title + " details",
		DueDate:     due,
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	return todo.ID
}

func ptr[T any](v T) *T { return &v }
