package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todo-api/internal/repository"
	"todo-api/internal/service"
)

var fixedNow = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	*Server
	db         *gorm.DB
	todos      *service.TodoService
	categories *service.CategoryService
}

func newTestServer(t *testing.T, dev bool) *testServer {
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

	srv := New(Options{
		Todos:       todos,
		Categories:  categories,
		Development: dev,
		Now:         clock,
	})
	return &testServer{Server: srv, db: db, todos: todos, categories: categories}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) category(t *testing.T, name string) Category {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Category](t, rec)
}

func (s *testServer) todo(t *testing.T, title, due, categoryID string) Todo {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/todos", CreateTodoRequest{
		Title:       title,
		Description: "about " + title,
		DueDate:     due,
		CategoryID:  categoryID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[Todo](t, rec)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[HealthResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2025-01-01T09:00:00.000Z", body.Timestamp)
}

func TestCreateAndListTodo(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")

	rec := srv.do(t, http.MethodPost, "/api/todos", map[string]any{
		"title":       "A",
		"description": "B",
		"dueDate":     "2025-01-01",
		"categoryId":  work.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[Todo](t, rec)
	assert.False(t, created.Completed)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, "2025-01-01T09:00:00.000Z", created.CreatedAt)

	rec = srv.do(t, http.MethodGet, "/api/todos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]Todo](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
	assert.False(t, list[0].Completed)

	rec = srv.do(t, http.MethodPost, "/api/todos", map[string]any{
		"title":       "A",
		"description": "B",
		"dueDate":     "2025-01-01",
		"categoryId":  "bad",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Valid category ID is required", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodGet, "/api/todos", nil)
	assert.Len(t, decode[[]Todo](t, rec), 1)
}

func TestTodoJSONFieldNames(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	created := srv.todo(t, "A", "2025-01-01", work.ID)

	rec := srv.do(t, http.MethodGet, "/api/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"id", "title", "description", "dueDate", "categoryId", "completed", "createdAt", "updatedAt"} {
		assert.Contains(t, raw, key)
	}
	assert.Len(t, raw, 8)
}

func TestCreateTodoValidation(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")

	tests := []struct {
		name string
		body any
		want string
	}{
		{name: "empty body", body: nil, want: "Title is required"},
		{name: "blank title", body: map[string]any{"title": " ", "description": "B", "dueDate": "x", "categoryId": work.ID}, want: "Title is required"},
		{name: "no description", body: map[string]any{"title": "A", "dueDate": "x", "categoryId": work.ID}, want: "Description is required"},
		{name: "no due date", body: map[string]any{"title": "A", "description": "B", "categoryId": work.ID}, want: "Due date is required"},
		{name: "no category", body: map[string]any{"title": "A", "description": "B", "dueDate": "x"}, want: "Valid category ID is required"},
		{name: "malformed json", body: "{not json", want: "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/todos", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decode[ErrorResponse](t, rec).Error)
		})
	}

	rec := srv.do(t, http.MethodGet, "/api/todos", nil)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestGetTodoNotFound(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/todos/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Error: "Todo not found"}, decode[ErrorResponse](t, rec))
}

func TestUpdateTodo(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	home := srv.category(t, "Home")
	created := srv.todo(t, "A", "2025-01-01", work.ID)

	rec := srv.do(t, http.MethodPut, "/api/todos/"+created.ID, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[Todo](t, rec)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.DueDate, updated.DueDate)
	assert.Equal(t, created.CategoryID, updated.CategoryID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	rec = srv.do(t, http.MethodPut, "/api/todos/"+created.ID, map[string]any{"categoryId": home.ID, "title": "moved"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated = decode[Todo](t, rec)
	assert.Equal(t, home.ID, updated.CategoryID)
	assert.Equal(t, "moved", updated.Title)
	assert.True(t, updated.Completed)

	rec = srv.do(t, http.MethodPut, "/api/todos/"+created.ID, map[string]any{"categoryId": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid category ID", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodPut, "/api/todos/missing", map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Todo not found", decode[ErrorResponse](t, rec).Error)
}

func TestBodyWithoutJSONContentTypeIsIgnored(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	created := srv.todo(t, "A", "2025-01-01", work.ID)

	send := func(method, path, body, ctype string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if ctype != "" {
			req.Header.Set("Content-Type", ctype)
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/categories", `{"name":"Home"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name is required", decode[ErrorResponse](t, rec).Error)

	rec = send(http.MethodPost, "/api/todos", `{"title":"B"}`, "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title is required", decode[ErrorResponse](t, rec).Error)

	rec = send(http.MethodPut, "/api/todos/"+created.ID, `{"completed":true}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	unchanged := decode[Todo](t, rec)
	assert.False(t, unchanged.Completed)
	assert.Equal(t, created.Title, unchanged.Title)

	rec = send(http.MethodPost, "/api/categories", `{"name":"Home"}`, "application/json; charset=utf-8")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteTodo(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	created := srv.todo(t, "A", "2025-01-01", work.ID)

	rec := srv.do(t, http.MethodDelete, "/api/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = srv.do(t, http.MethodDelete, "/api/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTodosFilterAndSort(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	srv.todo(t, "late", "2025-03-01", work.ID)
	srv.todo(t, "early", "2025-01-01", work.ID)
	mid := srv.todo(t, "mid", "2025-02-01", work.ID)

	rec := srv.do(t, http.MethodPut, "/api/todos/"+mid.ID, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	titles := func(path string) []string {
		rec := srv.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []string
		for _, todo := range decode[[]Todo](t, rec) {
			out = append(out, todo.Title)
		}
		return out
	}

	assert.Equal(t, []string{"late", "early", "mid"}, titles("/api/todos"))
	assert.Equal(t, []string{"late", "early", "mid"}, titles("/api/todos?status=all"))
	assert.Equal(t, []string{"late", "early"}, titles("/api/todos?status=active"))
	assert.Equal(t, []string{"mid"}, titles("/api/todos?status=completed"))
	assert.Equal(t, []string{"early", "mid", "late"}, titles("/api/todos?sortBy=dueDate"))
	assert.Equal(t, []string{"early", "late"}, titles("/api/todos?status=active&sortBy=dueDate"))
	assert.Equal(t, []string{"late", "early", "mid"}, titles("/api/todos?sortBy=createdAt"))
	assert.Equal(t, []string{"late", "early", "mid"}, titles("/api/todos?status=bogus&sortBy=bogus"))
}

func TestGroupedTodos(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	empty := srv.category(t, "Empty")
	w1 := srv.todo(t, "w1", "2025-01-01", work.ID)

	rec := srv.do(t, http.MethodGet, "/api/todos/grouped", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	groups := decode[[]GroupedTodos](t, rec)
	require.Len(t, groups, 2)
	assert.Equal(t, work, groups[0].Category)
	require.Len(t, groups[0].Todos, 1)
	assert.Equal(t, w1.ID, groups[0].Todos[0].ID)
	assert.Equal(t, empty, groups[1].Category)
	assert.Empty(t, groups[1].Todos)
	assert.Contains(t, rec.Body.String(), `"todos":[]`)
}

func TestCategories(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	work := srv.category(t, "Work")
	assert.Equal(t, "Work", work.Name)
	assert.Equal(t, "2025-01-01T09:00:00.000Z", work.CreatedAt)

	rec = srv.do(t, http.MethodGet, "/api/categories/"+work.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, work, decode[Category](t, rec))

	rec = srv.do(t, http.MethodGet, "/api/categories/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Category not found", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category name is required", decode[ErrorResponse](t, rec).Error)

	rec = srv.do(t, http.MethodGet, "/api/categories", nil)
	assert.Equal(t, []Category{work}, decode[[]Category](t, rec))
}

func TestCategoryTodos(t *testing.T) {
	srv := newTestServer(t, false)
	work := srv.category(t, "Work")
	home := srv.category(t, "Home")
	w1 := srv.todo(t, "w1", "2025-01-01", work.ID)
	srv.todo(t, "h1", "2025-01-01", home.ID)

	rec := srv.do(t, http.MethodGet, "/api/categories/"+work.ID+"/todos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]Todo](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, w1.ID, list[0].ID)

	rec = srv.do(t, http.MethodGet, "/api/categories/missing/todos", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnmatchedRoute(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorResponse{Error: "Not found", Message: "Route GET /api/nothing not found"}, decode[ErrorResponse](t, rec))

	rec = srv.do(t, http.MethodPatch, "/api/todos", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", decode[ErrorResponse](t, rec).Error)
}

func TestTrailingSlash(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/categories/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInternalErrorDetail(t *testing.T) {
	for _, dev := range []bool{false, true} {
		t.Run(fmt.Sprintf("dev=%t", dev), func(t *testing.T) {
			srv := newTestServer(t, dev)
			sqlDB, err := srv.db.DB()
			require.NoError(t, err)
			require.NoError(t, sqlDB.Close())

			rec := srv.do(t, http.MethodGet, "/api/todos", nil)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, "Failed to retrieve todos", body.Error)
			if dev {
				assert.NotEmpty(t, body.Message)
			} else {
				assert.Empty(t, body.Message)
				assert.NotContains(t, rec.Body.String(), "message")
			}
		})
	}
}

func TestPanicRecovered(t *testing.T) {
	srv := newTestServer(t, true)
	srv.echo.GET("/boom", func(echo.Context) error {
		panic("kaboom")
	})

	rec := srv.do(t, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Internal server error", body.Error)
	assert.Contains(t, body.Message, "kaboom")
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunShutsDown(t *testing.T) {
	srv := newTestServer(t, false)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, false)
	routes := strings.Join(srv.Routes(), "\n")
	for _, want := range []string{"/health", "/api/todos/grouped", "/api/todos/:id", "/api/categories/:id"} {
		assert.Contains(t, routes, want)
	}
}
