package api

import (
	"time"

	"todo-api/internal/model"
	"todo-api/internal/service"
)

// TimeLayout is the ISO-8601 form timestamps take on the wire.
const TimeLayout = service.ISOLayout

// Todo is the JSON shape of a todo.
type Todo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	CategoryID  string `json:"categoryId"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Category is the JSON shape of a category.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// GroupedTodos pairs a category with its todos.
type GroupedTodos struct {
	Category Category `json:"category"`
	Todos    []Todo   `json:"todos"`
}

// CreateTodoRequest is the body of POST /api/todos.
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	CategoryID  string `json:"categoryId"`
}

// UpdateTodoRequest is the body of PUT /api/todos/:id. Absent fields stay unchanged.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	CategoryID  *string `json:"categoryId,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func toTodo(t model.Todo) Todo {
	return Todo{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		CategoryID:  t.CategoryID,
		Completed:   t.Completed,
		CreatedAt:   formatTime(t.CreatedAt),
		UpdatedAt:   formatTime(t.UpdatedAt),
	}
}

func toTodos(todos []model.Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		out = append(out, toTodo(t))
	}
	return out
}

func toCategory(c model.Category) Category {
	return Category{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toCategories(categories []model.Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategory(c))
	}
	return out
}

func toGroups(groups []service.Group) []GroupedTodos {
	out := make([]GroupedTodos, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupedTodos{Category: toCategory(g.Category), Todos: toTodos(g.Todos)})
	}
	return out
}

func (r UpdateTodoRequest) patch() service.TodoPatch {
	return service.TodoPatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		CategoryID:  r.CategoryID,
		Completed:   r.Completed,
	}
}
