package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todo-api/internal/model"
	"todo-api/internal/repository"
)

// TodoInput represents data required to create a todo.
type TodoInput struct {
	Title       string
	Description string
	DueDate     string
	CategoryID  string
}

// TodoPatch carries the fields of an update; nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	CategoryID  *string
	Completed   *bool
}

// Group pairs a category with its todos.
type Group struct {
	Category model.Category
	Todos    []model.Todo
}

// TodoService wraps todo-related business logic.
type TodoService struct {
	todoRepo   *repository.TodoRepository
	categories *CategoryService
	clock      Clock
}

func NewTodoService(todoRepo *repository.TodoRepository, categories *CategoryService, clock Clock) *TodoService {
	return &TodoService{todoRepo: todoRepo, categories: categories, clock: clock}
}

// Create validates input in field order and stores a new, incomplete todo.
func (s *TodoService) Create(ctx context.Context, input TodoInput) (*model.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, invalid("title", "Title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, invalid("description", "Description is required")
	}
	if input.DueDate == "" {
		return nil, invalid("dueDate", "Due date is required")
	}
	ok, err := s.categories.Exists(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid("categoryId", "Valid category ID is required")
	}

	now := s.clock.now()
	todo := model.Todo{
		ID:          uuid.NewString(),
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.todoRepo.Create(ctx, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (s *TodoService) Get(ctx context.Context, id string) (*model.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Todo", id)
	}
	return todo, nil
}

// List applies the status filter and then the requested order.
func (s *TodoService) List(ctx context.Context, q Query) ([]model.Todo, error) {
	var (
		todos []model.Todo
		err   error
	)
	switch q.Status {
	case StatusActive:
		todos, err = s.todoRepo.ListByStatus(ctx, false)
	case StatusCompleted:
		todos, err = s.todoRepo.ListByStatus(ctx, true)
	default:
		todos, err = s.todoRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	sortTodos(todos, q.SortBy)
	return todos, nil
}

// ListByCategory returns the todos of one existing category.
func (s *TodoService) ListByCategory(ctx context.Context, categoryID string) ([]model.Todo, error) {
	if _, err := s.categories.Get(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.todoRepo.ListByCategory(ctx, categoryID)
}

// Grouped returns one group per category, empty ones included, built from a
// single listing so the group sizes always add up to the todo count.
func (s *TodoService) Grouped(ctx context.Context) ([]Group, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]model.Todo, len(categories))
	for _, todo := range todos {
		byCategory[todo.CategoryID] = append(byCategory[todo.CategoryID], todo)
	}

	groups := make([]Group, 0, len(categories))
	for _, category := range categories {
		members := byCategory[category.ID]
		if members == nil {
			members = []model.Todo{}
		}
		groups = append(groups, Group{Category: category, Todos: members})
	}
	return groups, nil
}

// Update merges patch onto the stored todo and refreshes UpdatedAt. A provided
// category id is checked before anything is written.
func (s *TodoService) Update(ctx context.Context, id string, patch TodoPatch) (*model.Todo, error) {
	if patch.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalid("categoryId", "Invalid category ID")
		}
	}

	now := s.clock.now()
	todo, err := s.todoRepo.Update(ctx, id, func(t *model.Todo) error {
		patch.apply(t)
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, notFound(err, "Todo", id)
	}
	return todo, nil
}

// Delete removes a todo. Deleting an id that is already gone reports NotFoundError
// and changes nothing.
func (s *TodoService) Delete(ctx context.Context, id string) error {
	removed, err := s.todoRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete todo %s: %w", id, err)
	}
	if !removed {
		return &NotFoundError{Entity: "Todo", ID: id}
	}
	return nil
}

func (s *TodoService) Count(ctx context.Context) (int64, error) {
	return s.todoRepo.Count(ctx)
}

func (p TodoPatch) apply(t *model.Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
