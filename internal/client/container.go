package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"todo-api/internal/api"
	"todo-api/internal/service"
)

// Container holds the current State and drives it with network calls. Requests
// are not serialized: when two responses race, the last one applied wins.
type Container struct {
	client *Client
	log    *slog.Logger

	mu    sync.RWMutex
	state State
	subs  []func(State)
}

func NewContainer(client *Client, log *slog.Logger) *Container {
	if log == nil {
		log = slog.Default()
	}
	return &Container{client: client, log: log, state: InitialState()}
}

// State returns a snapshot of the current state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribe registers fn to receive every new state.
func (c *Container) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Dispatch applies e and notifies subscribers.
func (c *Container) Dispatch(e Event) State {
	c.mu.Lock()
	c.state = Reduce(c.state, e)
	next := c.state
	subs := append([]func(State){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

func (c *Container) fail(op Op, err error) error {
	c.log.Error("request failed", "op", string(op), "error", err)
	msg := ""
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	c.Dispatch(Failed{Op: op, Message: msg})
	return err
}

// FetchTodos loads todos using the current filter and sort selection.
func (c *Container) FetchTodos(ctx context.Context) error {
	s := c.State()
	c.Dispatch(Started{Op: OpFetchTodos})
	todos, err := c.client.ListTodos(ctx, string(s.Filter), string(s.SortBy))
	if err != nil {
		return c.fail(OpFetchTodos, err)
	}
	c.Dispatch(TodosFetched{Todos: todos})
	return nil
}

func (c *Container) CreateTodo(ctx context.Context, req api.CreateTodoRequest) (*api.Todo, error) {
	c.Dispatch(Started{Op: OpCreateTodo})
	todo, err := c.client.CreateTodo(ctx, req)
	if err != nil {
		return nil, c.fail(OpCreateTodo, err)
	}
	c.Dispatch(TodoCreated{Todo: *todo})
	return todo, nil
}

func (c *Container) UpdateTodo(ctx context.Context, id string, req api.UpdateTodoRequest) (*api.Todo, error) {
	todo, err := c.client.UpdateTodo(ctx, id, req)
	if err != nil {
		return nil, c.fail(OpUpdateTodo, err)
	}
	c.Dispatch(TodoUpdated{Todo: *todo})
	return todo, nil
}

// ToggleTodo flips the completion flag of a todo given its current value.
func (c *Container) ToggleTodo(ctx context.Context, id string, completed bool) (*api.Todo, error) {
	flipped := !completed
	todo, err := c.client.UpdateTodo(ctx, id, api.UpdateTodoRequest{Completed: &flipped})
	if err != nil {
		return nil, c.fail(OpToggleTodo, err)
	}
	c.Dispatch(TodoUpdated{Todo: *todo})
	return todo, nil
}

func (c *Container) DeleteTodo(ctx context.Context, id string) error {
	if err := c.client.DeleteTodo(ctx, id); err != nil {
		return c.fail(OpDeleteTodo, err)
	}
	c.Dispatch(TodoDeleted{ID: id})
	return nil
}

func (c *Container) FetchCategories(ctx context.Context) error {
	c.Dispatch(Started{Op: OpFetchCategories})
	categories, err := c.client.ListCategories(ctx)
	if err != nil {
		return c.fail(OpFetchCategories, err)
	}
	c.Dispatch(CategoriesFetched{Categories: categories})
	return nil
}

func (c *Container) CreateCategory(ctx context.Context, name string) (*api.Category, error) {
	c.Dispatch(Started{Op: OpCreateCategory})
	category, err := c.client.CreateCategory(ctx, name)
	if err != nil {
		return nil, c.fail(OpCreateCategory, err)
	}
	c.Dispatch(CategoryCreated{Category: *category})
	return category, nil
}

func (c *Container) SetFilter(filter service.Status) {
	c.Dispatch(FilterChanged{Filter: filter})
}

func (c *Container) SetSortBy(sortBy service.SortBy) {
	c.Dispatch(SortChanged{SortBy: sortBy})
}

func (c *Container) ClearError(categories bool) {
	c.Dispatch(ErrorCleared{Categories: categories})
}
