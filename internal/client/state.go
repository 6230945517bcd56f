package client

import (
	"slices"

	"todo-api/internal/api"
	"todo-api/internal/service"
)

// State is the client's cache of server-confirmed data plus view selections.
type State struct {
	Todos      []api.Todo
	Categories []api.Category
	Filter     service.Status
	SortBy     service.SortBy

	TodosLoading      bool
	TodosError        string
	CategoriesLoading bool
	CategoriesError   string
}

// InitialState shows everything in insertion order.
func InitialState() State {
	return State{
		Todos:      []api.Todo{},
		Categories: []api.Category{},
		Filter:     service.StatusAll,
		SortBy:     service.SortNone,
	}
}

// Op names a network operation of the container.
type Op string

const (
	OpFetchTodos      Op = "fetchTodos"
	OpCreateTodo      Op = "createTodo"
	OpUpdateTodo      Op = "updateTodo"
	OpToggleTodo      Op = "toggleTodo"
	OpDeleteTodo      Op = "deleteTodo"
	OpFetchCategories Op = "fetchCategories"
	OpCreateCategory  Op = "createCategory"
)

var failureMessages = map[Op]string{
	OpFetchTodos:      "Failed to fetch todos",
	OpCreateTodo:      "Failed to create todo",
	OpUpdateTodo:      "Failed to update todo",
	OpToggleTodo:      "Failed to toggle todo",
	OpDeleteTodo:      "Failed to delete todo",
	OpFetchCategories: "Failed to fetch categories",
	OpCreateCategory:  "Failed to create category",
}

func (op Op) categories() bool {
	return op == OpFetchCategories || op == OpCreateCategory
}

// tracksLoading reports whether the op toggles a loading flag while pending.
func (op Op) tracksLoading() bool {
	switch op {
	case OpFetchTodos, OpCreateTodo, OpFetchCategories, OpCreateCategory:
		return true
	default:
		return false
	}
}

// Event is something that happened to the client state.
type Event interface {
	event()
}

type (
	// Started marks a request as pending.
	Started struct{ Op Op }
	// Failed records a rejected request. An empty Message uses the op's default.
	Failed struct {
		Op      Op
		Message string
	}
	TodosFetched      struct{ Todos []api.Todo }
	TodoCreated       struct{ Todo api.Todo }
	TodoUpdated       struct{ Todo api.Todo }
	TodoDeleted       struct{ ID string }
	CategoriesFetched struct{ Categories []api.Category }
	CategoryCreated   struct{ Category api.Category }
	FilterChanged     struct{ Filter service.Status }
	SortChanged       struct{ SortBy service.SortBy }
	// ErrorCleared resets the todo error, or the category error when Categories is set.
	ErrorCleared struct{ Categories bool }
)

func (Started) event()           {}
func (Failed) event()            {}
func (TodosFetched) event()      {}
func (TodoCreated) event()       {}
func (TodoUpdated) event()       {}
func (TodoDeleted) event()       {}
func (CategoriesFetched) event() {}
func (CategoryCreated) event()   {}
func (FilterChanged) event()     {}
func (SortChanged) event()       {}
func (ErrorCleared) event()      {}

// Reduce returns the state that follows s after e. It never modifies s.
func Reduce(s State, e Event) State {
	next := s
	switch e := e.(type) {
	case Started:
		if !e.Op.tracksLoading() {
			return next
		}
		if e.Op.categories() {
			next.CategoriesLoading = true
			next.CategoriesError = ""
		} else {
			next.TodosLoading = true
			next.TodosError = ""
		}
	case Failed:
		msg := e.Message
		if msg == "" {
			msg = failureMessages[e.Op]
		}
		if e.Op.categories() {
			next.CategoriesLoading = false
			next.CategoriesError = msg
		} else {
			if e.Op.tracksLoading() {
				next.TodosLoading = false
			}
			next.TodosError = msg
		}
	case TodosFetched:
		next.TodosLoading = false
		next.Todos = slices.Clone(e.Todos)
		if next.Todos == nil {
			next.Todos = []api.Todo{}
		}
	case TodoCreated:
		next.TodosLoading = false
		next.Todos = append(slices.Clone(s.Todos), e.Todo)
	case TodoUpdated:
		if i := indexOf(s.Todos, e.Todo.ID); i >= 0 {
			next.Todos = slices.Clone(s.Todos)
			next.Todos[i] = e.Todo
		}
	case TodoDeleted:
		next.Todos = slices.DeleteFunc(slices.Clone(s.Todos), func(t api.Todo) bool { return t.ID == e.ID })
	case CategoriesFetched:
		next.CategoriesLoading = false
		next.Categories = slices.Clone(e.Categories)
		if next.Categories == nil {
			next.Categories = []api.Category{}
		}
	case CategoryCreated:
		next.CategoriesLoading = false
		next.Categories = append(slices.Clone(s.Categories), e.Category)
	case FilterChanged:
		next.Filter = e.Filter
	case SortChanged:
		next.SortBy = e.SortBy
	case ErrorCleared:
		if e.Categories {
			next.CategoriesError = ""
		} else {
			next.TodosError = ""
		}
	}
	return next
}

func indexOf(todos []api.Todo, id string) int {
	return slices.IndexFunc(todos, func(t api.Todo) bool { return t.ID == id })
}

// Stats counts active and completed todos in the cache.
func (s State) Stats() (active, completed int) {
	for _, t := range s.Todos {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// Groups pairs each category with its cached todos, dropping empty groups the
// way the list view does.
func (s State) Groups() []api.GroupedTodos {
	var out []api.GroupedTodos
	for _, cat := range s.Categories {
		var todos []api.Todo
		for _, t := range s.Todos {
			if t.CategoryID == cat.ID {
				todos = append(todos, t)
			}
		}
		if len(todos) > 0 {
			out = append(out, api.GroupedTodos{Category: cat, Todos: todos})
		}
	}
	return out
}
