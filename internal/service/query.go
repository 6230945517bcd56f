package service

import (
	"sort"
	"time"

	"todo-api/internal/model"
)

// Status selects todos by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus maps a query value to a Status; anything unrecognised means all.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusActive, StatusCompleted:
		return Status(raw)
	default:
		return StatusAll
	}
}

// SortBy selects the list order.
type SortBy string

const (
	SortNone      SortBy = "none"
	SortDueDate   SortBy = "dueDate"
	SortCreatedAt SortBy = "createdAt"
)

// ParseSortBy maps a query value to a SortBy; anything unrecognised keeps insertion order.
func ParseSortBy(raw string) SortBy {
	switch SortBy(raw) {
	case SortDueDate, SortCreatedAt:
		return SortBy(raw)
	default:
		return SortNone
	}
}

// Query narrows and orders a todo listing.
type Query struct {
	Status Status
	SortBy SortBy
}

var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate reads the date forms clients send. Offset-less values are UTC.
func ParseDueDate(raw string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortTodos orders todos ascending and stably. Todos whose key cannot be
// derived go after all others and keep their relative order.
func sortTodos(todos []model.Todo, by SortBy) {
	var key func(model.Todo) (time.Time, bool)
	switch by {
	case SortDueDate:
		key = func(t model.Todo) (time.Time, bool) { return ParseDueDate(t.DueDate) }
	case SortCreatedAt:
		key = func(t model.Todo) (time.Time, bool) { return t.CreatedAt, true }
	default:
		return
	}

	type keyed struct {
		todo model.Todo
		at   time.Time
		ok   bool
	}
	items := make([]keyed, len(todos))
	for i, t := range todos {
		at, ok := key(t)
		items[i] = keyed{todo: t, at: at, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ok {
			return false
		}
		return !items[j].ok || items[i].at.Before(items[j].at)
	})
	for i := range items {
		todos[i] = items[i].todo
	}
}
