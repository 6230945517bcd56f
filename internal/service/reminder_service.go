package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todo-api/internal/model"
)

// DueSoonWindow is how far ahead a due date counts as upcoming.
const DueSoonWindow = 48 * time.Hour

// Report lists the active todos that need attention at a point in time.
type Report struct {
	At      time.Time
	Overdue []model.Todo
	DueSoon []model.Todo
	names   map[string]string
}

// Empty reports whether nothing is overdue or upcoming.
func (r Report) Empty() bool {
	return len(r.Overdue) == 0 && len(r.DueSoon) == 0
}

// ReminderService builds human-readable summaries of overdue and upcoming todos.
type ReminderService struct {
	todos      *TodoService
	categories *CategoryService
}

func NewReminderService(todos *TodoService, categories *CategoryService) *ReminderService {
	return &ReminderService{todos: todos, categories: categories}
}

// Report collects active todos whose due date has passed or falls within
// DueSoonWindow of now, earliest first. Unparseable due dates are skipped.
func (s *ReminderService) Report(ctx context.Context, now time.Time) (Report, error) {
	todos, err := s.todos.List(ctx, Query{Status: StatusActive, SortBy: SortDueDate})
	if err != nil {
		return Report{}, err
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{At: now, names: make(map[string]string, len(categories))}
	for _, cat := range categories {
		report.names[cat.ID] = cat.Name
	}

	for _, todo := range todos {
		due, ok := ParseDueDate(todo.DueDate)
		if !ok {
			continue
		}
		switch {
		case now.After(due):
			report.Overdue = append(report.Overdue, todo)
		case due.Sub(now) <= DueSoonWindow:
			report.DueSoon = append(report.DueSoon, todo)
		}
	}
	return report, nil
}

// Text renders the report as plain text for a notifier.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Todo report %s\n", r.At.Format("2006-01-02 15:04"))

	b.WriteString("\nOverdue\n")
	if len(r.Overdue) == 0 {
		b.WriteString("- nothing overdue\n")
	}
	for _, todo := range r.Overdue {
		b.WriteString(r.line(todo))
	}

	b.WriteString("\nDue soon\n")
	if len(r.DueSoon) == 0 {
		b.WriteString("- nothing due in the next 48h\n")
	}
	for _, todo := range r.DueSoon {
		b.WriteString(r.line(todo))
	}

	return strings.TrimSpace(b.String())
}

func (r Report) line(todo model.Todo) string {
	var sb strings.Builder
	sb.WriteString("- ")
	sb.WriteString(strings.TrimSpace(todo.Title))
	if name := strings.TrimSpace(r.names[todo.CategoryID]); name != "" {
		fmt.Fprintf(&sb, " (%s)", name)
	}
	if due, ok := ParseDueDate(todo.DueDate); ok {
		if r.At.After(due) {
			fmt.Fprintf(&sb, ", was due %s", due.Format("2006-01-02"))
		} else {
			hoursLeft := int(due.Sub(r.At).Hours())
			fmt.Fprintf(&sb, ", due %s (in ~%dh)", due.Format("2006-01-02"), hoursLeft)
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}
