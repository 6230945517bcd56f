package service

import (
	"context"
	"fmt"
	"time"
)

// Seed creates the starter categories and a handful of sample todos so a fresh
// server has something to show. Due dates are relative to now.
func Seed(ctx context.Context, categories *CategoryService, todos *TodoService, now time.Time) error {
	ids := make(map[string]string, 3)
	for _, name := range []string{"General", "Work", "Personal"} {
		cat, err := categories.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		ids[name] = cat.ID
	}

	tomorrow := now.AddDate(0, 0, 1)
	nextWeek := now.AddDate(0, 0, 7)
	samples := []struct {
		input     TodoInput
		completed bool
	}{
		{input: TodoInput{Title: "Review code pull requests", Description: "Review and approve pending PRs from the team", DueDate: isoTime(tomorrow), CategoryID: ids["Work"]}},
		{input: TodoInput{Title: "Setup development environment", Description: "Install Go, configure the editor and linters", DueDate: isoTime(now), CategoryID: ids["Work"]}, completed: true},
		{input: TodoInput{Title: "Buy groceries", Description: "Milk, eggs, bread, and vegetables", DueDate: isoTime(tomorrow), CategoryID: ids["Personal"]}},
		{input: TodoInput{Title: "Write project documentation", Description: "Write a comprehensive README for the todo app", DueDate: isoTime(nextWeek), CategoryID: ids["Work"]}},
		{input: TodoInput{Title: "Schedule dentist appointment", Description: "Annual checkup and cleaning", DueDate: isoTime(nextWeek), CategoryID: ids["Personal"]}},
	}

	done := true
	for _, sample := range samples {
		todo, err := todos.Create(ctx, sample.input)
		if err != nil {
			return fmt.Errorf("seed todo %q: %w", sample.input.Title, err)
		}
		if sample.completed {
			if _, err := todos.Update(ctx, todo.ID, TodoPatch{Completed: &done}); err != nil {
				return fmt.Errorf("seed todo %q: %w", sample.input.Title, err)
			}
		}
	}
	return nil
}

func isoTime(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
