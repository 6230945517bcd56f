package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"todo-api/internal/api"
	"todo-api/internal/client"
	"todo-api/internal/service"
)

func (a *app) container() *client.Container {
	return client.NewContainer(client.New(a.cfg.ClientServer, nil), a.log)
}

// load fetches categories and todos into c.
func load(ctx context.Context, c *client.Container) error {
	if err := c.FetchCategories(ctx); err != nil {
		return err
	}
	return c.FetchTodos(ctx)
}

func listCmd(a *app) *cobra.Command {
	var status, sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show todos grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.container()
			c.SetFilter(service.ParseStatus(status))
			c.SetSortBy(service.ParseSortBy(sortBy))
			if err := load(cmd.Context(), c); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), c.State())
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "all, active or completed")
	cmd.Flags().StringVar(&sortBy, "sort", "none", "none, dueDate or createdAt")
	return cmd
}

func addCmd(a *app) *cobra.Command {
	var req api.CreateTodoRequest
	var category string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := a.container()
			if err := c.FetchCategories(ctx); err != nil {
				return err
			}
			req.Title = args[0]
			req.CategoryID = resolveCategory(c.State().Categories, category)

			todo, err := c.CreateTodo(ctx, req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", todo.ID)
			return err
		},
	}
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "description")
	cmd.Flags().StringVar(&req.DueDate, "due", "", "due date, e.g. 2025-03-14T17:00")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category id or name")
	return cmd
}

// resolveCategory maps a category name to its id; anything else passes through.
func resolveCategory(categories []api.Category, ref string) string {
	for _, cat := range categories {
		if strings.EqualFold(cat.Name, ref) {
			return cat.ID
		}
	}
	return ref
}

func doneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a todo between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cl := client.New(a.cfg.ClientServer, nil)
			current, err := cl.GetTodo(ctx, args[0])
			if err != nil {
				return err
			}
			todo, err := client.NewContainer(cl, a.log).ToggleTodo(ctx, current.ID, current.Completed)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(todo.Completed), todo.Title)
			return err
		},
	}
}

func rmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.container().DeleteTodo(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := a.container()
			if err := c.FetchCategories(cmd.Context()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, cat := range c.State().Categories {
				if _, err := fmt.Fprintf(out, "%s  %s\n", cat.ID, cat.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.container().CreateCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", cat.ID)
			return err
		},
	})
	return cmd
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// render prints the list view: one block per non-empty category, then totals.
func render(w io.Writer, s client.State) error {
	var b strings.Builder
	groups := s.Groups()
	if len(groups) == 0 {
		b.WriteString("No todos found.\n")
	}
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (%d)\n", g.Category.Name, len(g.Todos))
		for _, t := range g.Todos {
			fmt.Fprintf(&b, "  %s %s  due %s  [%s]\n", checkbox(t.Completed), t.Title, t.DueDate, t.ID)
			if t.Description != "" {
				fmt.Fprintf(&b, "      %s\n", t.Description)
			}
		}
	}
	active, completed := s.Stats()
	fmt.Fprintf(&b, "\n%d active, %d completed\n", active, completed)

	_, err := io.WriteString(w, b.String())
	return err
}
