package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"todo-api/internal/service"
)

// listTodos handles GET /api/todos?status=&sortBy=.
func (s *Server) listTodos(c echo.Context) error {
	q := service.Query{
		Status: service.ParseStatus(c.QueryParam("status")),
		SortBy: service.ParseSortBy(c.QueryParam("sortBy")),
	}
	todos, err := s.todos.List(c.Request().Context(), q)
	if err != nil {
		return failed("Failed to retrieve todos", err)
	}
	return c.JSON(http.StatusOK, toTodos(todos))
}

func (s *Server) groupedTodos(c echo.Context) error {
	groups, err := s.todos.Grouped(c.Request().Context())
	if err != nil {
		return failed("Failed to retrieve grouped todos", err)
	}
	return c.JSON(http.StatusOK, toGroups(groups))
}

func (s *Server) getTodo(c echo.Context) error {
	todo, err := s.todos.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failed("Failed to retrieve todo", err)
	}
	return c.JSON(http.StatusOK, toTodo(*todo))
}

func (s *Server) createTodo(c echo.Context) error {
	var req CreateTodoRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	todo, err := s.todos.Create(c.Request().Context(), service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return failed("Failed to create todo", err)
	}
	s.log.Debug("todo created", "id", todo.ID, "category_id", todo.CategoryID)
	return c.JSON(http.StatusCreated, toTodo(*todo))
}

func (s *Server) updateTodo(c echo.Context) error {
	var req UpdateTodoRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	todo, err := s.todos.Update(c.Request().Context(), c.Param("id"), req.patch())
	if err != nil {
		return failed("Failed to update todo", err)
	}
	return c.JSON(http.StatusOK, toTodo(*todo))
}

func (s *Server) deleteTodo(c echo.Context) error {
	if err := s.todos.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return failed("Failed to delete todo", err)
	}
	return c.NoContent(http.StatusNoContent)
}
