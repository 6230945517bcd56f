package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) listCategories(c echo.Context) error {
	categories, err := s.categories.List(c.Request().Context())
	if err != nil {
		return failed("Failed to retrieve categories", err)
	}
	return c.JSON(http.StatusOK, toCategories(categories))
}

func (s *Server) getCategory(c echo.Context) error {
	category, err := s.categories.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failed("Failed to retrieve category", err)
	}
	return c.JSON(http.StatusOK, toCategory(*category))
}

// categoryTodos handles GET /api/categories/:id/todos.
func (s *Server) categoryTodos(c echo.Context) error {
	todos, err := s.todos.ListByCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failed("Failed to retrieve todos", err)
	}
	return c.JSON(http.StatusOK, toTodos(todos))
}

func (s *Server) createCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	category, err := s.categories.Create(c.Request().Context(), req.Name)
	if err != nil {
		return failed("Failed to create category", err)
	}
	return c.JSON(http.StatusCreated, toCategory(*category))
}
