// Package client talks to the todo API and mirrors its state for a front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo-api/internal/api"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client is a thin JSON client for the /api endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the server at baseURL (e.g. http://localhost:3000).
// A nil httpClient gets a default with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListTodos fetches todos; "all" and "none" are left out of the query like the browser client does.
func (c *Client) ListTodos(ctx context.Context, status, sortBy string) ([]api.Todo, error) {
	params := url.Values{}
	if status != "" && status != "all" {
		params.Set("status", status)
	}
	if sortBy != "" && sortBy != "none" {
		params.Set("sortBy", sortBy)
	}
	path := "/api/todos"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var todos []api.Todo
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) GroupedTodos(ctx context.Context) ([]api.GroupedTodos, error) {
	var groups []api.GroupedTodos
	if err := c.do(ctx, http.MethodGet, "/api/todos/grouped", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) GetTodo(ctx context.Context, id string) (*api.Todo, error) {
	var todo api.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos/"+url.PathEscape(id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) CreateTodo(ctx context.Context, req api.CreateTodoRequest) (*api.Todo, error) {
	var todo api.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id string, req api.UpdateTodoRequest) (*api.Todo, error) {
	var todo api.Todo
	if err := c.do(ctx, http.MethodPut, "/api/todos/"+url.PathEscape(id), req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]api.Category, error) {
	var categories []api.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*api.Category, error) {
	var category api.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(id), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*api.Category, error) {
	var category api.Category
	if err := c.do(ctx, http.MethodPost, "/api/categories", api.CreateCategoryRequest{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr api.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
