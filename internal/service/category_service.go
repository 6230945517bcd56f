package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todo-api/internal/model"
	"todo-api/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo  *repository.CategoryRepository
	clock Clock
}

func NewCategoryService(repo *repository.CategoryRepository, clock Clock) *CategoryService {
	return &CategoryService{repo: repo, clock: clock}
}

// Create stores a category; the name must be non-empty after trimming.
func (s *CategoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "Category name is required")
	}

	category := model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.clock.now(),
	}
	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category", id)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check category %s: %w", id, err)
	}
	return ok, nil
}
