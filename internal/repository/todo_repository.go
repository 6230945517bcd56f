package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todo-api/internal/model"
)

// TodoRepository handles CRUD for todos. Every list is returned in insertion order.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// GetByID returns gorm.ErrRecordNotFound when no todo has the id.
func (r *TodoRepository) GetByID(ctx context.Context, id string) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *TodoRepository) List(ctx context.Context) ([]model.Todo, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *TodoRepository) ListByStatus(ctx context.Context, completed bool) ([]model.Todo, error) {
	return r.find(r.db.WithContext(ctx).Where("completed = ?", completed))
}

func (r *TodoRepository) ListByCategory(ctx context.Context, categoryID string) ([]model.Todo, error) {
	return r.find(r.db.WithContext(ctx).Where("category_id = ?", categoryID))
}

func (r *TodoRepository) find(q *gorm.DB) ([]model.Todo, error) {
	todos := make([]model.Todo, 0)
	if err := q.Order("seq ASC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Update loads the todo, applies mutate and saves the result in one transaction.
// Nothing is written when mutate returns an error.
func (r *TodoRepository) Update(ctx context.Context, id string, mutate func(*model.Todo) error) (*model.Todo, error) {
	var todo model.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&todo).Error; err != nil {
			return err
		}
		if err := mutate(&todo); err != nil {
			return err
		}
		if err := tx.Save(&todo).Error; err != nil {
			return fmt.Errorf("save todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

// Delete removes a todo and reports whether a row existed.
func (r *TodoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Todo{})
	if res.Error != nil {
		return false, fmt.Errorf("delete todo: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *TodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Todo{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return count, nil
}
