package repository

import (
	"context"
	"errors"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("задача не найдена")
var ErrUnavailable = errors.New("хранилище недоступно")

type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, taskToCreate *task.Task) error
	Update(ctx context.Context, taskToUpdate *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAll(ctx context.Context) ([]*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
