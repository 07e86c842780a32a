package handlers

import "context"
import "time"
import "taskBoard/internal/models/task"

import "github.com/google/uuid"

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, text string, dueDate *time.Time, position *task.Position) (*task.Task, error)
	GetTasks(ctx context.Context) ([]*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}
