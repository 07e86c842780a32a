package service

import (
	"context"
	"errors"
	"strings"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskRepository = repo.TaskRepository

type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) TaskService {
	return TaskService{
		repo: repo,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, text string, dueDate *time.Time, position *task.Position) (*task.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Service: Попытка создать задачу без текста")
		return nil, NewValidationError("text", "текст задачи не может быть пустым")
	}

	now := time.Now()
	taskToCreate := &task.Task{
		ID:        uuid.New(),
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// опциональные поля копируются, чтобы задача не делила память с запросом
	task.WithDueDate(dueDate)(taskToCreate)
	task.WithPosition(position)(taskToCreate)

	if err := s.repo.Create(ctx, taskToCreate); err != nil {
		logger.Error("Service: Не удалось создать задачу", err)
		return nil, NewStorageError(err)
	}

	return taskToCreate, nil
}

func (s *TaskService) GetTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err)
		return nil, NewStorageError(err)
	}

	// порядок выдачи - часть контракта, сортируем независимо от хранилища
	task.SortTasks(tasks)
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToGet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		logger.Error("Service: Не удалось получить задачу", err)
		return nil, NewStorageError(err)
	}
	return taskToGet, nil
}

// UpdateTask применяет частичное обновление: либо все поля, либо никакие
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	taskToUpdate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		logger.Error("Service: Не удалось получить задачу", err)
		return nil, NewStorageError(err)
	}

	for _, opt := range options {
		opt(taskToUpdate)
	}

	taskToUpdate.Text = strings.TrimSpace(taskToUpdate.Text)
	if taskToUpdate.Text == "" {
		logger.Warn("Service: Попытка обнулить текст задачи", zap.String("task_id", id.String()))
		return nil, NewValidationError("text", "текст задачи не может быть пустым")
	}

	taskToUpdate.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, taskToUpdate); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound(id.String())
		}
		logger.Error("Service: Не удалось обновить задачу", err)
		return nil, NewStorageError(err)
	}

	return taskToUpdate, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("task_id", id.String()))
			return NewNotFound(id.String())
		}
		logger.Error("Service: Не удалось удалить задачу", err)
		return NewStorageError(err)
	}
	return nil
}
