package service_test

import (
	"context"
	"errors"
	"taskBoard/internal/models/task"
	"taskBoard/internal/repository"
	"taskBoard/internal/service"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetAll(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

func assertBusinessCode(t *testing.T, err error, code string) {
	t.Helper()
	var businessErr *service.BusinessError
	require.ErrorAs(t, err, &businessErr)
	assert.Equal(t, code, businessErr.Code)
}

// TestTaskService_CreateTask тестирует создание задачи
func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success - задача создаётся с дефолтами", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)
		svc := service.NewTaskService(repo)

		due := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
		pos := &task.Position{X: 5, Y: 6}

		created, err := svc.CreateTask(ctx, "  buy milk  ", &due, pos)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "buy milk", created.Text) // пробелы обрезаны
		assert.False(t, created.Completed)
		require.NotNil(t, created.DueDate)
		assert.True(t, created.DueDate.Equal(due))
		require.NotNil(t, created.Position)
		assert.Equal(t, float64(5), created.Position.X)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)

		repo.AssertExpectations(t)
	})

	t.Run("error - пустой текст", func(t *testing.T) {
		repo := new(MockTaskRepository)
		svc := service.NewTaskService(repo)

		_, err := svc.CreateTask(ctx, "   ", nil, nil)
		assertBusinessCode(t, err, service.CodeValidationError)

		// в хранилище ничего не ушло
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("error - хранилище упало", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))
		svc := service.NewTaskService(repo)

		_, err := svc.CreateTask(ctx, "x", nil, nil)
		assertBusinessCode(t, err, service.CodeStorageError)
	})

	t.Run("success - уникальные id", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		svc := service.NewTaskService(repo)

		first, err := svc.CreateTask(ctx, "one", nil, nil)
		require.NoError(t, err)
		second, err := svc.CreateTask(ctx, "two", nil, nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})
}

// TestTaskService_GetTasks тестирует получение списка
func TestTaskService_GetTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("success - список пересортирован по контракту", func(t *testing.T) {
		repo := new(MockTaskRepository)

		now := time.Now()
		done := &task.Task{ID: uuid.New(), Text: "done", Completed: true, CreatedAt: now}
		open := &task.Task{ID: uuid.New(), Text: "open", CreatedAt: now}

		// хранилище вернуло в «неправильном» порядке
		repo.On("GetAll", mock.Anything).Return([]*task.Task{done, open}, nil)
		svc := service.NewTaskService(repo)

		tasks, err := svc.GetTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, "open", tasks[0].Text)
		assert.Equal(t, "done", tasks[1].Text)
	})

	t.Run("error - хранилище упало", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("GetAll", mock.Anything).Return(nil, errors.New("boom"))
		svc := service.NewTaskService(repo)

		_, err := svc.GetTasks(ctx)
		assertBusinessCode(t, err, service.CodeStorageError)
	})
}

// TestTaskService_GetTaskByID тестирует получение по id
func TestTaskService_GetTaskByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&task.Task{ID: id, Text: "found"}, nil)
		svc := service.NewTaskService(repo)

		got, err := svc.GetTaskByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "found", got.Text)
	})

	t.Run("error - не найдена", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
		svc := service.NewTaskService(repo)

		_, err := svc.GetTaskByID(ctx, id)
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}

// TestTaskService_UpdateTask тестирует частичное обновление
func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success - слияние полей и свежий updatedAt", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		createdAt := time.Now().Add(-time.Hour)
		existing := &task.Task{
			ID:        id,
			Text:      "old text",
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		repo.On("GetByID", mock.Anything, id).Return(existing, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*task.Task")).Return(nil)
		svc := service.NewTaskService(repo)

		updated, err := svc.UpdateTask(ctx, id, task.WithCompleted(true))
		require.NoError(t, err)

		assert.Equal(t, "old text", updated.Text) // не тронутое поле осталось
		assert.True(t, updated.Completed)
		assert.True(t, updated.UpdatedAt.After(createdAt))
		assert.Equal(t, createdAt, updated.CreatedAt)
	})

	t.Run("error - пустой текст после слияния, запись не ушла", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(&task.Task{ID: id, Text: "old"}, nil)
		svc := service.NewTaskService(repo)

		_, err := svc.UpdateTask(ctx, id, task.WithText("   "))
		assertBusinessCode(t, err, service.CodeValidationError)

		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("error - не найдена", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
		svc := service.NewTaskService(repo)

		_, err := svc.UpdateTask(ctx, id, task.WithCompleted(true))
		assertBusinessCode(t, err, service.CodeNotFound)
	})

	t.Run("success - сброс дедлайна", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		due := time.Now().Add(time.Hour)
		repo.On("GetByID", mock.Anything, id).Return(&task.Task{ID: id, Text: "x", DueDate: &due}, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		svc := service.NewTaskService(repo)

		updated, err := svc.UpdateTask(ctx, id, task.WithDueDate(nil))
		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
	})
}

// TestTaskService_DeleteTask тестирует удаление
func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("Delete", mock.Anything, id).Return(nil)
		svc := service.NewTaskService(repo)

		assert.NoError(t, svc.DeleteTask(ctx, id))
	})

	t.Run("error - не найдена", func(t *testing.T) {
		repo := new(MockTaskRepository)
		id := uuid.New()
		repo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound)
		svc := service.NewTaskService(repo)

		err := svc.DeleteTask(ctx, id)
		assertBusinessCode(t, err, service.CodeNotFound)
	})
}

// TestTaskService_HealthCheck тестирует проверку здоровья
func TestTaskService_HealthCheck(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockTaskRepository)
		expectError bool
	}{
		{
			name: "success - бекенд отвечает",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectError: false,
		},
		{
			name: "error - бекенд недоступен",
			setupMock: func(m *MockTaskRepository) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("no connection"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTaskRepository)
			tt.setupMock(repo)
			svc := service.NewTaskService(repo)

			err := svc.HealthCheck(context.Background())
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
