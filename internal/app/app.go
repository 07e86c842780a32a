package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/repository/task/postgres"
	"taskBoard/internal/service"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository repository.TaskRepository
	durable    bool
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	// выбор бекенда происходит один раз, здесь, и дальше не меняется
	a.repository, a.durable = a.selectRepository(ctx)

	taskService := service.NewTaskService(a.repository)
	taskHandler := handlers.NewTaskHandler(&taskService, a.durable)

	a.router = a.buildRouter(&taskHandler)
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

// selectRepository пробует подключиться к PostgreSQL с ограниченным числом
// попыток; после исчерпания попыток процесс живёт на резервном хранилище
func (a *App) selectRepository(ctx context.Context) (repository.TaskRepository, bool) {
	dbCfg := a.config.Database

	if dbCfg.URL == "" {
		logger.Warn("App: Строка подключения не задана, работаем на хранилище в памяти")
		return inmemory.NewTaskStorage(), false
	}

	var storage *postgres.Storage

	connect := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, dbCfg.ConnectTimeout)
		defer cancel()

		s, err := postgres.New(attemptCtx, dbCfg.URL)
		if err != nil {
			logger.Warn("App: Попытка подключения к PostgreSQL не удалась", zap.Error(err))
			return err
		}
		storage = s
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = dbCfg.RetryInterval
	expBackoff.Multiplier = 2
	expBackoff.RandomizationFactor = 0
	expBackoff.MaxElapsedTime = 0

	// retry_attempts - всего попыток, первая не считается повтором
	retries := dbCfg.RetryAttempts
	if retries > 0 {
		retries--
	}

	err := backoff.Retry(connect, backoff.WithContext(backoff.WithMaxRetries(expBackoff, retries), ctx))
	if err != nil {
		logger.Warn("App: PostgreSQL недоступен, работаем на хранилище в памяти",
			zap.Error(err),
			zap.Uint64("attempts", dbCfg.RetryAttempts))
		return inmemory.NewTaskStorage(), false
	}

	if err := storage.Migrate(); err != nil {
		logger.Error("App: Миграции не применились, работаем на хранилище в памяти", err)
		storage.Close()
		return inmemory.NewTaskStorage(), false
	}

	a.shutdowns = append(a.shutdowns, storage.Close)

	logger.Info("App: Выбран постоянный бекенд PostgreSQL")
	return storage, true
}

func (a *App) buildRouter(taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/tasks", func(r chi.Router) {

		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run блокируется до отмены контекста, затем аккуратно гасит сервер
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("сервер: %w", err)
	case <-ctx.Done():
	}

	logger.Info("App: Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.runShutdowns()
	if err != nil {
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
