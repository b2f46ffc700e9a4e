package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todoList/internal/apperr"
	"todoList/internal/logger"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/repository"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

type Stats struct {
	Users     int
	Tasks     int
	Completed int
	Pending   int
	Overdue   int
	Upcoming  int
}

type TaskService struct {
	repo  repository.Store
	clock func() time.Time
}

type TaskServiceOption func(*TaskService)

// WithClock replaces time.Now as the source of "today".
func WithClock(clock func() time.Time) TaskServiceOption {
	return func(s *TaskService) {
		s.clock = clock
	}
}

func NewTaskService(repo repository.Store, options ...TaskServiceOption) *TaskService {
	s := &TaskService{
		repo:  repo,
		clock: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *TaskService) Today() civil.Date {
	return civil.DateOf(s.clock())
}

func (s *TaskService) ListTasks(ctx context.Context) []task.Task {
	return s.repo.ListTasks(ctx)
}

func (s *TaskService) ListTasksByUser(ctx context.Context, u user.User) []task.Task {
	return s.repo.ListTasksByUser(ctx, u)
}

func (s *TaskService) ListDatedTasks(ctx context.Context) []task.Task {
	return s.repo.ListDatedTasks(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, title, description string, createdBy user.User) (task.Task, error) {
	return s.CreateWithBuilder(ctx, task.NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy))
}

func (s *TaskService) CreateDatedTask(ctx context.Context, title, description string, createdBy user.User, dueDate civil.Date) (task.Task, error) {
	return s.CreateWithBuilder(ctx, task.NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy).
		DueDate(dueDate))
}

// CreateDatedTaskFromString takes the due date as yyyy-MM-dd.
func (s *TaskService) CreateDatedTaskFromString(ctx context.Context, title, description string, createdBy user.User, dueDate string) (task.Task, error) {
	return s.CreateWithBuilder(ctx, task.NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy).
		DueDateString(dueDate))
}

func (s *TaskService) CreateWithBuilder(ctx context.Context, b *task.Builder) (task.Task, error) {
	t, err := b.Build()
	if err != nil {
		logger.Info("Service: task rejected", zap.Error(err))
		return task.Task{}, fmt.Errorf("build task: %w", err)
	}

	if err := s.repo.AddTask(ctx, t); err != nil {
		return task.Task{}, fmt.Errorf("add task: %w", err)
	}

	logger.Info("Service: task created",
		zap.String("task_id", t.ID.String()),
		zap.Stringer("kind", t.Kind),
		zap.String("created_by", t.CreatedBy.String()))
	return t, nil
}

func (s *TaskService) GetTask(ctx context.Context, id task.ID) (task.Task, error) {
	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("target_id", id.String()))
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id task.ID, title, description string, done bool) error {
	if err := s.repo.UpdateTask(ctx, id, title, description, done); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	logger.Info("Service: task updated", zap.String("task_id", id.String()))
	return nil
}

// UpdateDatedTask reports a plain task id as not found.
func (s *TaskService) UpdateDatedTask(ctx context.Context, id task.ID, title, description string, done bool, dueDate civil.Date) error {
	if err := s.repo.UpdateDatedTask(ctx, id, title, description, done, dueDate); err != nil {
		return fmt.Errorf("update dated task: %w", err)
	}
	logger.Info("Service: dated task updated", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) MarkDone(ctx context.Context, id task.ID) error {
	return s.setDone(ctx, id, true)
}

func (s *TaskService) MarkUndone(ctx context.Context, id task.ID) error {
	return s.setDone(ctx, id, false)
}

func (s *TaskService) setDone(ctx context.Context, id task.ID, done bool) error {
	if err := s.repo.MarkDone(ctx, id, done); err != nil {
		return fmt.Errorf("mark task: %w", err)
	}
	logger.Info("Service: task marked", zap.String("task_id", id.String()), zap.Bool("done", done))
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id task.ID) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	logger.Info("Service: task deleted", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) DeleteAllByUser(ctx context.Context, u user.User) int {
	removed := s.repo.DeleteAllTasksByUser(ctx, u)
	logger.Info("Service: tasks of user deleted",
		zap.String("user_id", u.ID.String()),
		zap.Int("removed", removed))
	return removed
}

func (s *TaskService) OverdueTasks(ctx context.Context) []task.Task {
	return s.repo.OverdueTasks(ctx, s.Today())
}

func (s *TaskService) UpcomingTasks(ctx context.Context) []task.Task {
	return s.repo.UpcomingTasks(ctx, s.Today())
}

// Stats is taken from a single store snapshot.
func (s *TaskService) Stats(ctx context.Context) Stats {
	return Stats(s.repo.Counts(ctx, s.Today()))
}
