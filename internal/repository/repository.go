package repository

import (
	"context"
	"todoList/internal/models/task"
	"todoList/internal/models/user"

	"cloud.google.com/go/civil"
)

// Counts is one consistent snapshot of the store's aggregates.
type Counts struct {
	Users     int
	Tasks     int
	Completed int
	Pending   int
	Overdue   int
	Upcoming  int
}

type UserRepository interface {
	ListUsers(ctx context.Context) []user.User
	GetUser(ctx context.Context, id user.ID) (user.User, error)
	GetUserByFirstName(ctx context.Context, firstName string) (user.User, error)
	AddUser(ctx context.Context, u user.User)
	UpdateUser(ctx context.Context, id user.ID, firstName string) error
	DeleteUser(ctx context.Context, id user.ID) error
	UserCount(ctx context.Context) int
}

type TaskRepository interface {
	ListTasks(ctx context.Context) []task.Task
	ListTasksByUser(ctx context.Context, u user.User) []task.Task
	ListDatedTasks(ctx context.Context) []task.Task
	GetTask(ctx context.Context, id task.ID) (task.Task, error)
	AddTask(ctx context.Context, t task.Task) error
	UpdateTask(ctx context.Context, id task.ID, title, description string, done bool) error
	UpdateDatedTask(ctx context.Context, id task.ID, title, description string, done bool, dueDate civil.Date) error
	MarkDone(ctx context.Context, id task.ID, done bool) error
	DeleteTask(ctx context.Context, id task.ID) error
	DeleteAllTasksByUser(ctx context.Context, u user.User) int

	TaskCount(ctx context.Context) int
	CompletedCount(ctx context.Context) int
	PendingCount(ctx context.Context) int
	OverdueTasks(ctx context.Context, today civil.Date) []task.Task
	UpcomingTasks(ctx context.Context, today civil.Date) []task.Task
	Counts(ctx context.Context, today civil.Date) Counts
}

// Store is the single owner of users and tasks.
type Store interface {
	UserRepository
	TaskRepository
}
