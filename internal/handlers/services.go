package handlers

import (
	"context"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/service"
)

type UserService interface {
	CreateUser(ctx context.Context, firstName string) (user.User, error)
	GetUser(ctx context.Context, id user.ID) (user.User, error)
	ListUsers(ctx context.Context) []user.User
	DeleteUser(ctx context.Context, id user.ID) error
}

type TaskService interface {
	ListTasks(ctx context.Context) []task.Task
	ListTasksByUser(ctx context.Context, u user.User) []task.Task
	CreateWithBuilder(ctx context.Context, b *task.Builder) (task.Task, error)
	DeleteTask(ctx context.Context, id task.ID) error
	Stats(ctx context.Context) service.Stats
}

var (
	_ UserService = (*service.UserService)(nil)
	_ TaskService = (*service.TaskService)(nil)
)
