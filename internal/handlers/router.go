package handlers

import (
	"context"
	"strings"
	"todoList/internal/apperr"
	"todoList/internal/logger"
	"todoList/internal/wire"

	"go.uber.org/zap"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	userTasksPrefix = "/user/"
)

// Handler turns a parsed request into a Result. Implementations never
// return errors; failures travel in Result.Err.
type Handler interface {
	Handle(ctx context.Context, req *wire.Request) Result
}

type HandlerFunc func(ctx context.Context, req *wire.Request) Result

func (f HandlerFunc) Handle(ctx context.Context, req *wire.Request) Result {
	return f(ctx, req)
}

// Router dispatches on exact method and path. GET /user/{id} is the only
// prefix route.
type Router struct {
	users UserService
	tasks TaskService
	get   map[string]HandlerFunc
	post  map[string]HandlerFunc
}

var _ Handler = (*Router)(nil)

func NewRouter(users UserService, tasks TaskService) *Router {
	rt := &Router{
		users: users,
		tasks: tasks,
	}

	rt.get = map[string]HandlerFunc{
		"/":                 rt.home,
		"/index":            rt.home,
		"/users":            rt.listUsers,
		"/tasks":            rt.listTasks,
		"/stats":            rt.stats,
		"/create-user-form": rt.createUserForm,
		"/create-task-form": rt.createTaskForm,
	}
	rt.post = map[string]HandlerFunc{
		"/create-user": rt.createUser,
		"/create-task": rt.createTask,
		"/delete-user": rt.deleteUser,
		"/delete-task": rt.deleteTask,
	}
	return rt
}

func (rt *Router) Handle(ctx context.Context, req *wire.Request) Result {
	switch req.Method {
	case MethodGet:
		if h, ok := rt.get[req.Path]; ok {
			return h(ctx, req)
		}
		if id, ok := strings.CutPrefix(req.Path, userTasksPrefix); ok {
			return rt.userTasks(ctx, id)
		}
	case MethodPost:
		if h, ok := rt.post[req.Path]; ok {
			return h(ctx, req)
		}
	}

	logger.Debug("Router: no route",
		zap.String("method", req.Method),
		zap.String("path", req.Path))
	return handleError("route", apperr.NewUnsupported(req.Method, req.Path))
}

func (rt *Router) home(ctx context.Context, req *wire.Request) Result {
	return viewResult(ViewHome)
}

func (rt *Router) stats(ctx context.Context, req *wire.Request) Result {
	res := viewResult(ViewStats)
	res.Stats = rt.tasks.Stats(ctx)
	return res
}
