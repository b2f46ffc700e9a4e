package handlers

import (
	"context"
	"errors"
	"todoList/internal/apperr"
	"todoList/internal/form"
	"todoList/internal/handlers/dto"
	"todoList/internal/logger"
	"todoList/internal/models/user"
	"todoList/internal/wire"

	"go.uber.org/zap"
)

func (rt *Router) listUsers(ctx context.Context, req *wire.Request) Result {
	res := viewResult(ViewUsers)
	res.Users = rt.users.ListUsers(ctx)
	return res
}

// userTasks renders a missing user inline instead of failing the request.
func (rt *Router) userTasks(ctx context.Context, rawID string) Result {
	res := viewResult(ViewUserTasks)
	res.OwnerID = rawID

	u, err := rt.users.GetUser(ctx, user.ID(rawID))
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return handleError("user_tasks", err)
		}
		res.Message = apperr.Message(err)
		return res
	}

	res.Owner = &u
	for _, t := range rt.tasks.ListTasksByUser(ctx, u) {
		res.Tasks = append(res.Tasks, TaskRow{Task: t, Owner: u.FirstName})
	}
	return res
}

func (rt *Router) createUserForm(ctx context.Context, req *wire.Request) Result {
	return viewResult(ViewCreateUserForm)
}

func (rt *Router) createUser(ctx context.Context, req *wire.Request) Result {
	in := dto.CreateUserFromForm(form.Decode(req.Body))
	if err := dto.Validate(in); err != nil {
		return handleError("create_user", err)
	}

	u, err := rt.users.CreateUser(ctx, in.FirstName)
	if err != nil {
		return handleError("create_user", err)
	}

	logger.Info("Router: user created", zap.String("user_id", u.ID.String()))
	return successResult("User created", u.String(), "/users")
}

func (rt *Router) deleteUser(ctx context.Context, req *wire.Request) Result {
	in := dto.DeleteUserFromForm(form.Decode(req.Body))
	if err := dto.Validate(in); err != nil {
		return handleError("delete_user", err)
	}

	if err := rt.users.DeleteUser(ctx, user.ID(in.UserID)); err != nil {
		return handleError("delete_user", err)
	}

	logger.Info("Router: user deleted", zap.String("user_id", in.UserID))
	return successResult("User deleted", "", "/users")
}
