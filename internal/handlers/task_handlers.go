package handlers

import (
	"context"
	"todoList/internal/form"
	"todoList/internal/handlers/dto"
	"todoList/internal/logger"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/wire"

	"go.uber.org/zap"
)

func (rt *Router) listTasks(ctx context.Context, req *wire.Request) Result {
	owners := make(map[user.ID]string)
	for _, u := range rt.users.ListUsers(ctx) {
		owners[u.ID] = u.FirstName
	}

	res := viewResult(ViewTasks)
	for _, t := range rt.tasks.ListTasks(ctx) {
		res.Tasks = append(res.Tasks, TaskRow{Task: t, Owner: owners[t.CreatedBy]})
	}
	return res
}

func (rt *Router) createTaskForm(ctx context.Context, req *wire.Request) Result {
	res := viewResult(ViewCreateTaskForm)
	res.Users = rt.users.ListUsers(ctx)
	return res
}

// createTask builds a dated task when dueDate is a non-blank dd/MM/yyyy
// date and a plain task otherwise.
func (rt *Router) createTask(ctx context.Context, req *wire.Request) Result {
	in := dto.CreateTaskFromForm(form.Decode(req.Body))
	if err := dto.Validate(in); err != nil {
		return handleError("create_task", err)
	}

	owner, err := rt.users.GetUser(ctx, user.ID(*in.UserID))
	if err != nil {
		return handleError("create_task", err)
	}

	b := task.NewBuilder().
		Title(in.Title).
		Description(in.Description).
		CreatedBy(owner)

	if in.Dated() {
		due, err := task.ParseFormDate(in.DueDate)
		if err != nil {
			return handleError("create_task", err)
		}
		b.DueDate(due)
	}

	t, err := rt.tasks.CreateWithBuilder(ctx, b)
	if err != nil {
		return handleError("create_task", err)
	}

	logger.Info("Router: task created",
		zap.String("task_id", t.ID.String()),
		zap.Stringer("kind", t.Kind))
	return successResult("Task created", t.String(), "/tasks")
}

func (rt *Router) deleteTask(ctx context.Context, req *wire.Request) Result {
	in := dto.DeleteTaskFromForm(form.Decode(req.Body))
	if err := dto.Validate(in); err != nil {
		return handleError("delete_task", err)
	}

	if err := rt.tasks.DeleteTask(ctx, task.ID(in.TaskID)); err != nil {
		return handleError("delete_task", err)
	}

	logger.Info("Router: task deleted", zap.String("task_id", in.TaskID))
	return successResult("Task deleted", "", "/tasks")
}
