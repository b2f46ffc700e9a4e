package handlers

import (
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/service"
)

// View names the page a Result is rendered into.
type View string

const (
	ViewHome           View = "home"
	ViewUsers          View = "users"
	ViewTasks          View = "tasks"
	ViewStats          View = "stats"
	ViewUserTasks      View = "user_tasks"
	ViewCreateUserForm View = "create_user_form"
	ViewCreateTaskForm View = "create_task_form"
	ViewSuccess        View = "success"
	ViewError          View = "error"
)

// TaskRow is a task together with the first name of its creator.
type TaskRow struct {
	Task  task.Task
	Owner string
}

// Result is what a handler produces. A non-nil Err means the request
// failed and the result is an error page.
type Result struct {
	View    View
	Users   []user.User
	Tasks   []TaskRow
	Stats   service.Stats
	Owner   *user.User
	OwnerID string
	Message string
	Detail  string
	BackURL string
	Err     error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

func viewResult(view View) Result {
	return Result{View: view}
}

func successResult(message, detail, backURL string) Result {
	return Result{
		View:    ViewSuccess,
		Message: message,
		Detail:  detail,
		BackURL: backURL,
	}
}

// ErrorResult turns err into an error page that links home.
func ErrorResult(err error) Result {
	return Result{
		View:    ViewError,
		BackURL: "/",
		Err:     err,
	}
}
