// Package console is the interactive line-oriented menu.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"todoList/internal/apperr"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
	"todoList/internal/service"

	"cloud.google.com/go/civil"
)

type UserService interface {
	CreateUser(ctx context.Context, firstName string) (user.User, error)
	GetUser(ctx context.Context, id user.ID) (user.User, error)
	ListUsers(ctx context.Context) []user.User
	UpdateUser(ctx context.Context, id user.ID, firstName string) error
	DeleteUser(ctx context.Context, id user.ID) error
}

type TaskService interface {
	ListTasks(ctx context.Context) []task.Task
	ListTasksByUser(ctx context.Context, u user.User) []task.Task
	CreateTask(ctx context.Context, title, description string, createdBy user.User) (task.Task, error)
	CreateDatedTask(ctx context.Context, title, description string, createdBy user.User, dueDate civil.Date) (task.Task, error)
	GetTask(ctx context.Context, id task.ID) (task.Task, error)
	UpdateTask(ctx context.Context, id task.ID, title, description string, done bool) error
	UpdateDatedTask(ctx context.Context, id task.ID, title, description string, done bool, dueDate civil.Date) error
	MarkDone(ctx context.Context, id task.ID) error
	DeleteTask(ctx context.Context, id task.ID) error
	OverdueTasks(ctx context.Context) []task.Task
	UpcomingTasks(ctx context.Context) []task.Task
	Stats(ctx context.Context) service.Stats
}

var (
	_ UserService = (*service.UserService)(nil)
	_ TaskService = (*service.TaskService)(nil)
)

// errQuit unwinds every menu once input is exhausted.
var errQuit = errors.New("console: input closed")

type Console struct {
	in    *bufio.Scanner
	out   io.Writer
	st    styles
	users UserService
	tasks TaskService
}

func New(in io.Reader, out io.Writer, users UserService, tasks TaskService) *Console {
	return &Console{
		in:    bufio.NewScanner(in),
		out:   out,
		st:    newStyles(out),
		users: users,
		tasks: tasks,
	}
}

// Run shows the main menu until the user quits, input ends or ctx is
// cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.println(c.st.header.Render("=== TODO List ==="))

	for ctx.Err() == nil {
		c.menu("MAIN MENU",
			"1. Manage users",
			"2. Manage tasks",
			"3. Show statistics",
			"0. Quit")

		choice, err := c.ask("Your choice: ")
		if err != nil {
			return c.finish(err)
		}

		switch choice {
		case "1":
			err = c.manageUsers(ctx)
		case "2":
			err = c.manageTasks(ctx)
		case "3":
			c.showStats(ctx)
		case "0":
			c.println("Goodbye!")
			return nil
		default:
			c.fail("Invalid choice. Please try again.")
		}
		if err != nil {
			return c.finish(err)
		}
	}
	return nil
}

func (c *Console) finish(err error) error {
	if errors.Is(err, errQuit) {
		c.println("")
		c.println("Goodbye!")
		return nil
	}
	return err
}

func (c *Console) manageUsers(ctx context.Context) error {
	for {
		c.menu("USERS",
			"1. Create a user",
			"2. List all users",
			"3. Update a user",
			"4. Delete a user",
			"0. Back to main menu")

		choice, err := c.ask("Your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.createUser(ctx)
		case "2":
			c.listUsers(ctx)
		case "3":
			err = c.updateUser(ctx)
		case "4":
			err = c.deleteUser(ctx)
		case "0":
			return nil
		default:
			c.fail("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) manageTasks(ctx context.Context) error {
	for {
		c.menu("TASKS",
			"1. Create a simple task",
			"2. Create a task with a due date",
			"3. List all tasks",
			"4. List tasks of a user",
			"5. Update a task",
			"6. Mark a task as done",
			"7. Delete a task",
			"8. Overdue tasks",
			"9. Upcoming tasks",
			"0. Back to main menu")

		choice, err := c.ask("Your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.createTask(ctx, false)
		case "2":
			err = c.createTask(ctx, true)
		case "3":
			c.listTasks(ctx)
		case "4":
			err = c.listTasksByUser(ctx)
		case "5":
			err = c.updateTask(ctx)
		case "6":
			err = c.markDone(ctx)
		case "7":
			err = c.deleteTask(ctx)
		case "8":
			c.printTasks("Overdue tasks:", "No overdue tasks.", c.tasks.OverdueTasks(ctx))
		case "9":
			c.printTasks("Upcoming tasks:", "No upcoming tasks.", c.tasks.UpcomingTasks(ctx))
		case "0":
			return nil
		default:
			c.fail("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) showStats(ctx context.Context) {
	s := c.tasks.Stats(ctx)
	c.println("")
	c.println(c.st.header.Render("=== STATISTICS ==="))
	c.printf("Users: %d\n", s.Users)
	c.printf("Total tasks: %d\n", s.Tasks)
	c.printf("Completed tasks: %d\n", s.Completed)
	c.printf("Pending tasks: %d\n", s.Pending)
	c.println(c.st.overdue.Render(fmt.Sprintf("Overdue tasks: %d", s.Overdue)))
	c.printf("Upcoming tasks: %d\n", s.Upcoming)
}

// io helpers

func (c *Console) menu(title string, options ...string) {
	c.println("")
	c.println(c.st.header.Render("=== " + title + " ==="))
	for _, opt := range options {
		c.println(c.st.option.Render(opt))
	}
}

// ask prints prompt and returns the next input line, trimmed.
func (c *Console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, c.st.prompt.Render(prompt))
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errQuit
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) ok(s string) {
	c.println(c.st.success.Render(s))
}

func (c *Console) fail(s string) {
	c.println(c.st.failure.Render(s))
}

func (c *Console) failErr(err error) {
	c.fail("Error: " + apperr.Message(err))
}
