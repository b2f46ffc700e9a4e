package console

import (
	"context"
	"strings"
	"todoList/internal/models/task"
	"todoList/internal/models/user"
)

func (c *Console) createUser(ctx context.Context) error {
	firstName, err := c.ask("First name: ")
	if err != nil {
		return err
	}
	if firstName == "" {
		c.fail("First name must not be empty.")
		return nil
	}

	u, err := c.users.CreateUser(ctx, firstName)
	if err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("User created: " + u.String())
	return nil
}

// listUsers prints every user and reports whether there were any.
func (c *Console) listUsers(ctx context.Context) bool {
	users := c.users.ListUsers(ctx)
	if len(users) == 0 {
		c.println("No users found.")
		return false
	}

	c.println("Users:")
	for _, u := range users {
		c.println("- " + u.String())
	}
	return true
}

func (c *Console) updateUser(ctx context.Context) error {
	if !c.listUsers(ctx) {
		return nil
	}

	id, err := c.ask("ID of the user to update: ")
	if err != nil {
		return err
	}
	firstName, err := c.ask("New first name: ")
	if err != nil {
		return err
	}

	if err := c.users.UpdateUser(ctx, user.ID(id), firstName); err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("User updated.")
	return nil
}

func (c *Console) deleteUser(ctx context.Context) error {
	if !c.listUsers(ctx) {
		return nil
	}

	id, err := c.ask("ID of the user to delete: ")
	if err != nil {
		return err
	}

	if err := c.users.DeleteUser(ctx, user.ID(id)); err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("User deleted along with their tasks.")
	return nil
}

// pickUser lists users and resolves the id typed by the user. ok is false
// when there is nobody to pick or the id is unknown.
func (c *Console) pickUser(ctx context.Context) (u user.User, ok bool, err error) {
	if !c.listUsers(ctx) {
		c.fail("No users available. Create a user first.")
		return user.User{}, false, nil
	}

	id, err := c.ask("User ID: ")
	if err != nil {
		return user.User{}, false, err
	}

	u, lookupErr := c.users.GetUser(ctx, user.ID(id))
	if lookupErr != nil {
		c.failErr(lookupErr)
		return user.User{}, false, nil
	}
	return u, true, nil
}

func (c *Console) createTask(ctx context.Context, dated bool) error {
	owner, ok, err := c.pickUser(ctx)
	if err != nil || !ok {
		return err
	}

	title, err := c.ask("Title: ")
	if err != nil {
		return err
	}
	description, err := c.ask("Description: ")
	if err != nil {
		return err
	}

	var created task.Task
	if dated {
		raw, err := c.ask("Due date (" + task.FormDatePattern + "): ")
		if err != nil {
			return err
		}
		due, parseErr := task.ParseFormDate(raw)
		if parseErr != nil {
			c.fail("Invalid date format. Use " + task.FormDatePattern + ".")
			return nil
		}
		created, err = c.tasks.CreateDatedTask(ctx, title, description, owner, due)
		if err != nil {
			c.failErr(err)
			return nil
		}
	} else {
		created, err = c.tasks.CreateTask(ctx, title, description, owner)
		if err != nil {
			c.failErr(err)
			return nil
		}
	}

	c.ok("Task created: " + created.String())
	return nil
}

func (c *Console) listTasks(ctx context.Context) bool {
	tasks := c.tasks.ListTasks(ctx)
	c.printTasks("All tasks:", "No tasks found.", tasks)
	return len(tasks) > 0
}

func (c *Console) listTasksByUser(ctx context.Context) error {
	owner, ok, err := c.pickUser(ctx)
	if err != nil || !ok {
		return err
	}
	c.printTasks("Tasks of "+owner.FirstName+":", "No tasks found for this user.", c.tasks.ListTasksByUser(ctx, owner))
	return nil
}

// updateTask also asks for a new due date when the task is dated. An empty
// answer keeps the current one.
func (c *Console) updateTask(ctx context.Context) error {
	if !c.listTasks(ctx) {
		return nil
	}

	id, err := c.ask("ID of the task to update: ")
	if err != nil {
		return err
	}
	current, lookupErr := c.tasks.GetTask(ctx, task.ID(id))
	if lookupErr != nil {
		c.failErr(lookupErr)
		return nil
	}

	title, err := c.ask("New title: ")
	if err != nil {
		return err
	}
	description, err := c.ask("New description: ")
	if err != nil {
		return err
	}
	answer, err := c.ask("Is the task done? (yes/no): ")
	if err != nil {
		return err
	}
	done := strings.HasPrefix(strings.ToLower(answer), "y")

	due, dated := current.Due()
	if dated {
		raw, askErr := c.ask("New due date (" + task.FormDatePattern + ", empty keeps " + task.FormatFormDate(due) + "): ")
		if askErr != nil {
			return askErr
		}
		if raw != "" {
			parsed, parseErr := task.ParseFormDate(raw)
			if parseErr != nil {
				c.fail("Invalid date format. Use " + task.FormDatePattern + ".")
				return nil
			}
			due = parsed
		}
		err = c.tasks.UpdateDatedTask(ctx, current.ID, title, description, done, due)
	} else {
		err = c.tasks.UpdateTask(ctx, current.ID, title, description, done)
	}
	if err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("Task updated.")
	return nil
}

func (c *Console) markDone(ctx context.Context) error {
	if !c.listTasks(ctx) {
		return nil
	}

	id, err := c.ask("ID of the task to mark as done: ")
	if err != nil {
		return err
	}

	if err := c.tasks.MarkDone(ctx, task.ID(id)); err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("Task marked as done.")
	return nil
}

func (c *Console) deleteTask(ctx context.Context) error {
	if !c.listTasks(ctx) {
		return nil
	}

	id, err := c.ask("ID of the task to delete: ")
	if err != nil {
		return err
	}

	if err := c.tasks.DeleteTask(ctx, task.ID(id)); err != nil {
		c.failErr(err)
		return nil
	}
	c.ok("Task deleted.")
	return nil
}

func (c *Console) printTasks(heading, empty string, tasks []task.Task) {
	if len(tasks) == 0 {
		c.println(empty)
		return
	}

	c.println(heading)
	for _, t := range tasks {
		line := "- " + t.String()
		if t.Done {
			c.println(c.st.muted.Render(line))
			continue
		}
		c.println(line)
	}
}
