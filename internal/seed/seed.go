// Package seed fills a fresh store with sample users and tasks.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"todoList/internal/logger"
	"todoList/internal/models/task"
	"todoList/internal/models/user"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Data struct {
	Users []User `yaml:"users"`
	Tasks []Task `yaml:"tasks"`
}

type User struct {
	FirstName string `yaml:"first_name"`
}

// Task names its owner by first name. A task is dated when it has either
// an absolute DueDate (yyyy-MM-dd) or DueInDays relative to today.
type Task struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
	Done        bool   `yaml:"done"`
	DueDate     string `yaml:"due_date"`
	DueInDays   *int   `yaml:"due_in_days"`
}

type UserService interface {
	CreateUser(ctx context.Context, firstName string) (user.User, error)
	GetUserByFirstName(ctx context.Context, firstName string) (user.User, error)
}

type TaskService interface {
	CreateWithBuilder(ctx context.Context, b *task.Builder) (task.Task, error)
}

func days(n int) *int {
	return &n
}

func Default() Data {
	return Data{
		Users: []User{
			{FirstName: "Alice"},
			{FirstName: "Bob"},
			{FirstName: "Charlie"},
		},
		Tasks: []Task{
			{Title: "Learn Go", Description: "Study the basics of Go", Owner: "Alice"},
			{Title: "Go shopping", Description: "Buy bread and milk", Owner: "Bob"},
			{Title: "Hand in the project", Description: "Finish the TODO list project", Owner: "Alice", DueInDays: days(7)},
			{Title: "Team meeting", Description: "Prepare the presentation", Owner: "Charlie", DueInDays: days(2)},
		},
	}
}

func LoadFile(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode rejects unknown keys so typos in a seed file surface early.
func Decode(r io.Reader) (Data, error) {
	var data Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return Data{}, fmt.Errorf("decode seed file: %w", err)
	}
	return data, nil
}

// Apply creates data's users, then its tasks. today anchors DueInDays.
func Apply(ctx context.Context, users UserService, tasks TaskService, data Data, today time.Time) error {
	for _, u := range data.Users {
		if _, err := users.CreateUser(ctx, u.FirstName); err != nil {
			return fmt.Errorf("seed user %q: %w", u.FirstName, err)
		}
	}

	for _, t := range data.Tasks {
		owner, err := users.GetUserByFirstName(ctx, t.Owner)
		if err != nil {
			return fmt.Errorf("seed task %q: %w", t.Title, err)
		}

		b := task.NewBuilder().
			Title(t.Title).
			Description(t.Description).
			CreatedBy(owner).
			Done(t.Done)

		switch {
		case t.DueDate != "":
			b.DueDateString(t.DueDate)
		case t.DueInDays != nil:
			b.DueDateString(today.AddDate(0, 0, *t.DueInDays).Format(time.DateOnly))
		}

		if _, err := tasks.CreateWithBuilder(ctx, b); err != nil {
			return fmt.Errorf("seed task %q: %w", t.Title, err)
		}
	}

	logger.Info("Seed: data applied",
		zap.Int("users", len(data.Users)),
		zap.Int("tasks", len(data.Tasks)))
	return nil
}
