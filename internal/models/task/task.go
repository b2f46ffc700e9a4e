package task

import (
	"fmt"
	"todoList/internal/models/user"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	return string(id)
}

// Kind tags the task variant. The set is closed: every switch over Kind
// handles KindPlain and KindDated and nothing else.
type Kind int

const (
	KindPlain Kind = iota
	KindDated
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "task"
	case KindDated:
		return "dated_task"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Task is either a plain task or a dated task, told apart by Kind.
// DueDate is meaningful only for KindDated.
type Task struct {
	ID          ID         `json:"id"`
	Kind        Kind       `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Done        bool       `json:"done"`
	CreatedBy   user.ID    `json:"created_by"`
	DueDate     civil.Date `json:"due_date,omitempty"`
}

func NewPlain(title, description string, createdBy user.ID) Task {
	return Task{
		ID:          NewID(),
		Kind:        KindPlain,
		Title:       title,
		Description: description,
		CreatedBy:   createdBy,
	}
}

func NewDated(title, description string, createdBy user.ID, dueDate civil.Date) Task {
	t := NewPlain(title, description, createdBy)
	t.Kind = KindDated
	t.DueDate = dueDate
	return t
}

// Due returns the due date of a dated task.
func (t Task) Due() (civil.Date, bool) {
	switch t.Kind {
	case KindDated:
		return t.DueDate, true
	case KindPlain:
		return civil.Date{}, false
	default:
		panic(fmt.Sprintf("task: unknown kind %d", int(t.Kind)))
	}
}

func (t Task) IsDated() bool {
	_, ok := t.Due()
	return ok
}

// IsOverdue reports a pending dated task due strictly before today.
func (t Task) IsOverdue(today civil.Date) bool {
	due, ok := t.Due()
	return ok && !t.Done && due.Before(today)
}

// IsUpcoming reports a pending dated task due strictly after today.
func (t Task) IsUpcoming(today civil.Date) bool {
	due, ok := t.Due()
	return ok && !t.Done && due.After(today)
}

func (t Task) String() string {
	switch t.Kind {
	case KindDated:
		return fmt.Sprintf("DatedTask{id='%s', title='%s', description='%s', done=%t, dueDate=%s}",
			t.ID, t.Title, t.Description, t.Done, t.DueDate)
	case KindPlain:
		return fmt.Sprintf("Task{id='%s', title='%s', description='%s', done=%t}",
			t.ID, t.Title, t.Description, t.Done)
	default:
		panic(fmt.Sprintf("task: unknown kind %d", int(t.Kind)))
	}
}
