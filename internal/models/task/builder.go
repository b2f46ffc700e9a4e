package task

import (
	"strings"
	"time"
	"todoList/internal/apperr"
	"todoList/internal/models/user"

	"cloud.google.com/go/civil"
)

const (
	// ISODatePattern is accepted by Builder.DueDateString.
	ISODatePattern = "yyyy-MM-dd"
	// FormDatePattern is what HTTP forms and the console send.
	FormDatePattern = "dd/MM/yyyy"

	formDateLayout = "02/01/2006"
)

// ParseFormDate parses a dd/MM/yyyy date.
func ParseFormDate(s string) (civil.Date, error) {
	t, err := time.Parse(formDateLayout, s)
	if err != nil {
		return civil.Date{}, apperr.NewValidationError("dueDate", "expected format "+FormDatePattern)
	}
	return civil.DateOf(t), nil
}

// ParseISODate parses a yyyy-MM-dd date.
func ParseISODate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, apperr.NewValidationError("dueDate", "expected format "+ISODatePattern)
	}
	return d, nil
}

// FormatFormDate renders d as dd/MM/yyyy.
func FormatFormDate(d civil.Date) string {
	return d.In(time.UTC).Format(formDateLayout)
}

// Builder collects task fields and commits them on Build. A due date makes
// the result a dated task.
type Builder struct {
	title       string
	description string
	createdBy   *user.User
	done        bool
	dueDate     *civil.Date
	err         error
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

func (b *Builder) Description(description string) *Builder {
	b.description = description
	return b
}

func (b *Builder) CreatedBy(u user.User) *Builder {
	b.createdBy = &u
	return b
}

func (b *Builder) Done(done bool) *Builder {
	b.done = done
	return b
}

func (b *Builder) DueDate(d civil.Date) *Builder {
	b.dueDate = &d
	return b
}

// DueDateString sets the due date from a yyyy-MM-dd string. A malformed
// value is reported by Build.
func (b *Builder) DueDateString(s string) *Builder {
	d, err := ParseISODate(s)
	if err != nil {
		b.err = err
		return b
	}
	b.dueDate = &d
	return b
}

func (b *Builder) Build() (Task, error) {
	if b.err != nil {
		return Task{}, b.err
	}
	if strings.TrimSpace(b.title) == "" {
		return Task{}, apperr.NewValidationError("title", "must not be blank")
	}
	if b.createdBy == nil {
		return Task{}, apperr.NewValidationError("createdBy", "is required")
	}

	var t Task
	if b.dueDate != nil {
		t = NewDated(b.title, b.description, b.createdBy.ID, *b.dueDate)
	} else {
		t = NewPlain(b.title, b.description, b.createdBy.ID)
	}
	t.Done = b.done
	return t, nil
}

func Simple(title, description string, createdBy user.User) (Task, error) {
	return NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy).
		Build()
}

func Dated(title, description string, createdBy user.User, dueDate civil.Date) (Task, error) {
	return NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy).
		DueDate(dueDate).
		Build()
}

func DatedFromString(title, description string, createdBy user.User, dueDate string) (Task, error) {
	return NewBuilder().
		Title(title).
		Description(description).
		CreatedBy(createdBy).
		DueDateString(dueDate).
		Build()
}
