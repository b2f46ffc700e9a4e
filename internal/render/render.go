// Package render turns router results into HTML pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
	"todoList/internal/apperr"
	"todoList/internal/handlers"
	"todoList/internal/models/task"

	"cloud.google.com/go/civil"
)

//go:embed templates/*.html
var files embed.FS

var views = []handlers.View{
	handlers.ViewHome,
	handlers.ViewUsers,
	handlers.ViewTasks,
	handlers.ViewStats,
	handlers.ViewUserTasks,
	handlers.ViewCreateUserForm,
	handlers.ViewCreateTaskForm,
	handlers.ViewSuccess,
	handlers.ViewError,
}

type Renderer struct {
	pages map[handlers.View]*template.Template
	clock func() time.Time
}

type Option func(*Renderer)

// WithClock sets the clock used to mark overdue tasks.
func WithClock(clock func() time.Time) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		pages: make(map[handlers.View]*template.Template, len(views)),
		clock: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}

	funcs := template.FuncMap{
		"dueDate":         dueDate,
		"statusClass":     r.statusClass,
		"errorMessage":    apperr.Message,
		"formDatePattern": func() string { return task.FormDatePattern },
	}

	for _, view := range views {
		page, err := template.New("layout.html").Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/task_row.html",
			"templates/"+string(view)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", view, err)
		}
		r.pages[view] = page
	}
	return r, nil
}

// Render produces the page for res.
func (r *Renderer) Render(res handlers.Result) (string, error) {
	view := res.View
	if res.Failed() {
		view = handlers.ViewError
	}

	page, ok := r.pages[view]
	if !ok {
		return "", fmt.Errorf("no page for view %q", view)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, res); err != nil {
		return "", fmt.Errorf("render %s page: %w", view, err)
	}
	return buf.String(), nil
}

func dueDate(t task.Task) string {
	due, ok := t.Due()
	if !ok {
		return ""
	}
	return task.FormatFormDate(due)
}

func (r *Renderer) statusClass(t task.Task) string {
	switch {
	case t.Done:
		return "task-done"
	case t.IsOverdue(civil.DateOf(r.clock())):
		return "task-overdue"
	default:
		return "task-pending"
	}
}
