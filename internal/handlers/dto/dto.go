// Package dto binds form bodies to request structs and validates them.
package dto

import (
	"errors"
	"reflect"
	"strings"
	"todoList/internal/apperr"
	"todoList/internal/form"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

type CreateUserRequest struct {
	FirstName string `form:"firstName" validate:"required"`
}

type CreateTaskRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`

	// UserID only has to be present; an empty id is looked up like any other.
	UserID  *string `form:"userId" validate:"required"`
	DueDate string  `form:"dueDate"`
}

// Dated reports whether a non-blank due date was sent.
func (r CreateTaskRequest) Dated() bool {
	return r.DueDate != ""
}

type DeleteUserRequest struct {
	UserID string `form:"userId" validate:"required"`
}

type DeleteTaskRequest struct {
	TaskID string `form:"taskId" validate:"required"`
}

// Text fields are trimmed, so a blank value fails "required".

func CreateUserFromForm(values form.Values) CreateUserRequest {
	return CreateUserRequest{
		FirstName: strings.TrimSpace(values.Get("firstName")),
	}
}

func CreateTaskFromForm(values form.Values) CreateTaskRequest {
	return CreateTaskRequest{
		Title:       strings.TrimSpace(values.Get("title")),
		Description: strings.TrimSpace(values.Get("description")),
		UserID:      values.Optional("userId"),
		DueDate:     strings.TrimSpace(values.Get("dueDate")),
	}
}

func DeleteUserFromForm(values form.Values) DeleteUserRequest {
	return DeleteUserRequest{UserID: values.Get("userId")}
}

func DeleteTaskFromForm(values form.Values) DeleteTaskRequest {
	return DeleteTaskRequest{TaskID: values.Get("taskId")}
}

// Validate checks req against its struct tags and reports the first failing
// field as a validation business error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.NewValidationError(fe.Field(), reason(fe.Tag()))
	}
	return apperr.NewValidationError("request", err.Error())
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	default:
		return "failed rule " + tag
	}
}
