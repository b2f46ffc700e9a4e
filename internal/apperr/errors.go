package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeMalformedRequest Code = "MALFORMED_REQUEST"
	CodeUnsupported      Code = "UNSUPPORTED_OPERATION"
)

type Resource string

const (
	ResourceUser Resource = "user"
	ResourceTask Resource = "task"
)

// Sentinels for errors.Is. Matching is done on Code only.
var (
	ErrNotFound         = &BusinessError{Code: CodeNotFound}
	ErrValidation       = &BusinessError{Code: CodeValidation}
	ErrMalformedRequest = &BusinessError{Code: CodeMalformedRequest}
	ErrUnsupported      = &BusinessError{Code: CodeUnsupported}
)

type BusinessError struct {
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func (b *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return t.Code == b.Code
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code Code, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource Resource, id string) *BusinessError {
	return NewBusinessError(CodeNotFound,
		fmt.Sprintf("%s with id '%s' not found", resource, id),
		ToDetail("resource", resource),
		ToDetail("id", id),
	)
}

func NewValidationError(field, reason string) *BusinessError {
	return NewBusinessError(CodeValidation,
		fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		ToDetail("field", field),
		ToDetail("reason", reason),
	)
}

func NewMalformedRequest(reason string) *BusinessError {
	return NewBusinessError(CodeMalformedRequest,
		fmt.Sprintf("malformed request: %s", reason),
		ToDetail("reason", reason),
	)
}

func NewUnsupported(method, path string) *BusinessError {
	return NewBusinessError(CodeUnsupported,
		fmt.Sprintf("unsupported operation: %s %s", method, path),
		ToDetail("method", method),
		ToDetail("path", path),
	)
}

// Message returns the text shown to a user: the business message when err
// carries one, the plain error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Message
	}
	return err.Error()
}

// CodeOf reports the business code carried by err, if any.
func CodeOf(err error) (Code, bool) {
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr.Code, true
	}
	return "", false
}
