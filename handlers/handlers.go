package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

func opID(id, summary string) func(*huma.Operation) {
	return func(o *huma.Operation) { o.OperationID, o.Summary = id, summary }
}

func opStatus(code int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.DefaultStatus = code }
}

// validationDetail is the detail of every 422 response.
const validationDetail = "Validation error"

// ErrorModel is the body of every error response.
type ErrorModel struct {
	status int
	cause  error

	Detail string   `json:"detail"           doc:"What went wrong" example:"Contact not found"`
	Errors []string `json:"errors,omitempty" doc:"One \"field: message\" entry per invalid field"`
}

// Error includes the cause, which is never part of the response body.
func (e *ErrorModel) Error() string {
	msg := e.Detail
	if len(e.Errors) > 0 {
		msg += ": " + strings.Join(e.Errors, ", ")
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *ErrorModel) Unwrap() error { return e.cause }

// GetStatus implements [huma.StatusError].
func (e *ErrorModel) GetStatus() int { return e.status }

func statusError(status int, detail string, cause error) *ErrorModel {
	return &ErrorModel{status: status, cause: cause, Detail: detail}
}

// NewError builds an [ErrorModel]; assign it to [huma.NewError] so huma
// reports its own request validation failures with the same body.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		msg = validationDetail
	}
	var details []string
	for _, err := range errs {
		if err != nil {
			details = append(details, fieldMessage(err))
		}
	}
	return &ErrorModel{status: status, Detail: msg, Errors: details}
}

// fieldMessage formats err as "field: message", taking the field
// from the last segment of the huma error location (e.g. body.first_name).
func fieldMessage(err error) string {
	var detailer huma.ErrorDetailer
	if !errors.As(err, &detailer) {
		return err.Error()
	}
	detail := detailer.ErrorDetail()
	field := detail.Location
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	if field == "" {
		return detail.Message
	}
	return field + ": " + detail.Message
}
