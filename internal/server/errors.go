package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-reviewer/internal/fetch"
	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/rendering"
)

// ErrValidation indicates request validation failure.
// With no Field, Message is returned verbatim to the client.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthorized indicates missing or rejected credentials.
type ErrUnauthorized struct {
	Reason string
}

func (e *ErrUnauthorized) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

// ErrPayloadTooLarge indicates a request body over server.max_body_bytes.
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		unauthorized   *ErrUnauthorized
		tooLarge       *ErrPayloadTooLarge
		maxBytes       *http.MaxBytesError
		fetchErr       *fetch.Error
		unsupported    *ingestion.UnsupportedFormatError
		extractionErr  *ingestion.ExtractionError
		renderErr      *rendering.RenderError
		validationErrs validator.ValidationErrors
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &validationErrs),
		errors.As(err, &unsupported), errors.As(err, &extractionErr), errors.As(err, &renderErr):
		return http.StatusBadRequest
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage is the error text safe to return in a response body.
func clientMessage(err error, status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusRequestEntityTooLarge:
		var tooLarge *ErrPayloadTooLarge
		if errors.As(err, &tooLarge) {
			return tooLarge.Error()
		}
		return "request body too large"
	}
	return err.Error()
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fromValidator converts validator failures into an ErrValidation naming the first bad field.
func fromValidator(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}
	fe := validationErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &ErrValidation{
		Field:   field,
		Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
	}
}
