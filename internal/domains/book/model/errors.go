package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"bookcatalog/internal/shared/response"
	"bookcatalog/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrStorage      = errors.New("storage unavailable")
)

// ValidationError rejects a request as a whole. Details maps field names to messages.
type ValidationError struct {
	Message string
	Details map[string]string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Details))
	for field := range e.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Details[field])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

// FromValidation converts ozzo-validation output into a *ValidationError.
// nil stays nil; errors that are not field errors are wrapped as the message.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for field, fe := range fieldErrs {
			if fe != nil {
				details[field] = fe.Error()
			}
		}
		return &ValidationError{Message: "validation failed", Details: details}
	}
	return &ValidationError{Message: err.Error()}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError wraps a failure of the underlying store. It matches ErrStorage.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// HandleBookError writes the error envelope for err and reports whether it did.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		if len(ve.Details) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, ve.Message, ve.Details)
		} else {
			response.ErrorResponse(c, http.StatusBadRequest, response.CodeValidation, ve.Message)
		}
	case errors.Is(err, ErrBookNotFound):
		response.NotFound(c, "The specified book does not exist")
	case errors.Is(err, ErrStorage):
		logger.Error("catalog store failure", err)
		response.ServiceUnavailable(c, "Catalog store is unavailable")
	default:
		logger.Error("unhandled catalog error", err)
		response.InternalServerError(c, "Internal server error")
	}
	return true
}
