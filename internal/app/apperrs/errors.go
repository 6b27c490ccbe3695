package apperrs

import "fmt"

type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

var (
	ErrRecordNotFound = &AppError{
		Code:    "RECORD_NOT_FOUND",
		Message: "Note not found",
	}
	ErrURLTaken = &AppError{
		Code:    "URL_TAKEN",
		Message: "URL already taken",
	}
	ErrInvalidShortURL = &AppError{
		Code:    "INVALID_SHORT_URL",
		Message: "Only letters, numbers, hyphens, and underscores allowed",
	}
	ErrParentNotFound = &AppError{
		Code:    "PARENT_NOT_FOUND",
		Message: "Parent note not found",
	}
	ErrInternal = &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
	}
)
