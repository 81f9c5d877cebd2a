package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	// KindStorage is any persistence fault. It is the default for unknown errors.
	KindStorage Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "storage"
	}
}

// Error is a domain error with a message that is safe to show to users.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrArticleNotFound is returned when no article matches a lookup.
	ErrArticleNotFound = &Error{Kind: KindNotFound, Message: "article not found"}
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = &Error{Kind: KindNotFound, Message: "user not found"}
	// ErrInvalidCredentials is returned for any failed login. It never says which factor was wrong.
	ErrInvalidCredentials = &Error{Kind: KindValidation, Message: "invalid username or password"}
	// ErrUsernameTaken is returned when a username already exists.
	ErrUsernameTaken = &Error{Kind: KindValidation, Message: "username is already taken"}
	// ErrSlugTaken is returned when no free slug could be found for a title.
	ErrSlugTaken = &Error{Kind: KindValidation, Message: "an article with this title already exists"}
	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = &Error{Kind: KindValidation, Message: "invalid role"}
	// ErrSelfDelete is returned when a user tries to delete their own account.
	ErrSelfDelete = &Error{Kind: KindValidation, Message: "you cannot delete your own account"}
	// ErrInvalidImage is returned for uploads that are not an accepted image type.
	ErrInvalidImage = &Error{Kind: KindValidation, Message: "image must be a jpg, png, gif or webp file"}
	// ErrUnauthorized is returned when a session is required but missing.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "login required"}
	// ErrForbidden is returned when the session role is not allowed.
	ErrForbidden = &Error{Kind: KindForbidden, Message: "access denied"}
)

// NewValidation creates a validation error with the given message.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of err. Errors that are not *Error are storage faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Storage faults never leak details.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, "something went wrong, please try again later", "INTERNAL_ERROR")
	}
	switch e.Kind {
	case KindNotFound:
		return NewHTTPError(http.StatusNotFound, e.Message, "NOT_FOUND")
	case KindUnauthorized:
		return NewHTTPError(http.StatusUnauthorized, e.Message, "UNAUTHORIZED")
	case KindForbidden:
		return NewHTTPError(http.StatusForbidden, e.Message, "FORBIDDEN")
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, e.Message, "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "something went wrong, please try again later", "INTERNAL_ERROR")
	}
}
