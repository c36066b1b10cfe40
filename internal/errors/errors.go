package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an error for callers and for the transport layer.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUpstream        Kind = "upstream"
	KindInternal        Kind = "internal"
)

// Error is a domain error with a kind, a machine-readable code and a
// human-readable message. Err keeps the underlying cause, if any.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same code so wrapped copies compare equal to the
// sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an Error without a cause.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap returns a copy of sentinel carrying err as its cause.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Validation builds a validation error with a custom message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// FromValidator turns validator errors into a validation error naming the
// first offending field.
func FromValidator(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Validation(err.Error())
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return Validation(field + " is required")
	case "email":
		return Validation(field + " must be a valid email")
	case "min":
		return Validation(field + " must be at least " + fe.Param() + " characters")
	case "max":
		return Validation(field + " must be at most " + fe.Param() + " characters")
	case "gte", "gt":
		return Validation(field + " must be at least " + fe.Param())
	}
	return Validation(field + " is invalid")
}

var (
	// ErrDuplicateEmail is returned when registering an email that is already in use.
	ErrDuplicateEmail = New(KindConflict, "DUPLICATE_EMAIL", "email already exists")
	// ErrInvalidCredentials is returned for any failed login, whatever the reason.
	ErrInvalidCredentials = New(KindUnauthenticated, "INVALID_CREDENTIALS", "invalid credentials")
	// ErrUnauthenticated is returned for a missing, invalid, expired or revoked session.
	ErrUnauthenticated = New(KindUnauthenticated, "UNAUTHENTICATED", "invalid or expired session")
	// ErrUserNotFound is returned when a session refers to a user that no longer exists.
	ErrUserNotFound = New(KindNotFound, "USER_NOT_FOUND", "user not found")
	// ErrForbidden is returned when the caller lacks the required role or ownership.
	ErrForbidden = New(KindForbidden, "FORBIDDEN", "access denied")
	// ErrHotelAlreadyRegistered is returned when an owner registers a second hotel.
	ErrHotelAlreadyRegistered = New(KindConflict, "HOTEL_ALREADY_REGISTERED", "hotel already registered")
	// ErrNoHotelForOwner is returned when the caller has not registered a hotel.
	ErrNoHotelForOwner = New(KindNotFound, "NO_HOTEL_FOR_OWNER", "no hotel found")
	// ErrInvalidImageCount is returned when a room has no images or too many.
	ErrInvalidImageCount = New(KindValidation, "INVALID_IMAGE_COUNT", "a room needs between 1 and 4 images")
	// ErrImageRequired is returned when registering without a profile image.
	ErrImageRequired = New(KindValidation, "IMAGE_REQUIRED", "image is required")
	// ErrImageUploadFailed is returned when the blob store rejects an upload.
	ErrImageUploadFailed = New(KindUpstream, "IMAGE_UPLOAD_FAILED", "image upload failed")
	// ErrRoomNotFound is returned when the referenced room does not exist.
	ErrRoomNotFound = New(KindNotFound, "ROOM_NOT_FOUND", "room not found")
	// ErrRoomUnavailable is returned when the requested dates overlap an existing booking.
	ErrRoomUnavailable = New(KindConflict, "ROOM_UNAVAILABLE", "room is not available")
	// ErrInvalidDateRange is returned when check-out is not after check-in.
	ErrInvalidDateRange = New(KindValidation, "INVALID_DATE_RANGE", "check-out date must be after check-in date")
	// ErrInvalidGuests is returned when the guest count is below one.
	ErrInvalidGuests = New(KindValidation, "INVALID_GUESTS", "guests must be at least 1")
	// ErrInvalidRoomType is returned for an unknown room type.
	ErrInvalidRoomType = New(KindValidation, "INVALID_ROOM_TYPE", "invalid room type")
	// ErrInvalidPrice is returned when the nightly price is not positive.
	ErrInvalidPrice = New(KindValidation, "INVALID_PRICE", "price per night must be positive")
	// ErrStorage is returned when the persistent store fails.
	ErrStorage = New(KindUpstream, "STORAGE_ERROR", "storage unavailable")
	// ErrInternal is returned for failures with no better classification.
	ErrInternal = New(KindInternal, "INTERNAL_ERROR", "internal server error")
)

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
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
		Success: false,
		Message: e.Message,
		Code:    e.Code,
	}
}

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindUpstream:        http.StatusServiceUnavailable,
}

// MapErrorToHTTP maps domain errors to HTTP errors. Causes never leak into the
// message; unclassified errors become a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return NewHTTPError(http.StatusInternalServerError, ErrInternal.Message, ErrInternal.Code)
	}
	status, ok := kindStatus[e.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	return NewHTTPError(status, e.Message, e.Code)
}
