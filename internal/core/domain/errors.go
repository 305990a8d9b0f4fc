package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorKind classifies failures the way the client reports them.
type ErrorKind string

const (
	KindConnection  ErrorKind = "connection"
	KindCredentials ErrorKind = "credentials"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindConflict    ErrorKind = "conflict"
	KindValidation  ErrorKind = "validation"
	KindProtocol    ErrorKind = "protocol"
	KindSession     ErrorKind = "session"
	KindRateLimited ErrorKind = "rate_limited"
	KindServer      ErrorKind = "server"
	KindInternal    ErrorKind = "internal"
)

// DomainError is an error with a structured code.
//
// Codes have the form TA-<AREA>-<NNNN>; the last four digits are the HTTP
// status times ten plus a discriminator, so TA-USER-4040 maps to 404.
type DomainError struct {
	Code    string
	Kind    ErrorKind
	Message string
	Details string
	Cause   error
}

// NewDomainError creates a DomainError.
func NewDomainError(code string, kind ErrorKind, message string) *DomainError {
	return &DomainError{Code: code, Kind: kind, Message: message}
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on Code, so a copy made with WithMessage still matches its
// sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy carrying a different user-facing message.
func (e *DomainError) WithMessage(message string) *DomainError {
	c := *e
	c.Message = message
	return &c
}

// WithDetails returns a copy with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// HTTPStatus derives the HTTP status from the code suffix.
func (e *DomainError) HTTPStatus() int {
	if len(e.Code) < 4 {
		return http.StatusInternalServerError
	}
	n, err := strconv.Atoi(e.Code[len(e.Code)-4:])
	if err != nil || n < 1000 {
		return http.StatusInternalServerError
	}
	return n / 10
}

// IsDomainError reports whether err is a DomainError, optionally with code.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// GetErrorCode returns the code of err, or "" when it is not a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) && de.Kind != "" {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// Transport and protocol errors seen by the client.
var (
	ErrConnection = NewDomainError("TA-NET-5030", KindConnection, "connection error")
	ErrProtocol   = NewDomainError("TA-PROTO-5020", KindProtocol, "malformed response from server")
)

// Errors derived from backend HTTP statuses. FromHTTPStatus picks one and
// replaces its message with the backend detail.
var (
	ErrBadRequest    = NewDomainError("TA-API-4000", KindValidation, "bad request")
	ErrUnauthorized  = NewDomainError("TA-API-4010", KindCredentials, "invalid credentials")
	ErrForbidden     = NewDomainError("TA-API-4030", KindForbidden, "not enough privileges")
	ErrNotFound      = NewDomainError("TA-API-4040", KindNotFound, "not found")
	ErrConflict      = NewDomainError("TA-API-4090", KindConflict, "conflict")
	ErrUnprocessable = NewDomainError("TA-API-4220", KindValidation, "invalid request")
	ErrRateLimited   = NewDomainError("TA-API-4290", KindRateLimited, "too many requests")
	ErrServer        = NewDomainError("TA-API-5000", KindServer, "server error")
)

// Session errors.
var (
	ErrTokenMalformed   = NewDomainError("TA-AUTH-4012", KindSession, "malformed token")
	ErrTokenExpired     = NewDomainError("TA-AUTH-4013", KindSession, "token expired")
	ErrNotAuthenticated = NewDomainError("TA-AUTH-4014", KindSession, "not logged in")
	ErrTokenNotSaved    = NewDomainError("TA-AUTH-5001", KindInternal, "could not save session")
)

// Backend errors. Messages match the detail strings the task service returns.
var (
	ErrIncorrectLogin   = NewDomainError("TA-AUTH-4011", KindCredentials, "Incorrect username or password")
	ErrInvalidToken     = NewDomainError("TA-AUTH-4015", KindCredentials, "Could not validate credentials")
	ErrNotAdmin         = NewDomainError("TA-AUTH-4031", KindForbidden, "The user doesn't have enough privileges")
	ErrUserNotFound     = NewDomainError("TA-USER-4041", KindNotFound, "User not found")
	ErrUserExists       = NewDomainError("TA-USER-4001", KindConflict, "User with this username already exists")
	ErrCannotDeleteSelf = NewDomainError("TA-USER-4002", KindValidation, "Cannot delete yourself")
	ErrUsernameRequired = NewDomainError("TA-USER-4221", KindValidation, "Username is required")
	ErrPasswordTooShort = NewDomainError("TA-USER-4222", KindValidation, "Password must be at least 8 characters")
	ErrInvalidRole      = NewDomainError("TA-USER-4223", KindValidation, "Role must be one of: admin, user")
	ErrEmptyUpdate      = NewDomainError("TA-USER-4224", KindValidation, "Nothing to update")
	ErrTaskNotFound     = NewDomainError("TA-TASK-4041", KindNotFound, "Task not found")
	ErrInternal         = NewDomainError("TA-SYS-5000", KindInternal, "Internal server error")
)

// FromHTTPStatus maps a non-2xx status to a DomainError. An empty message
// keeps the sentinel's default text.
func FromHTTPStatus(status int, message string) *DomainError {
	var base *DomainError
	switch {
	case status == http.StatusBadRequest:
		base = ErrBadRequest
	case status == http.StatusUnauthorized:
		base = ErrUnauthorized
	case status == http.StatusForbidden:
		base = ErrForbidden
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status == http.StatusConflict:
		base = ErrConflict
	case status == http.StatusUnprocessableEntity:
		base = ErrUnprocessable
	case status == http.StatusTooManyRequests:
		base = ErrRateLimited
	case status >= 500:
		base = ErrServer
	default:
		base = ErrBadRequest
	}
	if message == "" {
		return base.WithDetails("status " + strconv.Itoa(status))
	}
	return base.WithMessage(message)
}
