// Package apperror is the closed error taxonomy shared by services,
// middleware and handlers. Every failure that reaches the HTTP layer is
// either an *Error or is mapped to one by From.
package apperror

import (
	"errors"
	"net/http"

	"github.com/oksasatya/educatalog/internal/domain/repository"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

// Kind tags an Error. The set is closed; Status and Code switch over it.
type Kind int

const (
	KindInternal Kind = iota
	KindTokenRequired
	KindTokenMalformed
	KindTokenExpired
	KindAccountDisabled
	KindInsufficientRole
	KindForbidden
	KindIdentityConflict
	KindUpstreamProvider
	KindUserNotFound
	KindUserExists
	KindInvalidCredentials
	KindInvalidState
	KindInvalidID
	KindValidation
	KindRateLimited
)

// Error is a tagged application error.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, apperror.ErrTokenExpired).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Status returns the HTTP status for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindTokenRequired, KindTokenMalformed, KindTokenExpired,
		KindAccountDisabled, KindUserNotFound, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindInsufficientRole, KindForbidden:
		return http.StatusForbidden
	case KindUserExists, KindInvalidID, KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindIdentityConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamProvider, KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Code returns the stable machine-readable code for the error kind.
func (e *Error) Code() string {
	switch e.Kind {
	case KindTokenRequired:
		return "TOKEN_REQUIRED"
	case KindTokenMalformed:
		return "INVALID_TOKEN"
	case KindTokenExpired:
		return "TOKEN_EXPIRED"
	case KindAccountDisabled:
		return "ACCOUNT_DISABLED"
	case KindInsufficientRole:
		return "ADMIN_REQUIRED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindIdentityConflict:
		return "IDENTITY_CONFLICT"
	case KindUpstreamProvider:
		return "OAUTH_ERROR"
	case KindUserNotFound:
		return "USER_NOT_FOUND"
	case KindUserExists:
		return "USER_EXISTS"
	case KindInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindInvalidID:
		return "INVALID_ID"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindRateLimited:
		return "RATE_LIMITED"
	case KindInternal:
		return "INTERNAL_SERVER_ERROR"
	}
	return "INTERNAL_SERVER_ERROR"
}

func newKind(k Kind, msg string) *Error { return &Error{Kind: k, Message: msg} }

// Sentinels, usable as errors.Is targets.
var (
	ErrTokenRequired      = newKind(KindTokenRequired, "access token required, expected format: Bearer <token>")
	ErrTokenMalformed     = newKind(KindTokenMalformed, "invalid token")
	ErrTokenExpired       = newKind(KindTokenExpired, "token expired")
	ErrAccountDisabled    = newKind(KindAccountDisabled, "account disabled")
	ErrInsufficientRole   = newKind(KindInsufficientRole, "admin privileges required")
	ErrForbidden          = newKind(KindForbidden, "not allowed to access this resource")
	ErrIdentityConflict   = newKind(KindIdentityConflict, "identity already exists")
	ErrUpstreamProvider   = newKind(KindUpstreamProvider, "oauth provider authentication failed")
	ErrUserNotFound       = newKind(KindUserNotFound, "user not found")
	ErrUserExists         = newKind(KindUserExists, "user already exists")
	ErrInvalidCredentials = newKind(KindInvalidCredentials, "invalid credentials")
	ErrInvalidState       = newKind(KindInvalidState, "invalid or expired oauth state")
	ErrInvalidID          = newKind(KindInvalidID, "invalid id")
	ErrValidation         = newKind(KindValidation, "validation error")
	ErrRateLimited        = newKind(KindRateLimited, "rate limit exceeded")
	ErrInternal           = newKind(KindInternal, "internal server error")
)

// Wrap returns a copy of sentinel carrying cause.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Details: sentinel.Details, Err: cause}
}

// WithDetails returns a copy of sentinel carrying details for the envelope.
func WithDetails(sentinel *Error, details any) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Details: details}
}

// WithRole returns the role-gate error for role. Only the admin gate uses
// the ADMIN_REQUIRED code; other roles report FORBIDDEN.
func WithRole(role string) *Error {
	if role == "admin" {
		return ErrInsufficientRole
	}
	return &Error{Kind: KindForbidden, Message: "role " + role + " required"}
}

// From maps any error into the taxonomy. Store and token errors are
// translated here so storage-specific shapes never reach clients.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	switch {
	case errors.Is(err, helpers.ErrTokenExpired):
		return Wrap(ErrTokenExpired, err)
	case errors.Is(err, helpers.ErrTokenMalformed):
		return Wrap(ErrTokenMalformed, err)
	case errors.Is(err, repository.ErrNotFound):
		return Wrap(ErrUserNotFound, err)
	case errors.Is(err, repository.ErrInvalidID):
		return Wrap(ErrInvalidID, err)
	}
	var ce *repository.ConflictError
	if errors.As(err, &ce) {
		if ce.Field == repository.FieldEmail {
			return Wrap(ErrUserExists, err)
		}
		return Wrap(ErrIdentityConflict, err)
	}
	return Wrap(ErrInternal, err)
}
