package model

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by stores on a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotAuthenticated is returned when an operation requires a signed-in
	// session, including opening any subscription hub.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrOperationInFlight is returned when an auth operation is attempted
	// while another one is still resolving.
	ErrOperationInFlight = errors.New("operation already in flight")
)

// ValidationError describes input rejected locally, before any backend call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthErrorKind enumerates authentication failure classes.
type AuthErrorKind string

const (
	AuthInvalidCredentials    AuthErrorKind = "invalid_credentials"
	AuthEmailNotVerified      AuthErrorKind = "email_not_verified"
	AuthEmailTaken            AuthErrorKind = "email_taken"
	AuthUsernameTaken         AuthErrorKind = "username_taken"
	AuthProfileCreationFailed AuthErrorKind = "profile_creation_failed"
	AuthProfileUpdateFailed   AuthErrorKind = "profile_update_failed"
	AuthNetworkError          AuthErrorKind = "network_error"
	AuthUnknown               AuthErrorKind = "unknown"
)

// AuthError is a typed authentication failure.
type AuthError struct {
	Kind    AuthErrorKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError builds an AuthError of the given kind.
func NewAuthError(kind AuthErrorKind, message string, err error) *AuthError {
	return &AuthError{Kind: kind, Message: message, Err: err}
}

// AuthKindOf extracts the AuthErrorKind from err, or AuthUnknown.
func AuthKindOf(err error) AuthErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return AuthUnknown
}

// DataErrorKind enumerates store failure classes.
type DataErrorKind string

const (
	DataNotFound         DataErrorKind = "not_found"
	DataPermissionDenied DataErrorKind = "permission_denied"
	DataNetworkError     DataErrorKind = "network_error"
	DataUnknown          DataErrorKind = "unknown"
)

// DataError is a typed store failure surfaced to consumers.
type DataError struct {
	Kind DataErrorKind
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data: %s: %v", e.Kind, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// WrapDataError classifies a raw store error into a DataError.
// Context cancellation and deadline errors are treated as network failures
// so callers can retry; sentinel mismatches keep their kind.
func WrapDataError(err error) *DataError {
	switch {
	case errors.Is(err, ErrNotFound):
		return &DataError{Kind: DataNotFound, Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &DataError{Kind: DataNetworkError, Err: err}
	default:
		return &DataError{Kind: DataUnknown, Err: err}
	}
}

// FileErrorKind enumerates file storage failure classes.
type FileErrorKind string

const (
	FileTooLarge        FileErrorKind = "too_large"
	FileUnsupportedType FileErrorKind = "unsupported_type"
	FileNetworkError    FileErrorKind = "network_error"
	FileUnknown         FileErrorKind = "unknown"
)

// FileError is a typed file storage failure.
type FileError struct {
	Kind FileErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file: %s: %v", e.Kind, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// NewFileError builds a FileError of the given kind.
func NewFileError(kind FileErrorKind, err error) *FileError {
	return &FileError{Kind: kind, Err: err}
}
