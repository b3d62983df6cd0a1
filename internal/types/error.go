package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ValidationError      ErrorCode = "VALIDATION_ERROR"
	NotFound             ErrorCode = "NOT_FOUND"
	AlreadyClosed        ErrorCode = "ALREADY_CLOSED"
	Forbidden            ErrorCode = "FORBIDDEN"
	InsufficientBalance  ErrorCode = "INSUFFICIENT_BALANCE"
	BadRequest           ErrorCode = "BAD_REQUEST"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error is the error type returned by ledger and service operations. It carries
// the kind of failure and the HTTP status the api layer responds with.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewValidationFailedError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewNotFoundError(err error) *Error {
	return NewError(http.StatusNotFound, NotFound, err)
}

func NewAlreadyClosedError(err error) *Error {
	return NewError(http.StatusConflict, AlreadyClosed, err)
}

func NewForbiddenError(err error) *Error {
	return NewError(http.StatusForbidden, Forbidden, err)
}

func NewInsufficientBalanceError(err error) *Error {
	return NewError(http.StatusUnprocessableEntity, InsufficientBalance, err)
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}

// ErrorCodeOf returns the code of err if it is (or wraps) an *Error,
// InternalServiceError otherwise.
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode
	}
	return InternalServiceError
}

// AsError converts any error into an *Error, keeping the kind of errors that
// already are one.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalServiceError(err)
}
