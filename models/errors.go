package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTransport       = "TRANSPORT_FAILURE"
	ErrCodeHTTP            = "HTTP_FAILURE"
	ErrCodeParse           = "PARSE_FAILURE"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeForbiddenTarget = "FORBIDDEN_TARGET"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// User-facing messages shown on the error page.
const (
	MsgFetchFailed = "Failed to fetch offer details"
	MsgGeneric     = "Something went wrong"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OfferError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type OfferError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *OfferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *OfferError) Unwrap() error {
	return e.Err
}

// NewOfferError creates a new OfferError.
func NewOfferError(code, message string, err error) *OfferError {
	return &OfferError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *OfferError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// UserMessage returns the human-readable text for err: the OfferError
// message when there is one, else the error's own text, else MsgGeneric.
func UserMessage(err error) string {
	if err == nil {
		return MsgGeneric
	}
	var oe *OfferError
	if errors.As(err, &oe) && oe.Message != "" {
		return oe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgGeneric
}
