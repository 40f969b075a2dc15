package makerfetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason codes. The set is closed and shared by resolve and download
// outcomes.
const (
	EINVALIDURL   = "invalid_url"
	ENOTFOUND     = "not_found"
	EBLOCKED      = "upstream_blocked"
	ETIMEOUT      = "timeout"
	EMALFORMED    = "malformed_payload"
	ENETWORK      = "network_error"
	EINCOMPATIBLE = "incompatible_profile"
	EMETRICS      = "missing_profile_metrics"
	EUNAVAILABLE  = "download_unavailable"
	EFORMAT       = "unsupported_model_format"
)

// Error represents a failure with a reason code and a human readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("makerfetch error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return ENETWORK.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return ENETWORK
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return a generic message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Unexpected network error."
}

// ReasonForStatus maps a non-2xx upstream HTTP status to a reason code.
func ReasonForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return ENOTFOUND
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return EBLOCKED
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ETIMEOUT
	default:
		return ENETWORK
	}
}

// Failure is the failure side of an outcome.
type Failure struct {
	Reason  string `json:"reasonCode"`
	Message string `json:"message"`
}

// FailureFrom converts err into a Failure using its reason code and message.
func FailureFrom(err error) *Failure {
	return &Failure{
		Reason:  ErrorCode(err),
		Message: ErrorMessage(err),
	}
}
