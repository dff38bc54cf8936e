package oauthmodel

import (
	"fmt"
	"net/http"
)

// OAuth error codes (RFC 6749 section 5.2 and RFC 6750 section 3.1)
const (
	CodeInvalidRequest          = "invalid_request"
	CodeUnsupportedResponseType = "unsupported_response_type"
	CodeInvalidGrant            = "invalid_grant"
	CodeUnsupportedGrantType    = "unsupported_grant_type"
	CodeInvalidClient           = "invalid_client"
	CodeAccessDenied            = "access_denied"
	CodeUnauthorized            = "unauthorized"
	CodeInvalidToken            = "invalid_token"
	CodeServerError             = "server_error"
	CodeTooManyRequests         = "too_many_requests"
)

// Error is an OAuth protocol error: a machine readable code, an optional
// description and the HTTP status it is reported with.
type Error struct {
	Code        string
	Description string
	Status      int
	Err         error
}

func (e *Error) Error() string {
	msg := e.Code
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error; err may be nil.
func NewError(status int, code, description string, err error) *Error {
	return &Error{Code: code, Description: description, Status: status, Err: err}
}

func InvalidRequest(description string) *Error {
	return NewError(http.StatusBadRequest, CodeInvalidRequest, description, nil)
}

func UnsupportedResponseType() *Error {
	return NewError(http.StatusBadRequest, CodeUnsupportedResponseType, "", nil)
}

func InvalidGrant(err error) *Error {
	return NewError(http.StatusBadRequest, CodeInvalidGrant, "", err)
}

func UnsupportedGrantType() *Error {
	return NewError(http.StatusBadRequest, CodeUnsupportedGrantType, "", nil)
}

func InvalidClient(err error) *Error {
	return NewError(http.StatusUnauthorized, CodeInvalidClient, "", err)
}
