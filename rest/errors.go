// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrorCode is a platform-defined code carried in the structured body of
// an error response. It identifies the failure more precisely than the
// HTTP status; in particular it distinguishes "the resource named in the
// path does not exist" variants of 404 from routing failures.
type ErrorCode int

const (
	ErrCodeGeneral            ErrorCode = 0
	ErrCodeUnknownGuild       ErrorCode = 10004
	ErrCodeUnknownRole        ErrorCode = 10011
	ErrCodeUnknownUser        ErrorCode = 10013
	ErrCodeUnknownEmote       ErrorCode = 10014
	ErrCodeUnauthorized       ErrorCode = 40001
	ErrCodeMissingAccess      ErrorCode = 50001
	ErrCodeMissingPermissions ErrorCode = 50013
)

// APIError is a non-success response surfaced to the caller unchanged.
// Callers wanting the raw response body can read Body; Status and Code
// carry the classified parts.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
	Body    []byte
}

// Error is part of the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s (code %d)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// AsAPIError returns the APIError in err's chain, if there is one.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}
