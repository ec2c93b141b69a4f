// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest

import (
	"encoding/json"
	"net/http"

	"github.com/juju/errors"
)

// Response is the outcome of a single executed route: the HTTP status
// plus the raw body. Interpretation of the pair is left to the caller;
// entity operations install their own classification (see Task).
type Response struct {
	Status int
	Body   []byte
}

// errorBody is the structured payload the server attaches to error
// responses.
type errorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// OK reports whether the response carries a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= http.StatusOK && r.Status < http.StatusMultipleChoices
}

// ErrorCode decodes the structured error body and returns the
// platform error code, or ErrCodeGeneral when the body carries none.
func (r *Response) ErrorCode() ErrorCode {
	var body errorBody
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return ErrCodeGeneral
	}
	return body.Code
}

// AsError converts a non-success response into an *APIError for
// propagation. It must not be called on a response for which OK is true.
func (r *Response) AsError() error {
	var body errorBody
	// A missing or malformed body still produces a usable error;
	// the raw bytes are retained either way.
	_ = json.Unmarshal(r.Body, &body)
	return &APIError{
		Status:  r.Status,
		Code:    body.Code,
		Message: body.Message,
		Body:    r.Body,
	}
}

// Decode unmarshals a success body into out.
func (r *Response) Decode(out interface{}) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return errors.Annotate(err, "decoding response body")
	}
	return nil
}
