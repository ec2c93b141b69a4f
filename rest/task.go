// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package rest

import (
	"context"

	"github.com/juju/errors"
)

// Classifier maps an executed response onto an operation outcome.
// It returns the operation result on success, or an error carrying the
// response for the caller to inspect.
type Classifier func(*Response) (bool, error)

// OKClassifier is the default classification: any 2xx response is a
// true result, anything else is surfaced unchanged as an *APIError.
func OKClassifier(resp *Response) (bool, error) {
	if resp.OK() {
		return true, nil
	}
	return false, resp.AsError()
}

// Task is a prepared remote operation. Entity methods build one once
// their local guards pass; no network activity happens until the task
// is executed or submitted. A task may be submitted more than once,
// each submission being an independent round trip.
type Task struct {
	caller   Caller
	route    CompiledRoute
	body     interface{}
	classify Classifier
}

// NewTask returns a task that will execute route through caller and
// interpret the response with classify. A nil classify means
// OKClassifier.
func NewTask(caller Caller, route CompiledRoute, body interface{}, classify Classifier) *Task {
	if classify == nil {
		classify = OKClassifier
	}
	return &Task{
		caller:   caller,
		route:    route,
		body:     body,
		classify: classify,
	}
}

// Execute performs the round trip synchronously and returns the
// classified outcome.
func (t *Task) Execute(ctx context.Context) (bool, error) {
	resp, err := t.caller.Do(ctx, t.route, t.body)
	if err != nil {
		return false, errors.Trace(err)
	}
	return t.classify(resp)
}

// Submit performs the round trip on its own goroutine and reports the
// outcome through exactly one of the two callbacks, invoked exactly
// once. Either callback may be nil, in which case that outcome is
// discarded. The callback runs on the task's goroutine.
func (t *Task) Submit(ctx context.Context, onSuccess func(bool), onFailure func(error)) {
	go func() {
		result, err := t.Execute(ctx)
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(result)
		}
	}()
}
