// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

// Package rest provides the request/response transport the cached
// entities act through: compiled routes, a rate-limited HTTP caller,
// response classification helpers and deferred tasks.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/ratelimit"
	"github.com/juju/retry"
)

var logger = loggo.GetLogger("jda.rest")

const (
	// errRateLimited marks a 429 response inside the retry loop.
	errRateLimited = errors.ConstError("rate limited by server")

	retryDelay    = time.Second
	maxRetryDelay = 30 * time.Second
	retryAttempts = 5
)

// Caller executes a compiled route against the remote API. body, when
// non-nil, is serialised as the JSON request payload. A Caller returns
// an error only for transport-level failures; an error response from
// the server still yields a *Response, classification of which belongs
// to the caller.
type Caller interface {
	Do(ctx context.Context, route CompiledRoute, body interface{}) (*Response, error)
}

// ClientConfig holds the dependencies of a Client.
type ClientConfig struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Token authenticates every request.
	Token string

	// HTTPClient is the underlying transport. Defaults to
	// http.DefaultClient when nil.
	HTTPClient *http.Client

	// Clock paces rate limiting and retry backoff.
	Clock clock.Clock
}

// Validate returns an error if the config cannot be used.
func (c ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.NotValidf("empty BaseURL")
	}
	if c.Token == "" {
		return errors.NotValidf("empty Token")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

// Client is the concrete Caller used against the live API. Requests are
// paced by a global token bucket and retried with backoff while the
// server reports too many requests.
type Client struct {
	config ClientConfig
	http   *http.Client
	bucket *ratelimit.Bucket
}

// NewClient returns a Client using the supplied config.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		config: config,
		http:   httpClient,
		// The platform's global limit is 50 requests per second.
		bucket: ratelimit.NewBucketWithRate(50, 50),
	}, nil
}

// Do is part of the Caller interface.
func (c *Client) Do(ctx context.Context, route CompiledRoute, body interface{}) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, errors.Annotatef(err, "encoding body for %s", route)
		}
	}

	// A short id correlates the request across log lines.
	reqID := uuid.New().String()[:8]

	var resp *Response
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			r, err := c.do(ctx, route, payload)
			if err != nil {
				return errors.Trace(err)
			}
			if r.Status == http.StatusTooManyRequests {
				logger.Debugf("[%s] %s rate limited", reqID, route)
				return errRateLimited
			}
			resp = r
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errRateLimited)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Tracef("[%s] attempt %d: %v", reqID, attempt, err)
		},
		Attempts:    retryAttempts,
		Delay:       retryDelay,
		MaxDelay:    maxRetryDelay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       c.config.Clock,
		Stop:        ctx.Done(),
	})
	if err != nil {
		return nil, errors.Annotatef(err, "executing %s", route)
	}
	logger.Tracef("[%s] %s -> %d", reqID, route, resp.Status)
	return resp, nil
}

func (c *Client) do(ctx context.Context, route CompiledRoute, payload []byte) (*Response, error) {
	// Wait our turn on the global bucket, but give up if the caller
	// does first.
	wait := c.bucket.Take(1)
	if wait > 0 {
		select {
		case <-c.config.Clock.After(wait):
		case <-ctx.Done():
			return nil, errors.Trace(ctx.Err())
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, route.Method, joinURL(c.config.BaseURL, route.Path), body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	req.Header.Set("Authorization", "Bot "+c.config.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Annotatef(err, "reading response for %s", route)
	}
	return &Response{Status: httpResp.StatusCode, Body: respBody}, nil
}
