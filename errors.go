// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/fetchx/request"
)

// A TimeoutError is the attempt error when the attempt timer fired
// before the attempt (including the body read) completed.
type TimeoutError struct {
	// URL is the URL of the attempt that timed out.
	URL string
	// After is the attempt timeout that elapsed.
	After time.Duration
	// Err is the transport or body-read error observed once the
	// attempt was aborted.
	Err error
}

func (err *TimeoutError) Error() string {
	return fmt.Sprintf("fetchx: attempt to %s timed out after %s", err.URL, err.After)
}

// Timeout always returns true.
func (err *TimeoutError) Timeout() bool {
	return true
}

func (err *TimeoutError) Unwrap() error {
	return err.Err
}

// A CancelledError is the error when the plan context was cancelled or
// its deadline passed. Err is the context error, so errors.Is works
// with context.Canceled and context.DeadlineExceeded.
type CancelledError struct {
	URL string
	Err error
}

func (err *CancelledError) Error() string {
	return fmt.Sprintf("fetchx: request to %s cancelled: %v", err.URL, err.Err)
}

func (err *CancelledError) Unwrap() error {
	return err.Err
}

// A TransportError is any other failure of the HTTPDoer or of reading
// the response body. Err is always a *url.Error.
type TransportError struct {
	Err *url.Error
}

func (err *TransportError) Error() string {
	return err.Err.Error()
}

func (err *TransportError) Unwrap() error {
	return err.Err
}

// A StatusError reports a response rejected by the status validator.
type StatusError struct {
	// StatusCode is the numeric status, e.g. 404.
	StatusCode int
	// Status is the status line text, e.g. "404 Not Found".
	Status string
}

func (err *StatusError) Error() string {
	status := err.Status
	if status == "" {
		status = fmt.Sprintf("%d", err.StatusCode)
	}
	return "fetchx: unexpected status " + status
}

// HTTPStatus returns StatusCode. It lets transient.Categorize classify
// 429 and 5xx rejections as transient.
func (err *StatusError) HTTPStatus() int {
	return err.StatusCode
}

// A RedirectError reports a redirect response without a usable
// Location header. It is never offered to the retry decider.
type RedirectError struct {
	StatusCode int
	// URL is the URL which answered with the redirect.
	URL string
	// Location is the raw Location header value, possibly empty.
	Location string
	// Err is the parse error, if Location was present but invalid.
	Err error
}

func (err *RedirectError) Error() string {
	if err.Location == "" {
		return fmt.Sprintf("fetchx: %d redirect from %s has no Location header", err.StatusCode, err.URL)
	}
	return fmt.Sprintf("fetchx: %d redirect from %s has invalid Location %q: %v", err.StatusCode, err.URL, err.Location, err.Err)
}

func (err *RedirectError) Unwrap() error {
	return err.Err
}

func urlErrorWrap(p *request.Plan, err error) *url.Error {
	if ue, ok := err.(*url.Error); ok {
		return ue
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
