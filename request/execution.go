// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/fetchx/transient"
)

// An Execution represents the state of a single logical request: the
// provenance of the request (Input and Plan), the state of the current
// attempt, and, once it has ended, the final response envelope.
//
// Retry deciders, waiters, timeout policies and event handlers all
// receive the Execution. They may store data in it with SetValue and
// read it back with Value, but should otherwise treat the exported
// fields as read-only. Once the Execution is returned to the caller it
// no longer changes.
type Execution struct {
	// Input is the plan as the caller handed it over: the URL before
	// query parameters were appended and the headers before jar cookies
	// were attached. It is never nil and never modified.
	Input *Plan

	// Plan is the plan actually sent in the current (or last) attempt,
	// derived afresh from Input for every attempt. It is nil before the
	// first attempt starts.
	Plan *Plan

	// Start is the start time of the execution.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Attempt is the one-based number of the current attempt. It is 1
	// on the initial attempt, 2 on the first retry, and so on. It is 0
	// before the execution starts.
	Attempt int

	// AttemptTimeouts is the count of attempts which ended because the
	// attempt timer fired.
	AttemptTimeouts int

	// Request is the HTTP request of the current or last attempt.
	Request *http.Request

	// Response is the HTTP response received in the most recent
	// attempt. It is nil if the most recent attempt ended in a
	// transport error or a timeout before headers arrived.
	//
	// Response stays set when the attempt failed status validation, so
	// a retry decider can look at it.
	Response *http.Response

	// Err is the error of the most recent attempt, or nil.
	//
	// Once the execution has ended, Err holds the same value the
	// executing method returned.
	Err error

	// Body is the complete response body read from the response after
	// the most recent attempt. The response's own Body has already been
	// drained and closed.
	Body []byte

	// Redirects lists, oldest first, the URLs which answered with a
	// redirect before this execution's Input was dispatched. It is
	// empty unless the execution is a redirect hop.
	Redirects []*url.URL

	// data contains arbitrary user data set via SetValue.
	data context.Context
}

// StatusCode returns the status code of the HTTP response from the
// most recent attempt. If there is no HTTP response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent
// attempt. If there is no HTTP response, the nil header is returned.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// URL returns the URL requested by the most recent attempt, including
// the appended query parameters. Before the first attempt it returns
// the Input URL.
func (e *Execution) URL() *url.URL {
	if e.Plan != nil {
		return e.Plan.URL
	}
	if e.Input != nil {
		return e.Input.URL
	}
	return nil
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Now().Sub(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout, either an attempt timeout or a deadline
// on the plan context.
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers and policies to store arbitrary data
// in the execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
