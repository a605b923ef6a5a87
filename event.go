// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality such as logging or metrics.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only fields set are Input and, for a redirect
	// hop, Redirects.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual HTTP request attempt.
	//
	// When Client fires BeforeAttempt, the execution's Plan holds the
	// attempt plan (queries appended, jar cookies attached) and its
	// Request field is set to the HTTP request that WILL BE sent after
	// all BeforeAttempt handlers have finished.
	//
	// BeforeAttempt handlers may modify the request, but should clone
	// its URL and Header before changing them, as these initially
	// reference the same-named fields of the attempt plan.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after an attempt
	// has resulted in an HTTP response but before the response body is
	// read and buffered. By then the response cookies are in the jar.
	//
	// BeforeReadBody never fires if the attempt ended in a transport
	// error, but always fires if a response is received, regardless of
	// its status code.
	BeforeReadBody
	// AfterAttemptTimeout identifies the event that occurs after an
	// attempt failed because the attempt timer fired.
	//
	// When Client fires AfterAttemptTimeout, the execution's Err field
	// is a *TimeoutError, and its AttemptTimeouts counter has been
	// incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after an attempt
	// concluded, whether it succeeded or not.
	//
	// AfterAttempt runs before redirect handling and before status
	// validation, so Err is only set for transport, body-read, timeout
	// and cancellation failures.
	AfterAttempt
	// BeforeRedirect identifies the event that occurs when the
	// execution is about to end because its response is a redirect to
	// follow. The hop is dispatched as a new execution right after
	// the AfterExecutionEnd event of this one.
	//
	// When Client fires BeforeRedirect, the execution's Response is
	// the redirect response.
	BeforeRedirect
	// BeforeRetry identifies the event that occurs after the retry
	// decider approved a retry, after the BeforeRetry option hook ran,
	// and before the retry wait.
	//
	// When Client fires BeforeRetry, Err holds the error of the
	// attempt being retried.
	BeforeRetry
	// AfterPlanTimeout identifies the event that occurs after the
	// deadline on the plan's context is exceeded. A plan timeout can be
	// detected after an attempt or during the retry wait.
	//
	// AfterPlanTimeout always occurs after AfterAttempt.
	AfterPlanTimeout
	// AfterExecutionEnd identifies the event that occurs after the
	// execution ends.
	//
	// When Client fires AfterExecutionEnd, the execution is in
	// the same state it was in after the final attempt EXCEPT that Err
	// may hold a validation, redirect or cancellation error and the end
	// time is set.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"BeforeRedirect",
	"BeforeRetry",
	"AfterPlanTimeout",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in an
// execution by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttemptTimeout,
		AfterAttempt,
		BeforeRedirect,
		BeforeRetry,
		AfterPlanTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
