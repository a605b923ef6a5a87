// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/fetchx/request"
)

// A Policy sets the attempt timer for the initial attempt and for each
// retry. The timer covers sending the request, receiving the headers and
// buffering the response body. When it fires, the in-flight attempt is
// aborted and fails with a fetchx.TimeoutError.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next attempt.
	//
	// Parameter e contains the current state of the execution. On a
	// retry, e.Err still holds the error of the attempt that failed,
	// which lets a policy react to a preceding timeout. A return value
	// of zero or less means the attempt has no timer.
	Timeout(e *request.Execution) time.Duration
}

// DefaultPolicy is a convenient fixed timeout of 5 seconds on each
// attempt. Nothing applies it implicitly: an execution without a
// timeout policy has no attempt timer.
var DefaultPolicy Policy = Fixed(5 * time.Second)

// Infinite is a built-in timeout policy which never times out. Assign
// it to shadow an inherited timeout for a single call.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that sets the same attempt timer,
// d, on every attempt.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that lengthens the attempt timer
// after an attempt times out.
//
// The usual timeout applies to the first attempt and to any retry that
// follows an attempt which did not time out. A retry that follows a
// timeout uses after[k-1], where k counts the attempt timeouts seen so
// far in the execution; once k runs past the end of after, the last
// element is reused. For example:
//
// 	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
//
// retries quickly after a one-off slow response, but backs off to 10
// seconds per attempt if the server stays slow.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}

	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
