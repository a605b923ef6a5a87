// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

// Policy is a Decider and a Waiter in one value. Assign the same Policy
// to both Options.RetryOn and Options.RetryWait.
//
// Implementations must be safe for concurrent use.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy pairs DefaultDecider with DefaultWaiter.
var DefaultPolicy Policy = pair{DefaultDecider, DefaultWaiter}

// Never declines every retry. Use it on a single call to switch off a
// retry policy inherited from instance or client defaults.
var Never Policy = pair{Times(0), NewFixedWaiter(0)}

// NewPolicy pairs d and w. Both are required.
func NewPolicy(d Decider, w Waiter) Policy {
	switch {
	case d == nil:
		panic("fetchx/retry: nil decider")
	case w == nil:
		panic("fetchx/retry: nil waiter")
	}
	return pair{Decider: d, Waiter: w}
}

type pair struct {
	Decider
	Waiter
}

var _ Policy = pair{}
