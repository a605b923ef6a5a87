// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the building blocks for deciding whether a
// failed attempt is retried (Decider) and how long to wait before the
// retry (Waiter).
//
// Attempts are numbered from one, so a Decider sees e.Attempt == 1
// after the initial attempt fails. Deciders compose:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	opts := &fetchx.Options{RetryOn: decider, RetryWait: waiter}
//
// A plain predicate over (attempt, error, response) is adapted with On.
// NewPolicy bundles a Decider and a Waiter into one value that can fill
// both fields.
package retry
