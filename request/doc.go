// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (the transport-safe part
of a logical HTTP request) and Execution (the state and result of
executing one).

A Plan holds only what goes on the wire: method, URL, headers, a
pre-buffered body. Everything that steers the executor (query merging,
the cookie jar, timeouts, status validation, retries, redirects) lives
in fetchx.Options and never leaks into the Plan. The executor splits
the caller's configuration into these two halves once per call.

	p, err := request.NewPlanWithContext(ctx, "GET", "https://example.com/Api/showf", nil)
	...
	e, err := client.Do(p, &fetchx.Options{Queries: url.Values{"id": {"4"}}})
	...

The plan context controls the whole execution. Cancelling it stops the
current attempt, any retry wait, and any pending redirect hop.

An Execution is both the result of a call and the value handed to
retry deciders, waiters, timeout policies and event handlers while the
call is in progress. It records the Input plan exactly as received, the
Plan actually sent on the latest attempt (queries appended, cookies
attached), the attempt counter, the latest response or error, the
buffered response body, and the redirect hops that led to it.
*/
package request
