// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx provides a resilient HTTP request executor: query
merging, cookie jar sessions, attempt timeouts, status validation,
manual redirect following and retries, composed into one cancellable
call.

Create a Client and describe each call with Options.

	client := &fetchx.Client{}
	e, err := client.Fetch(ctx, "https://example.com/Api/showf", &fetchx.Options{
		Queries:        url.Values{"id": {"4"}},
		Jar:            j,
		Timeout:        timeout.Fixed(10 * time.Second),
		ValidateStatus: fetchx.Status2xx,
		RetryOn:        retry.Times(3).And(retry.TransientErr),
		RetryWait:      retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, time.Now()),
		Follow:         5,
	})

The returned request.Execution carries the buffered body, the final
response, the plan actually sent and the redirect hops. A failed call
returns one of *TimeoutError, *CancelledError, *TransportError,
*StatusError or *RedirectError, and the same value in Execution.Err.

For a set of calls sharing a base URL, headers, queries or a session
jar, bind them into an Instance:

	api, err := fetchx.NewInstance(client, fetchx.InstanceConfig{
		BaseURL: "https://example.com/Api/",
		Options: fetchx.Options{
			Queries: url.Values{"appid": {"4"}},
			Jar:     j,
		},
	})
	...
	e, err := api.Fetch(ctx, "showf", &fetchx.Options{Queries: url.Values{"id": {"12"}}})
	e, err = api.Fetch(ctx, "showf", &fetchx.Options{Jar: fetchx.NoJar}) // anonymous

To hook into the fine-grained details of the execution, install a
handler into the appropriate handler chain. Packages fetchlog and
fetchmetrics provide ready-made handler sets:

	handlers := &fetchx.HandlerGroup{}
	handlers.PushBack(fetchx.BeforeRetry, fetchx.HandlerFunc(
		func(_ fetchx.Event, e *request.Execution) {
			log.Printf("retrying %s after attempt %d: %v", e.URL(), e.Attempt, e.Err)
		}))
	client := &fetchx.Client{Handlers: handlers}

Package fetchx provides basic interfaces for each method of the
executor (Fetcher, Getter, Header, Poster, FormPoster, and IdleCloser);
a combined interface (Executor), implemented by Client and Instance;
and utility functions for working with a Fetcher (Inflate, Get, Head,
Post, and PostForm).
*/
package fetchx
