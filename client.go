// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gogama/fetchx/request"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
//
// The HTTPDoer used by a Client must not follow redirects itself,
// otherwise cookies set by intermediate responses never reach the jar
// and the Follow budget has no effect.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// defaultDoer is an http.Client that hands every 3xx back unfollowed.
var defaultDoer HTTPDoer = &http.Client{
	CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// A Client is the request executor. Its zero value is a valid
// configuration: no retries, no attempt timer, no status validation, no
// redirect following, no jar.
//
// A Client is safe for concurrent use by multiple goroutines. Its
// HTTPDoer typically caches TCP connections, so Client instances should
// be reused instead of created as needed.
//
// For every attempt of a call the Client:
//
// • derives the attempt plan from the caller's plan, appending the
// configured queries to the URL and the jar's cookies to the Cookie
// header;
//
// • races the attempt against the attempt timer, if a timeout policy
// is set;
//
// • stores the response's cookies into the jar and buffers the whole
// response body;
//
// • follows a redirect, if the Follow budget allows;
//
// • validates the status, if a validator is set; and
//
// • on any error, asks the retry decider whether to try again.
type Client struct {
	// HTTPDoer sends HTTP requests and receives responses.
	//
	// If HTTPDoer is nil, an http.Client which never follows redirects
	// is used.
	HTTPDoer HTTPDoer
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Defaults is the least specific Options layer, merged under the
	// options of every call. It may be nil.
	Defaults *Options
}

// Fetch performs one logical request to rawURL, configured by o layered
// over c.Defaults. The context controls the whole execution, including
// retry waits and redirect hops.
//
// The returned Execution is nil only if the options could not be
// turned into a request plan (invalid method, URL or body). Otherwise
// it describes the final attempt, or the final hop when redirects were
// followed, and its Err field holds the returned error.
//
// The error, if any, is a *TimeoutError, *CancelledError,
// *TransportError, *StatusError or *RedirectError.
func (c *Client) Fetch(ctx context.Context, rawURL string, o *Options) (*request.Execution, error) {
	m := c.Defaults.Merge(o)
	p, ctl, err := m.split(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return c.execute(p, ctl, nil)
}

// Do executes a prepared request plan. The method, URL, headers and
// body come from p; the Method, Header and Body fields of o (and of
// c.Defaults) are ignored, while every other field applies as in Fetch.
//
// The plan context controls the whole execution. Do never modifies p.
func (c *Client) Do(p *request.Plan, o *Options) (*request.Execution, error) {
	m := c.Defaults.Merge(o)
	return c.execute(p, m.control(), nil)
}

func (c *Client) execute(p *request.Plan, ctl control, redirects []*url.URL) (*request.Execution, error) {
	e := &request.Execution{
		Input:     p,
		Redirects: redirects,
	}

	doer := c.doer()
	handlers := c.handlers()
	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()
	ctx := p.Context()

RetryLoop:
	for {
		e.Attempt++
		sendAndReceive(e, ctl, doer, handlers)
		if _, ok := e.Err.(*TimeoutError); ok {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, e)
		}
		handlers.run(AfterAttempt, e)

		if e.Err == nil && ctl.follow > 0 && isRedirect(e.StatusCode()) {
			if next, err := redirectPlan(e); err != nil {
				e.Err = err
			} else {
				return c.redirect(e, next, ctl, handlers)
			}
			break
		}

		if e.Err == nil && ctl.validate != nil && !ctl.validate(e.StatusCode()) {
			e.Err = &StatusError{
				StatusCode: e.StatusCode(),
				Status:     e.Response.Status,
			}
		}

		if e.Err == nil {
			break
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			if ctxErr == context.DeadlineExceeded {
				handlers.run(AfterPlanTimeout, e)
			}
			break
		}

		if ctl.retryOn == nil || !ctl.retryOn.Decide(e) {
			break
		}

		if ctl.beforeRetry != nil {
			ctl.beforeRetry(e)
		}
		handlers.run(BeforeRetry, e)

		var wait time.Duration
		if ctl.retryWait != nil {
			wait = ctl.retryWait.Wait(e)
		}
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				e.Err = &CancelledError{URL: e.URL().String(), Err: ctx.Err()}
				if ctx.Err() == context.DeadlineExceeded {
					handlers.run(AfterPlanTimeout, e)
				}
				break RetryLoop
			}
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	return e, e.Err
}

// redirect ends e and dispatches the hop. The hop is an execution of
// its own, with a fresh retry loop and one less redirect to follow.
func (c *Client) redirect(e *request.Execution, next *request.Plan, ctl control, handlers *HandlerGroup) (*request.Execution, error) {
	handlers.run(BeforeRedirect, e)
	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)

	hops := make([]*url.URL, len(e.Redirects), len(e.Redirects)+1)
	copy(hops, e.Redirects)
	hops = append(hops, e.URL())

	ctl.follow--
	return c.execute(next, ctl, hops)
}

func redirectPlan(e *request.Execution) (*request.Plan, error) {
	loc := e.Header().Get("Location")
	if loc == "" {
		return nil, &RedirectError{
			StatusCode: e.StatusCode(),
			URL:        e.URL().String(),
		}
	}
	target, err := e.URL().Parse(loc)
	if err != nil {
		return nil, &RedirectError{
			StatusCode: e.StatusCode(),
			URL:        e.URL().String(),
			Location:   loc,
			Err:        err,
		}
	}
	return e.Input.Redirect(e.StatusCode(), target), nil
}

func isRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func sendAndReceive(e *request.Execution, ctl control, doer HTTPDoer, handlers *HandlerGroup) {
	// The policy sees the previous attempt's error before it is reset.
	var d time.Duration
	if ctl.timeout != nil {
		d = ctl.timeout.Timeout(e)
	}
	e.Request, e.Response, e.Err, e.Body = nil, nil, nil, nil

	p := e.Input.Clone()
	p.AppendQuery(ctl.queries)
	if ctl.jar != nil {
		for _, cookie := range ctl.jar.Cookies(p.URL) {
			p.AddCookie(cookie)
		}
	}
	e.Plan = p

	ctx, cancel := context.WithCancel(p.Context())
	defer cancel()
	var timedOut int32
	if d > 0 {
		timer := time.AfterFunc(d, func() {
			atomic.StoreInt32(&timedOut, 1)
			cancel()
		})
		defer timer.Stop()
	}

	e.Request = p.ToRequest(ctx)
	handlers.run(BeforeAttempt, e)
	resp, err := doer.Do(e.Request)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		e.Err = attemptErr(p, err, d, atomic.LoadInt32(&timedOut) == 1)
		return
	}

	e.Response = resp
	if ctl.jar != nil {
		if cookies := resp.Cookies(); len(cookies) > 0 {
			ctl.jar.SetCookies(p.URL, cookies)
		}
	}

	if err = readBody(e, handlers); err != nil {
		e.Err = attemptErr(p, err, d, atomic.LoadInt32(&timedOut) == 1)
	}
}

func readBody(e *request.Execution, handlers *HandlerGroup) error {
	defer func() {
		_ = e.Response.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	var err error
	e.Body, err = ioutil.ReadAll(e.Response.Body)
	return err
}

// attemptErr classifies an attempt failure by what happened rather
// than by the error text: the timer flag first, then the plan context.
func attemptErr(p *request.Plan, err error, d time.Duration, timedOut bool) error {
	ue := urlErrorWrap(p, err)
	switch {
	case timedOut:
		return &TimeoutError{URL: ue.URL, After: d, Err: ue}
	case p.Context().Err() != nil:
		return &CancelledError{URL: ue.URL, Err: p.Context().Err()}
	default:
		return &TransportError{Err: ue}
	}
}

// Get issues a GET to the specified URL, using the same policies
// followed by Fetch.
func (c *Client) Get(url string) (*request.Execution, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Fetch.
func (c *Client) Head(url string) (*request.Execution, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Fetch.
//
// The body parameter may be any of the types accepted by
// request.BodyBytes.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
func (c *Client) PostForm(url string, data url.Values) (*request.Execution, error) {
	return PostForm(c, url, data)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return defaultDoer
	}

	return c.HTTPDoer
}

func (c *Client) handlers() *HandlerGroup {
	if c.Handlers == nil {
		return &emptyHandlers
	}

	return c.Handlers
}
