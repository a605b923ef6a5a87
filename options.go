// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"
)

// Options configures one logical request. Every field is optional. A
// zero field means "inherit" when Options values are layered with
// Merge, and "feature off" at the bottom of the stack.
//
// The executor never modifies an Options value it is handed.
type Options struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// Header holds request headers. When merging, a header name set in
	// the more specific layer replaces all values of that name.
	Header http.Header

	// Body is the request body: nil, string, []byte, url.Values,
	// io.Reader or io.ReadCloser. A reader is consumed once, when the
	// call starts.
	Body interface{}

	// Queries are appended to the query string of the target URL on
	// every attempt, after any query the URL already carries. Redirect
	// hops get them too, after the Location's own query. When
	// merging, keys from both layers are kept and a key set in the
	// more specific layer replaces that key's values.
	Queries url.Values

	// Jar supplies cookies for every attempt and receives the cookies
	// set by every response. Set it to NoJar to suppress an inherited
	// jar.
	Jar http.CookieJar

	// Timeout sets the attempt timer. Nil means no attempt timer.
	Timeout timeout.Policy

	// ValidateStatus rejects responses for which it returns false with
	// a *StatusError. Nil accepts every status.
	ValidateStatus StatusValidator

	// RetryOn decides whether a failed attempt is retried. Nil means
	// never retry.
	RetryOn retry.Decider

	// RetryWait is the delay before each retry. Nil means retry
	// immediately.
	RetryWait retry.Waiter

	// BeforeRetry runs after RetryOn approved a retry and before the
	// wait begins.
	BeforeRetry func(e *request.Execution)

	// Follow is the number of redirects to follow. Zero inherits;
	// NoFollow explicitly disables redirect following.
	Follow int
}

// NoFollow is the Follow value which disables redirect following even
// when a less specific layer enables it.
const NoFollow = -1

// NoJar is the Jar value which suppresses an inherited jar for one
// call, for example to issue an anonymous request from an Instance
// bound to a session jar. It stores nothing and returns no cookies.
var NoJar http.CookieJar = noJar{}

type noJar struct{}

func (noJar) SetCookies(_ *url.URL, _ []*http.Cookie) {}

func (noJar) Cookies(_ *url.URL) []*http.Cookie {
	return nil
}

// A StatusValidator reports whether an HTTP status code is acceptable.
type StatusValidator func(statusCode int) bool

// StatusRange returns a StatusValidator accepting min <= code <= max.
func StatusRange(min, max int) StatusValidator {
	return func(code int) bool {
		return min <= code && code <= max
	}
}

// StatusIn returns a StatusValidator accepting exactly the listed codes.
func StatusIn(codes ...int) StatusValidator {
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return func(code int) bool {
		return set[code]
	}
}

// Status2xx accepts the 200-299 range.
var Status2xx = StatusRange(200, 299)

// Clone returns a deep copy of o. Header and Queries are copied, the
// remaining fields are shared. Header names are canonicalized in the
// copy. Cloning a nil Options yields an empty one.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	o2 := new(Options)
	*o2 = *o
	o2.Header = canonicalHeader(o.Header)
	o2.Queries = cloneValues(o.Queries)
	return o2
}

// Merge returns a new Options layering over on top of o. Neither o nor
// over is modified, and the result shares no header or query storage
// with either of them.
//
// Scalar and function fields of over win when set. Headers are merged
// per name, over replacing o. Queries are merged per key, over
// replacing o. Either receiver or argument may be nil.
func (o *Options) Merge(over *Options) *Options {
	m := o.Clone()
	if over == nil {
		return m
	}

	if over.Method != "" {
		m.Method = over.Method
	}
	if len(over.Header) > 0 {
		if m.Header == nil {
			m.Header = make(http.Header, len(over.Header))
		}
		for k, vs := range canonicalHeader(over.Header) {
			m.Header[k] = vs
		}
	}
	if over.Body != nil {
		m.Body = over.Body
	}
	if len(over.Queries) > 0 {
		if m.Queries == nil {
			m.Queries = make(url.Values, len(over.Queries))
		}
		for k, vs := range over.Queries {
			m.Queries[k] = append([]string(nil), vs...)
		}
	}
	if over.Jar != nil {
		m.Jar = over.Jar
	}
	if over.Timeout != nil {
		m.Timeout = over.Timeout
	}
	if over.ValidateStatus != nil {
		m.ValidateStatus = over.ValidateStatus
	}
	if over.RetryOn != nil {
		m.RetryOn = over.RetryOn
	}
	if over.RetryWait != nil {
		m.RetryWait = over.RetryWait
	}
	if over.BeforeRetry != nil {
		m.BeforeRetry = over.BeforeRetry
	}
	if over.Follow != 0 {
		m.Follow = over.Follow
	}

	return m
}

// control holds the executor-only half of an Options value. It never
// reaches the HTTPDoer.
type control struct {
	jar         http.CookieJar
	queries     url.Values
	timeout     timeout.Policy
	validate    StatusValidator
	retryOn     retry.Decider
	retryWait   retry.Waiter
	beforeRetry func(*request.Execution)
	follow      int
}

// split parses o into the transport-safe plan and the executor
// controls for a call to rawURL.
func (o *Options) split(ctx context.Context, rawURL string) (*request.Plan, control, error) {
	p, err := request.NewPlanWithContext(ctx, o.Method, rawURL, o.Body)
	if err != nil {
		return nil, control{}, err
	}
	for k, vs := range canonicalHeader(o.Header) {
		p.Header[k] = vs
	}
	if host := p.Header.Get("Host"); host != "" {
		p.Host = host
		p.Header.Del("Host")
	}
	return p, o.control(), nil
}

func (o *Options) control() control {
	ctl := control{
		queries:     cloneValues(o.Queries),
		timeout:     o.Timeout,
		validate:    o.ValidateStatus,
		retryOn:     o.RetryOn,
		retryWait:   o.RetryWait,
		beforeRetry: o.BeforeRetry,
	}
	if _, suppressed := o.Jar.(noJar); !suppressed {
		ctl.jar = o.Jar
	}
	if o.Follow > 0 {
		ctl.follow = o.Follow
	}
	return ctl
}

// canonicalHeader copies h under canonical names. Spellings of one name
// within h are combined in sorted key order, so the result does not
// depend on map iteration.
func canonicalHeader(h http.Header) http.Header {
	if h == nil {
		return nil
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h2 := make(http.Header, len(h))
	for _, k := range keys {
		ck := http.CanonicalHeaderKey(k)
		h2[ck] = append(h2[ck], h[k]...)
	}
	return h2
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return nil
	}
	v2 := make(url.Values, len(v))
	for k, vs := range v {
		v2[k] = append([]string(nil), vs...)
	}
	return v2
}
