// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/fetchx/request"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDecider(t *testing.T) {
	t.Run("Retryable status codes", func(t *testing.T) {
		codes := []int{429, 502, 503, 504}
		for i, code := range codes {
			e := request.Execution{
				Response: &http.Response{StatusCode: code},
				Err:      errors.New("rejected"),
			}
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				for j := 1; j <= DefaultTimes; j++ {
					e.Attempt = j
					assert.True(t, DefaultDecider(&e), fmt.Sprintf("Expect true for attempt %d", j))
				}
				e.Attempt = DefaultTimes + 1
				assert.False(t, DefaultDecider(&e), fmt.Sprintf("Expect false for attempt %d", e.Attempt))
			})
		}
	})
	t.Run("Non-retryable status codes", func(t *testing.T) {
		codes := []int{200, 201, 204, 400, 401, 403, 404}
		for i, code := range codes {
			e := request.Execution{
				Response: &http.Response{StatusCode: code},
			}
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				e.Attempt = 1
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 1")
				e.Attempt = 4
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 4")
			})
		}
	})
	t.Run("Transient errors", func(t *testing.T) {
		for i, te := range transientErrs {
			e := request.Execution{
				Err: te,
			}
			t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
				for j := 1; j <= DefaultTimes; j++ {
					e.Attempt = j
					assert.True(t, DefaultDecider(&e), fmt.Sprintf("Expect true for attempt %d", j))
				}
				e.Attempt = DefaultTimes + 1
				assert.False(t, DefaultDecider(&e), fmt.Sprintf("Expect false for attempt %d", e.Attempt))
			})
		}
	})
	t.Run("Non-transient errors", func(t *testing.T) {
		for i, nte := range nonTransientErrs {
			e := request.Execution{
				Err: nte,
			}
			t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", i, nte), func(t *testing.T) {
				e.Attempt = 1
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 1")
				e.Attempt = 4
				assert.False(t, DefaultDecider(&e), "Expect false for attempt 4")
			})
		}
	})
}

func TestTransientErr(t *testing.T) {
	e := request.Execution{}
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
			e.Err = te
			assert.True(t, transientErr(&e))
			e.Err = &url.Error{Err: te}
			assert.True(t, transientErr(&e))
		})
	}
	for j, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", j, nte), func(t *testing.T) {
			e.Err = nte
			assert.False(t, transientErr(&e))
			e.Err = &url.Error{Err: nte}
			assert.False(t, transientErr(&e))
		})
	}
	t.Run("status", func(t *testing.T) {
		e.Err = httpStatusErr(503)
		assert.True(t, TransientErr(&e))
		e.Err = httpStatusErr(404)
		assert.False(t, TransientErr(&e))
	})
}

func TestDeciderAnd(t *testing.T) {
	true_ := DeciderFunc(func(_ *request.Execution) bool { return true })
	false_ := DeciderFunc(func(_ *request.Execution) bool { return false })
	assert.True(t, true_.And(true_)(&request.Execution{}))
	assert.False(t, true_.And(false_)(&request.Execution{}))
	assert.False(t, false_.And(true_)(&request.Execution{}))
	assert.False(t, false_.And(false_)(&request.Execution{}))
}

func TestDeciderOr(t *testing.T) {
	true_ := DeciderFunc(func(_ *request.Execution) bool { return true })
	false_ := DeciderFunc(func(_ *request.Execution) bool { return false })
	assert.True(t, true_.Or(true_)(&request.Execution{}))
	assert.True(t, true_.Or(false_)(&request.Execution{}))
	assert.True(t, false_.Or(true_)(&request.Execution{}))
	assert.False(t, false_.Or(false_)(&request.Execution{}))
}

func TestTimes(t *testing.T) {
	zero := Times(0)
	assert.False(t, zero(&request.Execution{Attempt: 1}))
	one := Times(1)
	assert.True(t, one(&request.Execution{Attempt: 1}))
	assert.False(t, one(&request.Execution{Attempt: 2}))
	four := Times(4)
	assert.True(t, four(&request.Execution{Attempt: 4}))
	assert.False(t, four(&request.Execution{Attempt: 5}))
}

func TestBefore(t *testing.T) {
	e := request.Execution{Start: time.Now()}
	before := Before(time.Minute)
	for i := 1; i <= 20; i++ {
		e.Attempt = i
		assert.True(t, before(&e))
	}
	e.End = e.Start.Add(2 * time.Minute)
	assert.False(t, before(&e))
}

func TestStatusCode(t *testing.T) {
	empty := StatusCode()
	assert.False(t, empty(&request.Execution{}))
	one := StatusCode(602)
	assert.False(t, one(&request.Execution{}))
	r := http.Response{}
	e := request.Execution{Response: &r}
	assert.False(t, empty(&e))
	assert.False(t, one(&e))
	r.StatusCode = 602
	assert.True(t, one(&e))
	two := StatusCode(509, 602)
	assert.True(t, two(&e))
	r.StatusCode = 509
	assert.True(t, two(&e))
	r.StatusCode = 508
	assert.False(t, two(&e))
}

func TestOn(t *testing.T) {
	assert.PanicsWithValue(t, "fetchx/retry: nil predicate", func() { On(nil) })

	var gotAttempt int
	var gotErr error
	var gotResp *http.Response
	d := On(func(attempt int, err error, resp *http.Response) bool {
		gotAttempt, gotErr, gotResp = attempt, err, resp
		return attempt < 3
	})

	err := errors.New("boom")
	resp := &http.Response{StatusCode: 500}
	assert.True(t, d.Decide(&request.Execution{Attempt: 2, Err: err, Response: resp}))
	assert.Equal(t, 2, gotAttempt)
	assert.Same(t, err, gotErr)
	assert.Same(t, resp, gotResp)
	assert.False(t, d.Decide(&request.Execution{Attempt: 3, Err: err}))
	assert.Nil(t, gotResp)

	composed := d.And(StatusCode(500))
	assert.True(t, composed(&request.Execution{Attempt: 1, Err: err, Response: resp}))
	assert.False(t, composed(&request.Execution{Attempt: 1, Err: err}))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
		httpStatusErr(500),
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
		httpStatusErr(418),
	}
)

type httpStatusErr int

func (err httpStatusErr) Error() string {
	return fmt.Sprintf("status %d", int(err))
}

func (err httpStatusErr) HTTPStatus() int {
	return int(err)
}
