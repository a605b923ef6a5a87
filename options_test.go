// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gogama/fetchx/jar"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Clone(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		o := (*Options)(nil).Clone()
		require.NotNil(t, o)
		assert.Equal(t, &Options{}, o)
	})
	t.Run("deep", func(t *testing.T) {
		o := &Options{
			Method:  "PUT",
			Header:  http.Header{"X-Foo": {"bar"}},
			Queries: url.Values{"a": {"1"}},
			Follow:  3,
		}
		o2 := o.Clone()
		o2.Header.Add("X-Foo", "baz")
		o2.Queries.Set("a", "2")
		assert.Equal(t, http.Header{"X-Foo": {"bar"}}, o.Header)
		assert.Equal(t, url.Values{"a": {"1"}}, o.Queries)
		assert.Equal(t, "PUT", o2.Method)
		assert.Equal(t, 3, o2.Follow)
	})
	t.Run("canonical header names", func(t *testing.T) {
		o := &Options{Header: http.Header{"content-type": {"text/plain"}}}
		o2 := o.Clone()
		assert.Equal(t, http.Header{"Content-Type": {"text/plain"}}, o2.Header)
		assert.Equal(t, http.Header{"content-type": {"text/plain"}}, o.Header)
	})
}

func TestOptions_Merge(t *testing.T) {
	j1, j2 := jar.New(), jar.New()
	p1, p2 := timeout.Fixed(time.Second), timeout.Fixed(time.Minute)

	t.Run("nil layers", func(t *testing.T) {
		assert.Equal(t, &Options{}, (*Options)(nil).Merge(nil))
		o := &Options{Method: "HEAD"}
		m := o.Merge(nil)
		assert.Equal(t, o, m)
		assert.NotSame(t, o, m)
		m = (*Options)(nil).Merge(o)
		assert.Equal(t, "HEAD", m.Method)
	})

	t.Run("scalars", func(t *testing.T) {
		base := &Options{
			Method:         "GET",
			Body:           "base",
			Jar:            j1,
			Timeout:        p1,
			ValidateStatus: Status2xx,
			RetryOn:        retry.Times(1),
			Follow:         5,
		}
		over := &Options{
			Method:  "POST",
			Jar:     j2,
			Timeout: p2,
		}
		m := base.Merge(over)
		assert.Equal(t, "POST", m.Method)
		assert.Equal(t, "base", m.Body)
		assert.Same(t, j2, m.Jar)
		assert.Equal(t, p2, m.Timeout)
		assert.NotNil(t, m.ValidateStatus)
		assert.NotNil(t, m.RetryOn)
		assert.Nil(t, m.RetryWait)
		assert.Equal(t, 5, m.Follow)
		assert.Equal(t, "GET", base.Method)
		assert.Same(t, j1, base.Jar)
	})

	t.Run("headers", func(t *testing.T) {
		base := &Options{Header: http.Header{"X-Foo": {"a", "b"}, "X-Keep": {"1"}}}
		over := &Options{Header: http.Header{"x-foo": {"c"}, "X-New": {"2"}}}
		m := base.Merge(over)
		assert.Equal(t, http.Header{
			"X-Foo":  {"c"},
			"X-Keep": {"1"},
			"X-New":  {"2"},
		}, m.Header)
		m.Header.Set("X-Keep", "changed")
		m.Header["X-New"][0] = "changed"
		assert.Equal(t, http.Header{"X-Foo": {"a", "b"}, "X-Keep": {"1"}}, base.Header)
		assert.Equal(t, http.Header{"x-foo": {"c"}, "X-New": {"2"}}, over.Header)
	})

	t.Run("headers non-canonical base", func(t *testing.T) {
		base := &Options{Header: http.Header{"x-token": {"base"}, "x-keep": {"1"}}}
		over := &Options{Header: http.Header{"X-Token": {"over"}}}
		for i := 0; i < 50; i++ {
			m := base.Merge(over)
			assert.Equal(t, http.Header{
				"X-Token": {"over"},
				"X-Keep":  {"1"},
			}, m.Header)
			p, _, err := m.split(context.Background(), "https://example.com/")
			require.NoError(t, err)
			assert.Equal(t, []string{"over"}, p.Header["X-Token"])
		}
		assert.Equal(t, http.Header{"x-token": {"base"}, "x-keep": {"1"}}, base.Header)
	})

	t.Run("headers spelled twice in one layer", func(t *testing.T) {
		o := &Options{Header: http.Header{"x-dup": {"lower"}, "X-Dup": {"canonical"}}}
		for i := 0; i < 20; i++ {
			assert.Equal(t, http.Header{"X-Dup": {"canonical", "lower"}}, o.Clone().Header)
		}
	})

	t.Run("queries", func(t *testing.T) {
		base := &Options{Queries: url.Values{"a": {"1"}, "shared": {"base"}}}
		over := &Options{Queries: url.Values{"b": {"2"}, "shared": {"over1", "over2"}}}
		m := base.Merge(over)
		assert.Equal(t, url.Values{
			"a":      {"1"},
			"b":      {"2"},
			"shared": {"over1", "over2"},
		}, m.Queries)
		m.Queries["b"][0] = "changed"
		assert.Equal(t, url.Values{"b": {"2"}, "shared": {"over1", "over2"}}, over.Queries)
		assert.Equal(t, url.Values{"a": {"1"}, "shared": {"base"}}, base.Queries)
	})

	t.Run("sentinels", func(t *testing.T) {
		base := &Options{Jar: j1, Follow: 5}
		m := base.Merge(&Options{Jar: NoJar, Follow: NoFollow})
		assert.Equal(t, NoJar, m.Jar)
		assert.Equal(t, NoFollow, m.Follow)
		ctl := m.control()
		assert.Nil(t, ctl.jar)
		assert.Equal(t, 0, ctl.follow)
	})

	t.Run("functions", func(t *testing.T) {
		var called string
		base := &Options{BeforeRetry: func(*request.Execution) { called = "base" }}
		m := base.Merge(&Options{})
		m.BeforeRetry(nil)
		assert.Equal(t, "base", called)
		m = base.Merge(&Options{BeforeRetry: func(*request.Execution) { called = "over" }})
		m.BeforeRetry(nil)
		assert.Equal(t, "over", called)
	})
}

func TestOptions_Split(t *testing.T) {
	t.Run("plan", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		o := &Options{
			Method:  "POST",
			Header:  http.Header{"content-type": {"text/plain"}, "Host": {"virtual.example.com"}},
			Body:    url.Values{"k": {"v"}},
			Queries: url.Values{"a": {"1"}},
			Jar:     jar.New(),
			Follow:  2,
		}

		p, ctl, err := o.split(ctx, "https://example.com/x?y=z")

		require.NoError(t, err)
		assert.Same(t, ctx, p.Context())
		assert.Equal(t, "POST", p.Method)
		assert.Equal(t, "https://example.com/x?y=z", p.URL.String())
		assert.Equal(t, http.Header{"Content-Type": {"text/plain"}}, p.Header)
		assert.Equal(t, "virtual.example.com", p.Host)
		assert.Equal(t, []byte("k=v"), p.Body)
		assert.Equal(t, url.Values{"a": {"1"}}, ctl.queries)
		assert.NotNil(t, ctl.jar)
		assert.Equal(t, 2, ctl.follow)
		o.Header.Set("Content-Type", "changed")
		assert.Equal(t, "text/plain", p.Header.Get("Content-Type"))
	})

	t.Run("default method", func(t *testing.T) {
		p, _, err := (&Options{}).split(context.Background(), "https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "GET", p.Method)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := (&Options{Method: "BAD METHOD"}).split(context.Background(), "https://example.com/")
		assert.Error(t, err)
		_, _, err = (&Options{}).split(context.Background(), "http://[::1")
		assert.Error(t, err)
		_, _, err = (&Options{Body: 3.14}).split(context.Background(), "https://example.com/")
		assert.Error(t, err)
	})
}

func TestNoJar(t *testing.T) {
	u, _ := url.Parse("https://example.com/")
	NoJar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "b"}})
	assert.Nil(t, NoJar.Cookies(u))
}

func TestStatusValidators(t *testing.T) {
	testCases := []struct {
		name     string
		v        StatusValidator
		accepted []int
		rejected []int
	}{
		{
			name:     "Status2xx",
			v:        Status2xx,
			accepted: []int{200, 201, 204, 299},
			rejected: []int{100, 199, 300, 404, 500},
		},
		{
			name:     "StatusRange",
			v:        StatusRange(200, 399),
			accepted: []int{200, 302, 399},
			rejected: []int{199, 400},
		},
		{
			name:     "StatusIn",
			v:        StatusIn(200, 404),
			accepted: []int{200, 404},
			rejected: []int{201, 403, 500},
		},
		{
			name:     "StatusIn empty",
			v:        StatusIn(),
			rejected: []int{200},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for _, code := range testCase.accepted {
				assert.True(t, testCase.v(code), "expected %d accepted", code)
			}
			for _, code := range testCase.rejected {
				assert.False(t, testCase.v(code), "expected %d rejected", code)
			}
		})
	}
}
