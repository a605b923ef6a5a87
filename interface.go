// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gogama/fetchx/request"
)

// Fetcher is the interface that wraps the basic Fetch method.
//
// Fetch performs one logical request to a URL, configured by the given
// Options, and returns the final execution state (and error, if any).
// Client and Instance implement Fetcher. For an Instance, the URL may
// be relative to its base URL.
//
// Any Fetcher can be converted into an Executor via the Inflate
// function.
type Fetcher interface {
	Fetch(ctx context.Context, url string, o *Options) (*request.Execution, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Any Fetcher can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*request.Execution, error)
}

// Header is the interface that wraps the basic Head method.
//
// Any Fetcher can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*request.Execution, error)
}

// Poster is the interface that wraps the basic Post method.
//
// The body parameter may be any of the types accepted by
// request.BodyBytes.
//
// Any Fetcher can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, body interface{}) (*request.Execution, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// Any Fetcher can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*request.Execution, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Fetch, Get, Head,
// Post, PostForm, and CloseIdleConnections methods.
type Executor interface {
	Fetcher
	Getter
	Header
	Poster
	FormPoster
	IdleCloser
}

// Get uses the specified Fetcher to issue a GET to the specified URL.
func Get(f Fetcher, url string) (*request.Execution, error) {
	return f.Fetch(context.Background(), url, &Options{Method: "GET"})
}

// Head uses the specified Fetcher to issue a HEAD to the specified URL.
func Head(f Fetcher, url string) (*request.Execution, error) {
	return f.Fetch(context.Background(), url, &Options{Method: "HEAD"})
}

// Post uses the specified Fetcher to issue a POST to the specified URL
// with the given Content-Type.
func Post(f Fetcher, url, contentType string, body interface{}) (*request.Execution, error) {
	b, err := request.BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return f.Fetch(context.Background(), url, &Options{
		Method: "POST",
		Header: http.Header{"Content-Type": {contentType}},
		Body:   b,
	})
}

// PostForm uses the specified Fetcher to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(f Fetcher, url string, data url.Values) (*request.Execution, error) {
	return Post(f, url, "application/x-www-form-urlencoded", data.Encode())
}

// Inflate converts any non-nil Fetcher into an Executor.
func Inflate(f Fetcher) Executor {
	if f == nil {
		panic("fetchx: nil fetcher")
	}

	if e, ok := f.(Executor); ok {
		return e
	}

	return inflated{f}
}

type inflated struct {
	fetcher Fetcher
}

func (i inflated) Fetch(ctx context.Context, url string, o *Options) (*request.Execution, error) {
	return i.fetcher.Fetch(ctx, url, o)
}

func (i inflated) Get(url string) (*request.Execution, error) {
	return Get(i.fetcher, url)
}

func (i inflated) Head(url string) (*request.Execution, error) {
	return Head(i.fetcher, url)
}

func (i inflated) Post(url, contentType string, body interface{}) (*request.Execution, error) {
	return Post(i.fetcher, url, contentType, body)
}

func (i inflated) PostForm(url string, data url.Values) (*request.Execution, error) {
	return PostForm(i.fetcher, url, data)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.fetcher.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
