// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"errors"
	"net/url"

	"github.com/gogama/fetchx/request"
)

// An Interceptor sees the fully resolved URL and the merged options of
// every Instance call just before it is executed. Its results replace
// both; a non-nil error aborts the call.
//
// The Options passed in are a private copy, so an Interceptor may
// modify and return them.
type Interceptor func(url string, o *Options) (string, *Options, error)

// InstanceConfig configures an Instance.
type InstanceConfig struct {
	// BaseURL, if set, must be absolute. Call paths are resolved
	// against it with standard RFC 3986 reference resolution, so a base
	// of "https://example.com/api/" turns "somewhere" into
	// "https://example.com/api/somewhere" while a base without the
	// trailing slash drops its last path segment.
	BaseURL string
	// Options are the instance defaults, layered over the Client's
	// Defaults and under each call's options.
	Options Options
	// Interceptor, if set, runs on every call.
	Interceptor Interceptor
}

// An Instance is a pre-configured invoker bound to a Client. It is safe
// for concurrent use: the configuration is copied when the Instance is
// created and every call works on its own merged copy.
type Instance struct {
	client      *Client
	base        *url.URL
	defaults    *Options
	interceptor Interceptor
}

// NewInstance returns an Instance which executes calls with c. If c is
// nil a zero Client is used.
func NewInstance(c *Client, cfg InstanceConfig) (*Instance, error) {
	if c == nil {
		c = &Client{}
	}
	in := &Instance{
		client:      c,
		defaults:    cfg.Options.Clone(),
		interceptor: cfg.Interceptor,
	}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		if !base.IsAbs() {
			return nil, errors.New("fetchx: base URL must be absolute")
		}
		in.base = base
	}
	return in, nil
}

// Fetch resolves path against the base URL, merges o over the instance
// defaults, runs the interceptor and executes the result with the
// Client. Setting o.Jar to NoJar suppresses the instance jar for this
// call only.
func (in *Instance) Fetch(ctx context.Context, path string, o *Options) (*request.Execution, error) {
	target, m, err := in.prepare(path, o)
	if err != nil {
		return nil, err
	}
	return in.client.Fetch(ctx, target, m)
}

func (in *Instance) prepare(path string, o *Options) (string, *Options, error) {
	m := in.defaults.Merge(o)

	target := path
	if in.base != nil {
		ref, err := url.Parse(path)
		if err != nil {
			return "", nil, err
		}
		target = in.base.ResolveReference(ref).String()
	}

	if in.interceptor != nil {
		var err error
		target, m, err = in.interceptor(target, m)
		if err != nil {
			return "", nil, err
		}
		if m == nil {
			m = &Options{}
		}
	}

	return target, m, nil
}

// Get issues a GET to the specified path.
func (in *Instance) Get(path string) (*request.Execution, error) {
	return Get(in, path)
}

// Head issues a HEAD to the specified path.
func (in *Instance) Head(path string) (*request.Execution, error) {
	return Head(in, path)
}

// Post issues a POST to the specified path.
func (in *Instance) Post(path, contentType string, body interface{}) (*request.Execution, error) {
	return Post(in, path, contentType, body)
}

// PostForm issues a form POST to the specified path.
func (in *Instance) PostForm(path string, data url.Values) (*request.Execution, error) {
	return PostForm(in, path, data)
}

// CloseIdleConnections forwards to the underlying Client.
func (in *Instance) CloseIdleConnections() {
	in.client.CloseIdleConnections()
}
