// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/jar"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"
)

// InstanceConfig converts c into a fetchx.InstanceConfig. If c enables
// a persistent jar, its file is opened here; pass the resulting
// Options.Jar to jar.Save to write it back.
func (c *Config) InstanceConfig() (fetchx.InstanceConfig, error) {
	o := fetchx.Options{
		Method: c.Method,
		Follow: c.Follow,
	}

	if len(c.Headers) > 0 {
		o.Header = make(http.Header, len(c.Headers))
		for k, v := range c.Headers {
			o.Header.Set(k, v)
		}
	}
	if len(c.Queries) > 0 {
		o.Queries = make(url.Values, len(c.Queries))
		for k, v := range c.Queries {
			o.Queries.Set(k, v)
		}
	}

	if c.Timeout > 0 {
		o.Timeout = timeout.Fixed(c.Timeout)
	}

	if c.Retry.Attempts > 1 {
		on := retry.TransientErr
		if len(c.Retry.Statuses) > 0 {
			on = on.Or(retry.StatusCode(c.Retry.Statuses...))
		}
		wait := retry.NewFixedWaiter(0)
		if c.Retry.Delay > 0 {
			max := c.Retry.MaxDelay
			if max < c.Retry.Delay {
				max = c.Retry.Delay
			}
			wait = retry.NewExpWaiter(c.Retry.Delay, max, time.Now())
		}
		p := retry.NewPolicy(retry.Times(c.Retry.Attempts-1).And(on), wait)
		o.RetryOn, o.RetryWait = p, p
	}

	if s := c.ValidateStatus; s.Min > 0 || s.Max > 0 {
		min, max := s.Min, s.Max
		if min == 0 {
			min = 100
		}
		if max == 0 {
			max = 599
		}
		o.ValidateStatus = fetchx.StatusRange(min, max)
	}

	if c.Jar.Enabled {
		if c.Jar.File != "" {
			j, err := jar.NewPersistent(c.Jar.File)
			if err != nil {
				return fetchx.InstanceConfig{}, err
			}
			o.Jar = j
		} else {
			o.Jar = jar.New()
		}
	}

	return fetchx.InstanceConfig{
		BaseURL: c.BaseURL,
		Options: o,
	}, nil
}

// NewInstance builds an Instance bound to cl from c.
func (c *Config) NewInstance(cl *fetchx.Client) (*fetchx.Instance, error) {
	ic, err := c.InstanceConfig()
	if err != nil {
		return nil, err
	}
	return fetchx.NewInstance(cl, ic)
}
