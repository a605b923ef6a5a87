// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jar

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	persistent "github.com/juju/persistent-cookiejar"
	"golang.org/x/net/publicsuffix"
)

// New returns an empty in-memory RFC 6265 jar which uses the public
// suffix list to stop cookies being set for whole registries such as
// "co.uk".
func New() *cookiejar.Jar {
	j, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New never fails in practice.
		panic(err)
	}
	return j
}

// NewPersistent returns a jar loaded from filename, which need not
// exist yet. Cookies set on the jar are written back when its Save
// method is called.
func NewPersistent(filename string) (*persistent.Jar, error) {
	return persistent.New(&persistent.Options{
		Filename:         filename,
		PublicSuffixList: publicsuffix.List,
	})
}

// Seed stores raw Set-Cookie header values into j as if they had been
// received from rawURL. Values which do not parse as a cookie are
// skipped.
func Seed(j http.CookieJar, rawURL string, setCookies ...string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	resp := http.Response{Header: http.Header{"Set-Cookie": setCookies}}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		j.SetCookies(u, cookies)
	}
	return nil
}

// CookieString returns the Cookie header value j would send to rawURL,
// or the empty string if it would send none.
func CookieString(j http.CookieJar, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	cookies := j.Cookies(u)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, (&http.Cookie{Name: c.Name, Value: c.Value}).String())
	}
	return strings.Join(parts, "; "), nil
}

// Save writes j to its backing file, if it has one. It does nothing for
// an in-memory jar.
func Save(j http.CookieJar) error {
	if s, ok := j.(interface{ Save() error }); ok {
		return s.Save()
	}
	return nil
}
