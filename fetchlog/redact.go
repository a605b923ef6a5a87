// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchlog

import (
	"net/url"
	"strings"
)

// Redacted replaces the value of every sensitive query parameter.
const Redacted = "[REDACTED]"

// DefaultSensitive lists the query parameter name fragments redacted by
// default. Matching is a case-insensitive substring test.
var DefaultSensitive = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"auth",
	"secret",
	"key",
	"credential",
	"sid",
}

// Redact renders u with the values of sensitive query parameters, and
// any user password, replaced by Redacted. A nil sensitive list means
// DefaultSensitive.
func Redact(u *url.URL, sensitive []string) string {
	if u == nil {
		return ""
	}
	if sensitive == nil {
		sensitive = DefaultSensitive
	}

	safe := *u
	if _, ok := u.User.Password(); ok {
		safe.User = url.UserPassword(u.User.Username(), Redacted)
	}
	if u.RawQuery == "" {
		return safe.String()
	}

	q := u.Query()
	changed := false
	for param := range q {
		if isSensitive(param, sensitive) {
			q[param] = []string{Redacted}
			changed = true
		}
	}
	if changed {
		safe.RawQuery = q.Encode()
	}
	return safe.String()
}

func isSensitive(param string, sensitive []string) bool {
	lower := strings.ToLower(param)
	for _, s := range sensitive {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
