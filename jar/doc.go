// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package jar constructs cookie jars for use with fetchx.Options.Jar,
// and offers two helpers for working with any http.CookieJar in terms
// of raw header strings.
//
// The executor never creates a jar on its own; a caller that wants
// session state builds one here (or anywhere else) and hands it over.
// Every jar returned by this package is safe for concurrent use.
package jar
