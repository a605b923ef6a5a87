// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchlog writes structured zerolog records for the events of a
fetchx execution.

Install a Logger into the Client's handler group:

	handlers := &fetchx.HandlerGroup{}
	fetchlog.New(zerolog.New(os.Stderr)).Install(handlers)
	client := &fetchx.Client{Handlers: handlers}

A logger attached to the plan context with zerolog's WithContext takes
precedence over the one given to New, so request-scoped fields such as
a request ID flow into the records.

URLs are logged with sensitive query parameters redacted. See Redact.
*/
package fetchlog
