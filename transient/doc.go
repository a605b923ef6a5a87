// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient sorts attempt failures into categories a retry
// decider can act on: timeouts, refused or reset connections, and
// rejected responses with a temporary status (429 or 5xx).
//
//	switch transient.Categorize(e.Err) {
//	case transient.Timeout, transient.ConnReset:
//		// worth another attempt
//	}
//
// Each Category has a short String form, used as a log field and metric
// label by packages fetchlog and fetchmetrics. The package imports only
// the standard library.
package transient
