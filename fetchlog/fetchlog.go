// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchlog

import (
	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/transient"

	"github.com/rs/zerolog"
)

// A Logger is a fetchx.Handler which logs execution events.
//
// Routine events (start, attempt, redirect) log at debug level, retries
// and timeouts at warn level, and the end of an execution at info level
// or, if the execution failed, at error level.
type Logger struct {
	log zerolog.Logger
	// Sensitive overrides DefaultSensitive for URL redaction.
	Sensitive []string
}

// New returns a Logger writing to l.
func New(l zerolog.Logger) *Logger {
	return &Logger{log: l}
}

// Install adds lg to every event chain of g except BeforeReadBody.
func (lg *Logger) Install(g *fetchx.HandlerGroup) {
	for _, evt := range fetchx.Events() {
		if evt != fetchx.BeforeReadBody {
			g.PushBack(evt, lg)
		}
	}
}

// Handle implements fetchx.Handler.
func (lg *Logger) Handle(evt fetchx.Event, e *request.Execution) {
	l := lg.logger(e)
	switch evt {
	case fetchx.BeforeExecutionStart:
		ev := l.Debug().Str("method", e.Input.Method).Str("url", lg.url(e))
		if n := len(e.Redirects); n > 0 {
			ev = ev.Int("hop", n)
		}
		ev.Msg("fetch start")
	case fetchx.BeforeAttempt:
		l.Debug().Str("url", lg.url(e)).Int("attempt", e.Attempt).Msg("attempt start")
	case fetchx.AfterAttemptTimeout:
		l.Warn().
			Str("url", lg.url(e)).
			Int("attempt", e.Attempt).
			Int("timeouts", e.AttemptTimeouts).
			Msg("attempt timed out")
	case fetchx.AfterAttempt:
		ev := l.Debug().Str("url", lg.url(e)).Int("attempt", e.Attempt)
		if e.Response != nil {
			ev = ev.Int("status", e.StatusCode()).Int("bytes", len(e.Body))
		}
		ev.Err(e.Err).Msg("attempt end")
	case fetchx.BeforeRedirect:
		l.Debug().
			Str("url", lg.url(e)).
			Int("status", e.StatusCode()).
			Str("location", e.Header().Get("Location")).
			Msg("following redirect")
	case fetchx.BeforeRetry:
		l.Warn().
			Str("url", lg.url(e)).
			Int("attempt", e.Attempt).
			Stringer("category", transient.Categorize(e.Err)).
			Err(e.Err).
			Msg("retrying")
	case fetchx.AfterPlanTimeout:
		l.Warn().Str("url", lg.url(e)).Dur("elapsed", e.Duration()).Msg("plan timed out")
	case fetchx.AfterExecutionEnd:
		var ev *zerolog.Event
		if e.Err != nil {
			ev = l.Error().Err(e.Err)
		} else {
			ev = l.Info()
		}
		if e.Response != nil {
			ev = ev.Int("status", e.StatusCode())
		}
		ev.Str("method", e.Input.Method).
			Str("url", lg.url(e)).
			Int("attempts", e.Attempt).
			Int("redirects", len(e.Redirects)).
			Dur("elapsed", e.Duration()).
			Msg("fetch end")
	}
}

func (lg *Logger) logger(e *request.Execution) *zerolog.Logger {
	if e.Input != nil {
		if l := zerolog.Ctx(e.Input.Context()); l != nil && l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &lg.log
}

func (lg *Logger) url(e *request.Execution) string {
	return Redact(e.URL(), lg.Sensitive)
}
