// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package fetchmetrics exports Prometheus metrics for fetchx executions.
//
//	reg := prometheus.NewRegistry()
//	handlers := &fetchx.HandlerGroup{}
//	fetchmetrics.New(reg, "myapp").Install(handlers)
//	client := &fetchx.Client{Handlers: handlers}
package fetchmetrics

import (
	"errors"
	"strconv"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/transient"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
	OutcomeTransport = "transport"
	OutcomeStatus    = "status"
	OutcomeRedirect  = "redirect"
	OutcomeOther     = "other"
)

// A Collector is a fetchx.Handler which records execution metrics.
type Collector struct {
	executions      *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	attempts        *prometheus.CounterVec
	attemptTimeouts prometheus.Counter
	retries         *prometheus.CounterVec
	redirects       prometheus.Counter
	planTimeouts    prometheus.Counter
}

// New creates the collector's metrics and registers them with reg. A
// nil reg leaves them unregistered. Metric names are prefixed with
// namespace, if not empty.
//
// New panics if the metrics are already registered with reg.
func New(reg prometheus.Registerer, namespace string) *Collector {
	f := promauto.With(reg)
	return &Collector{
		executions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_executions_total",
			Help:      "Completed fetch executions by outcome. A followed redirect ends an execution.",
		}, []string{"method", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_execution_duration_seconds",
			Help:      "Wall time of fetch executions, including retries and retry waits.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "outcome"}),
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "HTTP attempts by status class, or \"error\" when no response was read.",
		}, []string{"code"}),
		attemptTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempt_timeouts_total",
			Help:      "Attempts aborted by the attempt timer.",
		}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Retries by transience category of the failed attempt.",
		}, []string{"category"}),
		redirects: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_redirects_total",
			Help:      "Redirects followed.",
		}),
		planTimeouts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_plan_timeouts_total",
			Help:      "Executions ended by the plan context deadline.",
		}),
	}
}

// Install adds c to the event chains it observes.
func (c *Collector) Install(g *fetchx.HandlerGroup) {
	for _, evt := range []fetchx.Event{
		fetchx.AfterAttemptTimeout,
		fetchx.AfterAttempt,
		fetchx.BeforeRedirect,
		fetchx.BeforeRetry,
		fetchx.AfterPlanTimeout,
		fetchx.AfterExecutionEnd,
	} {
		g.PushBack(evt, c)
	}
}

// Handle implements fetchx.Handler.
func (c *Collector) Handle(evt fetchx.Event, e *request.Execution) {
	switch evt {
	case fetchx.AfterAttemptTimeout:
		c.attemptTimeouts.Inc()
	case fetchx.AfterAttempt:
		c.attempts.WithLabelValues(codeClass(e)).Inc()
	case fetchx.BeforeRedirect:
		c.redirects.Inc()
	case fetchx.BeforeRetry:
		c.retries.WithLabelValues(transient.Categorize(e.Err).String()).Inc()
	case fetchx.AfterPlanTimeout:
		c.planTimeouts.Inc()
	case fetchx.AfterExecutionEnd:
		method := e.Input.Method
		outcome := Outcome(e.Err)
		c.executions.WithLabelValues(method, outcome).Inc()
		c.duration.WithLabelValues(method, outcome).Observe(e.Duration().Seconds())
	}
}

// Outcome maps an execution error to its outcome label.
func Outcome(err error) string {
	var timeoutErr *fetchx.TimeoutError
	var cancelledErr *fetchx.CancelledError
	var transportErr *fetchx.TransportError
	var statusErr *fetchx.StatusError
	var redirectErr *fetchx.RedirectError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &timeoutErr):
		return OutcomeTimeout
	case errors.As(err, &cancelledErr):
		return OutcomeCancelled
	case errors.As(err, &transportErr):
		return OutcomeTransport
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.As(err, &redirectErr):
		return OutcomeRedirect
	default:
		return OutcomeOther
	}
}

func codeClass(e *request.Execution) string {
	if e.Response == nil || e.Err != nil {
		return "error"
	}
	return strconv.Itoa(e.StatusCode()/100) + "xx"
}
