// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads fetchx instance configuration from layered
// sources: built-in defaults, YAML files or bytes, and environment
// variables, in increasing order of precedence.
//
//	cfg, err := config.Load(config.WithFile("fetch.yaml"))
//	if err != nil {
//		return err
//	}
//	api, err := cfg.NewInstance(client)
//
// Environment variables carry the FETCHX_ prefix, and a double
// underscore separates nesting levels: FETCHX_RETRY__MAX_DELAY=5s sets
// retry.max_delay.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix used by Load.
const DefaultEnvPrefix = "FETCHX_"

// Config is the decoded configuration of a fetchx Instance.
type Config struct {
	// BaseURL must be absolute when set.
	BaseURL string            `koanf:"base_url" validate:"omitempty,url"`
	Method  string            `koanf:"method" validate:"omitempty,httpmethod"`
	Headers map[string]string `koanf:"headers"`
	Queries map[string]string `koanf:"queries"`
	// Timeout is the attempt timeout. Zero disables the attempt timer.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	// Follow is the redirect budget. -1 disables redirect following
	// even if the client defaults enable it.
	Follow         int          `koanf:"follow" validate:"gte=-1,lte=50"`
	Retry          RetryConfig  `koanf:"retry"`
	ValidateStatus StatusConfig `koanf:"validate_status"`
	Jar            JarConfig    `koanf:"jar"`
}

// RetryConfig configures the retry loop.
type RetryConfig struct {
	// Attempts is the maximum number of attempts, including the first.
	// Zero and one both disable retries.
	Attempts int `koanf:"attempts" validate:"gte=0,lte=100"`
	// Delay is the exponential backoff base. Zero retries immediately.
	Delay    time.Duration `koanf:"delay" validate:"gte=0"`
	MaxDelay time.Duration `koanf:"max_delay" validate:"gte=0"`
	// Statuses are response status codes retried in addition to
	// transient errors.
	Statuses []int `koanf:"statuses" validate:"dive,gte=100,lte=599"`
}

// StatusConfig configures status validation. When either bound is set
// responses outside [Min, Max] fail with a *fetchx.StatusError. An
// unset Min means 100 and an unset Max means 599.
type StatusConfig struct {
	Min int `koanf:"min" validate:"omitempty,gte=100,lte=599"`
	Max int `koanf:"max" validate:"omitempty,gte=100,lte=599"`
}

// JarConfig configures the instance cookie jar.
type JarConfig struct {
	Enabled bool `koanf:"enabled"`
	// File, if set, makes the jar persistent.
	File string `koanf:"file"`
}

// An Option adds a source to Load.
type Option func(*loader)

type loader struct {
	files   []string
	raw     [][]byte
	prefix  string
	environ func() []string
}

// WithFile adds a YAML file. The file must exist.
func WithFile(path string) Option {
	return func(l *loader) {
		l.files = append(l.files, path)
	}
}

// WithYAML adds YAML bytes, loaded after every file.
func WithYAML(b []byte) Option {
	return func(l *loader) {
		l.raw = append(l.raw, b)
	}
}

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *loader) {
		l.prefix = prefix
	}
}

// WithEnviron replaces os.Environ as the source of environment
// variables.
func WithEnviron(environ func() []string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"timeout":         "0s",
		"follow":          0,
		"retry.attempts":  0,
		"retry.delay":     "0s",
		"retry.max_delay": "30s",
		"jar.enabled":     false,
	}
}

// Load reads the configuration from its sources and validates it.
func Load(opts ...Option) (*Config, error) {
	l := loader{
		prefix:  DefaultEnvPrefix,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(&l)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("fetchx/config: failed to load defaults: %w", err)
	}
	for _, f := range l.files {
		if err := k.Load(file.Provider(f), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("fetchx/config: failed to load %s: %w", f, err)
		}
	}
	for _, b := range l.raw {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("fetchx/config: failed to load YAML: %w", err)
		}
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        l.prefix,
		TransformFunc: envKey(l.prefix),
		EnvironFunc:   l.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("fetchx/config: failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("fetchx/config: failed to unmarshal: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FETCHX_RETRY__MAX_DELAY to retry.max_delay.
func envKey(prefix string) func(k, v string) (string, interface{}) {
	return func(k, v string) (string, interface{}) {
		k = strings.ToLower(strings.TrimPrefix(k, prefix))
		return strings.ReplaceAll(k, "__", "."), v
	}
}
