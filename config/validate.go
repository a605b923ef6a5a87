// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net/url"

	"github.com/gogama/fetchx/request"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return request.ValidMethod(fl.Field().String())
	})
	v.RegisterStructValidation(validateConfig, Config{})
	return v
}

func validateConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.BaseURL != "" {
		if u, err := url.Parse(cfg.BaseURL); err != nil || !u.IsAbs() {
			sl.ReportError(cfg.BaseURL, "BaseURL", "BaseURL", "absurl", "")
		}
	}
	r := cfg.Retry
	if r.Delay > 0 && r.MaxDelay < r.Delay {
		sl.ReportError(r.MaxDelay, "Retry.MaxDelay", "MaxDelay", "gtefield", "Delay")
	}
	s := cfg.ValidateStatus
	if s.Min > 0 && s.Max > 0 && s.Max < s.Min {
		sl.ReportError(s.Max, "ValidateStatus.Max", "Max", "gtefield", "Min")
	}
}

// Validate checks cfg for values Load would reject.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("fetchx/config: invalid configuration: %w", err)
	}
	return nil
}
