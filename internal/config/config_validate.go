// listenbrainz-content-resolver - local music content resolver
// Copyright (C) 2026 MetaBrainz Foundation
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// validate is a single, reusable validator instance. go-playground/validator
// caches struct metadata internally, so sharing one instance across calls
// avoids re-parsing struct tags on every Load.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that required configuration is present and well-formed.
// It runs go-playground/validator struct-tag checks first (required/range
// constraints declared on the Config fields below), then a handful of
// cross-field rules that struct tags can't express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Remote.Enabled {
		if err := validateHTTPURL(c.Remote.URL, "remote.url"); err != nil {
			return err
		}
	}
	if c.Enrich.Endpoint != "" {
		if err := validateHTTPURL(c.Enrich.Endpoint, "enrich.endpoint"); err != nil {
			return err
		}
	}
	return nil
}

// validateHTTPURL checks that value parses as an absolute http(s) URL.
func validateHTTPURL(value, field string) error {
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("config: %s is invalid: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: %s must be an http or https URL, got %q", field, value)
	}
	if u.Host == "" {
		return fmt.Errorf("config: %s is missing a host", field)
	}
	return nil
}
