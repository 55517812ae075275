package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks values that Parse cannot: duration strings, urls and enums.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error
	check := func(path, raw string) {
		if _, err := ParseDurationField(path, raw); err != nil {
			errs = append(errs, err)
		}
	}
	check("practicum.request_timeout", c.Practicum.RequestTimeout)
	check("telegram.request_timeout", c.Telegram.RequestTimeout)
	check("poll.interval", c.Poll.Interval)

	for path, raw := range map[string]string{
		"practicum.endpoint": c.Practicum.Endpoint,
		"telegram.api_url":   c.Telegram.APIURL,
	} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s: invalid url %q", path, raw))
		}
	}

	if c.Telegram.RatePerSec < 0 {
		errs = append(errs, errors.New("telegram.rate_per_sec must be >= 0"))
	}
	if j := c.Journal; j != nil {
		check("journal.busy_timeout", j.BusyTimeout)
		switch strings.ToLower(strings.TrimSpace(j.Driver)) {
		case "", "none":
		case "file", "sqlite", "sqlite3":
			if strings.TrimSpace(j.Path) == "" {
				errs = append(errs, errors.New("journal.path is required"))
			}
		default:
			errs = append(errs, fmt.Errorf("journal.driver: unknown driver %q", j.Driver))
		}
	}
	return errors.Join(errs...)
}
