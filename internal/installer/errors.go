// Copyright (c) 2025 Thorium

package installer

import (
	"errors"
	"fmt"
)

// ErrorCollector aggregates per-patch errors and warnings across a run
// so the driver can report totals instead of scraping log lines.
type ErrorCollector struct {
	Errors   []error
	Warnings []error
}

// Add records err, if non-nil, as an error.
func (c *ErrorCollector) Add(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// Addf records a formatted error.
func (c *ErrorCollector) Addf(format string, args ...interface{}) {
	if len(args) > 0 {
		c.Errors = append(c.Errors, fmt.Errorf(format, args...))
	} else {
		c.Errors = append(c.Errors, errors.New(format))
	}
}

// Warn records a warning, not counted among errors.
func (c *ErrorCollector) Warn(format string, args ...interface{}) {
	if len(args) > 0 {
		c.Warnings = append(c.Warnings, fmt.Errorf(format, args...))
	} else {
		c.Warnings = append(c.Warnings, errors.New(format))
	}
}
