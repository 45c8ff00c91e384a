// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingResource means the workbook could not be opened or read.
	ErrMissingResource = errors.New("missing resource")
	// ErrSchema means a sheet or a required column is absent or malformed.
	ErrSchema = errors.New("schema error")
	// ErrNoCommonCountries means the two sheets share no country column.
	ErrNoCommonCountries = errors.New("no common countries")
	// ErrInvalidSelection means a caller asked for a country or metric that
	// does not exist.
	ErrInvalidSelection = errors.New("invalid selection")
)

func schemaErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrSchema)
}

func selectionErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidSelection)
}
