// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import "github.com/m-mizutani/goerr/v2"

// ErrTagValidation marks errors caused by input that failed validation, as
// opposed to I/O or internal failures.
var ErrTagValidation = goerr.NewTag("validation")

// invalid builds a validation error for a single field.
func invalid(msg, field string, value any) error {
	return goerr.New(msg,
		goerr.T(ErrTagValidation),
		goerr.V("field", field),
		goerr.V("value", value))
}

// IsValidation reports whether err carries the validation tag.
func IsValidation(err error) bool {
	return goerr.HasTag(err, ErrTagValidation)
}
