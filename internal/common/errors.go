// Package common defines shared constants and sentinel errors used across
// client layers of Poputka. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage errors.
	ErrUnknownKey = errors.New("unknown storage key")

	// Input validation errors.
	ErrInvalidPhone = errors.New("phone number is too short")
	ErrMissingField = errors.New("required field is missing")
)
