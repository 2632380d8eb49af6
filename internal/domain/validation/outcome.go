// Package validation checks bank routing details and tax identifiers
// against per-country structural rules and checksums.
//
// Country behavior lives in lookup tables (routing.go, taxid.go). Adding a
// country means adding a table row; the validators themselves never branch
// on a country code.
package validation

import "hrcore/internal/domain/apperr"

// Outcome is the result of a validation: either valid, or invalid with the
// offending field and a user-facing message.
type Outcome struct {
	Valid   bool   `json:"valid"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func Valid() Outcome {
	return Outcome{Valid: true}
}

func Invalid(field, message string) Outcome {
	return Outcome{Field: field, Message: message}
}

// Err converts an invalid outcome into a ValidationFailed error.
func (o Outcome) Err() error {
	if o.Valid {
		return nil
	}
	return apperr.Validation(o.Field, o.Message)
}
