package emergency

import "hrcore/internal/domain/apperr"

var (
	ErrNotFound        = apperr.NotFound("emergency_contact_not_found", "emergency contact not found")
	ErrMinimumContacts = apperr.New(apperr.KindInvariant, "minimum_contact_violation", "an employee must keep at least one active emergency contact")
	ErrInvalidPhone    = apperr.New(apperr.KindValidation, "invalid_phone", "Phone number must contain 6-15 digits").WithField("primaryPhone")
	ErrReorderMismatch = apperr.New(apperr.KindValidation, "reorder_mismatch", "Contact ids must list every active contact exactly once").WithField("contactIds")
)
