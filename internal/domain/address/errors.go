package address

import "hrcore/internal/domain/apperr"

var (
	ErrNotFound             = apperr.NotFound("address_not_found", "address not found")
	ErrDuplicateAddressType = apperr.New(apperr.KindDuplicate, "duplicate_address_type", "an active address of this type already exists")
	ErrInvalidWindow        = apperr.New(apperr.KindValidation, "invalid_validity_window", "Effective to must not be before effective from").WithField("effectiveTo")
)
