package onboarding

import "hrcore/internal/domain/apperr"

var (
	ErrInvalidDateOfBirth = apperr.New(apperr.KindValidation, "invalid_date_of_birth", "Date of birth must be in the past").WithField("dateOfBirth")
	ErrDuplicateEmployee  = apperr.New(apperr.KindDuplicate, "duplicate_employee", "an employee with this id already exists")
)
