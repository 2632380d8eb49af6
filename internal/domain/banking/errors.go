package banking

import "hrcore/internal/domain/apperr"

var (
	ErrNotFound             = apperr.NotFound("bank_account_not_found", "bank account not found")
	ErrNoAccountForPurpose  = apperr.NotFound("no_account_for_purpose", "no active bank account for this purpose")
	ErrDuplicateBankAccount = apperr.New(apperr.KindDuplicate, "duplicate_bank_account", "an active bank account with this number already exists")
	ErrPriorityTaken        = apperr.New(apperr.KindDuplicate, "duplicate_priority", "another active bank account has this priority").WithField("priority")
	ErrMinimumBankAccount   = apperr.New(apperr.KindInvariant, "minimum_bank_account_violation", "an employee must keep at least one active bank account")
	ErrInvalidCurrency      = apperr.New(apperr.KindValidation, "invalid_currency", "Currency must be an ISO 4217 code").WithField("currency")
	ErrInvalidTransition    = apperr.New(apperr.KindInvalidState, "invalid_verification_transition", "bank account is not pending verification")
)
