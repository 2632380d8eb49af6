package identity

import "hrcore/internal/domain/apperr"

var (
	ErrNotFound              = apperr.NotFound("identity_document_not_found", "identity document not found")
	ErrDocumentTypeNotFound  = apperr.NotFound("document_type_not_found", "document type not found")
	ErrDuplicateDocumentType = apperr.New(apperr.KindDuplicate, "duplicate_document_type", "an active document of this type already exists")
	ErrInvalidDocumentFormat = apperr.New(apperr.KindValidation, "invalid_document_format", "document number does not match the document type format").WithField("documentNumber")
	ErrExpiryRequired        = apperr.New(apperr.KindValidation, "expiry_required", "Expiry date is required for this document type").WithField("expiryDate")
	ErrExpiryBeforeIssue     = apperr.New(apperr.KindValidation, "expiry_before_issue", "Expiry date must be after issue date").WithField("expiryDate")
	ErrIssueInFuture         = apperr.New(apperr.KindValidation, "issue_in_future", "Issue date cannot be in the future").WithField("issueDate")
	ErrRejectionReason       = apperr.New(apperr.KindValidation, "rejection_reason_required", "Reason is required when rejecting a document").WithField("reason")
	ErrInvalidTransition     = apperr.New(apperr.KindInvalidState, "invalid_verification_transition", "document is not pending verification")
	ErrDocumentExpired       = apperr.New(apperr.KindInvalidState, "document_expired", "an expired document cannot be verified")
)
