package identity

import "time"

const Category = "identity_document"

const (
	CategoryTaxID      = "TAX_ID"
	CategoryNationalID = "NATIONAL_ID"
	CategoryWorkAuth   = "WORK_AUTH"
	CategoryDriving    = "DRIVING"
	CategoryPassport   = "PASSPORT"
	CategoryVisa       = "VISA"
	CategoryOther      = "OTHER"
)

const (
	StatusPending     = "PENDING"
	StatusVerified    = "VERIFIED"
	StatusRejected    = "REJECTED"
	StatusExpired     = "EXPIRED"
	StatusNeedsUpdate = "NEEDS_UPDATE"
)

// Document is an identity document on file for an employee. At most one
// active document exists per (employee, document type).
type Document struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	DocumentTypeCode   string     `json:"documentTypeCode"`
	DocumentNumber     string     `json:"-"`
	MaskedNumber       string     `json:"maskedNumber"`
	IssueDate          *time.Time `json:"issueDate,omitempty"`
	ExpiryDate         *time.Time `json:"expiryDate,omitempty"`
	VerificationStatus string     `json:"verificationStatus"`
	VerifiedBy         string     `json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
	IsActive           bool       `json:"isActive"`
	CreatedBy          string     `json:"createdBy"`
	UpdatedBy          string     `json:"updatedBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	Version            int        `json:"version"`
}

// IsExpired reports whether the expiry date lies before the day of now.
func (d Document) IsExpired(now time.Time) bool {
	return d.ExpiryDate != nil && d.ExpiryDate.Before(day(now))
}

// IsExpiringWithinDays reports whether an unexpired document expires within
// the next days days.
func (d Document) IsExpiringWithinDays(now time.Time, days int) bool {
	if d.ExpiryDate == nil || d.IsExpired(now) {
		return false
	}
	return !d.ExpiryDate.After(day(now).AddDate(0, 0, days))
}

// EffectiveStatus derives EXPIRED for a lapsed document that is still
// pending or verified.
func (d Document) EffectiveStatus(now time.Time) string {
	if (d.VerificationStatus == StatusPending || d.VerificationStatus == StatusVerified) && d.IsExpired(now) {
		return StatusExpired
	}
	return d.VerificationStatus
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Request struct {
	DocumentTypeCode string     `json:"documentTypeCode" validate:"required,max=64"`
	DocumentNumber   string     `json:"documentNumber" validate:"required,max=64"`
	IssueDate        *time.Time `json:"issueDate"`
	ExpiryDate       *time.Time `json:"expiryDate"`
}

// UpdateRequest edits the number and dates of a document. The type of a
// document never changes.
type UpdateRequest struct {
	DocumentNumber string     `json:"documentNumber" validate:"required,max=64"`
	IssueDate      *time.Time `json:"issueDate"`
	ExpiryDate     *time.Time `json:"expiryDate"`
}

type Decision struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"max=500"`
}
