package banking

import (
	"time"

	"hrcore/internal/domain/validation"
)

const Category = "bank_account"

const (
	PurposeSalary        = "SALARY"
	PurposeReimbursement = "REIMBURSEMENT"
	PurposeBonus         = "BONUS"
	PurposeAll           = "ALL"
)

const (
	StatusPending     = "PENDING"
	StatusVerified    = "VERIFIED"
	StatusFailed      = "FAILED"
	StatusNeedsUpdate = "NEEDS_UPDATE"
)

// Account is a payout account of an employee. Among active accounts
// exactly one is primary and priorities are unique.
type Account struct {
	ID                 string     `json:"id"`
	EmployeeID         string     `json:"employeeId"`
	Purpose            string     `json:"purpose"`
	Priority           int        `json:"priority"`
	IsPrimary          bool       `json:"isPrimary"`
	BankName           string     `json:"bankName,omitempty"`
	AccountHolderName  string     `json:"accountHolderName"`
	BankCountryCode    string     `json:"bankCountryCode"`
	Currency           string     `json:"currency"`
	AccountNumber      string     `json:"-"`
	MaskedNumber       string     `json:"maskedNumber"`
	RoutingNumber      string     `json:"routingNumber,omitempty"`
	IFSCCode           string     `json:"ifscCode,omitempty"`
	SortCode           string     `json:"sortCode,omitempty"`
	BSBCode            string     `json:"bsbCode,omitempty"`
	TransitNumber      string     `json:"transitNumber,omitempty"`
	InstitutionNumber  string     `json:"institutionNumber,omitempty"`
	CLABE              string     `json:"-"`
	SwiftCode          string     `json:"swiftCode,omitempty"`
	IBAN               string     `json:"-"`
	VerificationStatus string     `json:"verificationStatus"`
	VerifiedBy         string     `json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	VerificationNote   string     `json:"verificationNote,omitempty"`
	IsActive           bool       `json:"isActive"`
	CreatedBy          string     `json:"createdBy"`
	UpdatedBy          string     `json:"updatedBy"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
	Version            int        `json:"version"`
}

func (a Account) Details() validation.BankDetails {
	return validation.BankDetails{
		CountryCode:       a.BankCountryCode,
		AccountNumber:     a.AccountNumber,
		RoutingNumber:     a.RoutingNumber,
		IFSCCode:          a.IFSCCode,
		SortCode:          a.SortCode,
		BSBCode:           a.BSBCode,
		TransitNumber:     a.TransitNumber,
		InstitutionNumber: a.InstitutionNumber,
		CLABE:             a.CLABE,
		SwiftCode:         a.SwiftCode,
		IBAN:              a.IBAN,
	}
}

// RoutingCode returns the authoritative routing field and value for the
// account's country.
func (a Account) RoutingCode() (string, string) {
	return validation.RoutingCode(a.Details())
}

// Request adds or edits an account. AccountNumber may be left blank when
// an IBAN is given; the IBAN then serves as the account number.
type Request struct {
	Purpose           string `json:"purpose" validate:"omitempty,oneof=SALARY REIMBURSEMENT BONUS ALL"`
	Priority          int    `json:"priority" validate:"gte=0"`
	IsPrimary         bool   `json:"isPrimary"`
	BankName          string `json:"bankName" validate:"max=200"`
	AccountHolderName string `json:"accountHolderName" validate:"required,max=200"`
	BankCountryCode   string `json:"bankCountryCode" validate:"required,len=3"`
	Currency          string `json:"currency" validate:"required,len=3"`
	AccountNumber     string `json:"accountNumber" validate:"required_without=IBAN,max=34"`
	RoutingNumber     string `json:"routingNumber" validate:"max=16"`
	IFSCCode          string `json:"ifscCode" validate:"max=16"`
	SortCode          string `json:"sortCode" validate:"max=16"`
	BSBCode           string `json:"bsbCode" validate:"max=16"`
	TransitNumber     string `json:"transitNumber" validate:"max=16"`
	InstitutionNumber string `json:"institutionNumber" validate:"max=16"`
	CLABE             string `json:"clabe" validate:"max=24"`
	SwiftCode         string `json:"swiftCode" validate:"max=16"`
	IBAN              string `json:"iban" validate:"max=42"`
}

// VerificationResult is an outcome reported by an external verification
// step such as micro-deposits.
type VerificationResult struct {
	Status string `json:"status" validate:"required,oneof=VERIFIED FAILED"`
	Note   string `json:"note" validate:"max=500"`
}
