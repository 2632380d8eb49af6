package onboarding

import "time"

const (
	StatusPendingOnboarding = "pending_onboarding"
	StatusActive            = "active"
)

// Onboarding steps in their fixed reporting order.
const (
	StepBasicInfo         = "basic_info"
	StepAddress           = "address"
	StepEmergencyContact  = "emergency_contact"
	StepIdentityDocuments = "identity_documents"
	StepBankAccount       = "bank_account"
	StepTaxInfo           = "tax_info"
)

var stepOrder = []string{
	StepBasicInfo,
	StepAddress,
	StepEmergencyContact,
	StepIdentityDocuments,
	StepBankAccount,
	StepTaxInfo,
}

// completionGate lists the steps Complete requires, in the order the first
// missing one is reported.
var completionGate = []string{
	StepAddress,
	StepEmergencyContact,
	StepIdentityDocuments,
	StepBankAccount,
}

type Employee struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	CountryCode string     `json:"countryCode"`
	TaxID       string     `json:"-"`
	TaxIDType   string     `json:"taxIdType,omitempty"`
	MaskedTaxID string     `json:"maskedTaxId,omitempty"`
	Status      string     `json:"status"`
	OnboardedAt *time.Time `json:"onboardedAt,omitempty"`
	OnboardedBy string     `json:"onboardedBy,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedBy   string     `json:"updatedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Version     int        `json:"version"`
}

// HasBasicInfo reports whether every basic-info field is filled in.
func (e Employee) HasBasicInfo() bool {
	return e.FirstName != "" && e.LastName != "" && e.Email != "" &&
		e.Phone != "" && e.DateOfBirth != nil && e.CountryCode != ""
}

type StartRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	CountryCode string `json:"countryCode" validate:"required,len=3"`
}

type BasicInfoRequest struct {
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email,max=254"`
	Phone       string     `json:"phone" validate:"required,max=32"`
	DateOfBirth *time.Time `json:"dateOfBirth" validate:"required"`
	CountryCode string     `json:"countryCode" validate:"required,len=3"`
	TaxID       string     `json:"taxId" validate:"max=32"`
	TaxIDType   string     `json:"taxIdType" validate:"max=16"`
}

// Snapshot is a point-in-time view of an employee's onboarding. It is
// always recomputed from the sub-record services.
type Snapshot struct {
	EmployeeID               string    `json:"employeeId"`
	Status                   string    `json:"status"`
	HasBasicInfo             bool      `json:"hasBasicInfo"`
	HasAddress               bool      `json:"hasAddress"`
	HasEmergencyContact      bool      `json:"hasEmergencyContact"`
	HasIdentityDocument      bool      `json:"hasIdentityDocument"`
	HasBankAccount           bool      `json:"hasBankAccount"`
	HasTaxInfo               bool      `json:"hasTaxInfo"`
	Percentage               int       `json:"percentage"`
	MissingSteps             []string  `json:"missingSteps"`
	MissingRequiredDocuments []string  `json:"missingRequiredDocuments"`
	CanComplete              bool      `json:"canComplete"`
	ComputedAt               time.Time `json:"computedAt"`
}

func (s Snapshot) done(step string) bool {
	switch step {
	case StepBasicInfo:
		return s.HasBasicInfo
	case StepAddress:
		return s.HasAddress
	case StepEmergencyContact:
		return s.HasEmergencyContact
	case StepIdentityDocuments:
		return s.HasIdentityDocument
	case StepBankAccount:
		return s.HasBankAccount
	case StepTaxInfo:
		return s.HasTaxInfo
	}
	return false
}
