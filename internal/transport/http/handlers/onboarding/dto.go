package onboardinghandler

import (
	"hrcore/internal/domain/address"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/transport/http/shared"
)

// Payloads carrying dates accept YYYY-MM-DD strings; the rest decode
// straight into the domain request types.

type addressPayload struct {
	AddressType   string `json:"addressType"`
	Line1         string `json:"line1"`
	Line2         string `json:"line2"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	CountryCode   string `json:"countryCode"`
	IsPrimary     bool   `json:"isPrimary"`
	EffectiveFrom string `json:"effectiveFrom"`
	EffectiveTo   string `json:"effectiveTo"`
}

func (p addressPayload) toRequest(v *shared.Validator) address.Request {
	return address.Request{
		AddressType:   p.AddressType,
		Line1:         p.Line1,
		Line2:         p.Line2,
		City:          p.City,
		State:         p.State,
		PostalCode:    p.PostalCode,
		CountryCode:   p.CountryCode,
		IsPrimary:     p.IsPrimary,
		EffectiveFrom: v.OptionalDate("effectiveFrom", p.EffectiveFrom),
		EffectiveTo:   v.OptionalDate("effectiveTo", p.EffectiveTo),
	}
}

type documentPayload struct {
	DocumentTypeCode string `json:"documentTypeCode"`
	DocumentNumber   string `json:"documentNumber"`
	IssueDate        string `json:"issueDate"`
	ExpiryDate       string `json:"expiryDate"`
}

func (p documentPayload) toRequest(v *shared.Validator) identity.Request {
	return identity.Request{
		DocumentTypeCode: p.DocumentTypeCode,
		DocumentNumber:   p.DocumentNumber,
		IssueDate:        v.OptionalDate("issueDate", p.IssueDate),
		ExpiryDate:       v.OptionalDate("expiryDate", p.ExpiryDate),
	}
}

func (p documentPayload) toUpdate(v *shared.Validator) identity.UpdateRequest {
	return identity.UpdateRequest{
		DocumentNumber: p.DocumentNumber,
		IssueDate:      v.OptionalDate("issueDate", p.IssueDate),
		ExpiryDate:     v.OptionalDate("expiryDate", p.ExpiryDate),
	}
}

type basicInfoPayload struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	CountryCode string `json:"countryCode"`
	TaxID       string `json:"taxId"`
	TaxIDType   string `json:"taxIdType"`
}

func (p basicInfoPayload) toRequest(v *shared.Validator) onboarding.BasicInfoRequest {
	return onboarding.BasicInfoRequest{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: v.OptionalDate("dateOfBirth", p.DateOfBirth),
		CountryCode: p.CountryCode,
		TaxID:       p.TaxID,
		TaxIDType:   p.TaxIDType,
	}
}

type reorderPayload struct {
	IDs []string `json:"ids"`
}

type reasonPayload struct {
	Reason string `json:"reason"`
}

type startResponse struct {
	Employee onboarding.Employee `json:"employee"`
	Snapshot onboarding.Snapshot `json:"onboarding"`
}
