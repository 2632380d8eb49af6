package address

import "time"

const Category = "address"

const (
	TypeCurrent   = "CURRENT"
	TypePermanent = "PERMANENT"
	TypeMailing   = "MAILING"
	TypeWork      = "WORK"
	TypeTemporary = "TEMPORARY"
)

type Address struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	AddressType   string     `json:"addressType"`
	Line1         string     `json:"line1"`
	Line2         string     `json:"line2,omitempty"`
	City          string     `json:"city"`
	State         string     `json:"state,omitempty"`
	PostalCode    string     `json:"postalCode,omitempty"`
	CountryCode   string     `json:"countryCode"`
	IsPrimary     bool       `json:"isPrimary"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	IsVerified    bool       `json:"isVerified"`
	VerifiedBy    string     `json:"verifiedBy,omitempty"`
	VerifiedAt    *time.Time `json:"verifiedAt,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedBy     string     `json:"createdBy"`
	UpdatedBy     string     `json:"updatedBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Version       int        `json:"version"`
}

// InEffect reports whether the address validity window covers t.
func (a Address) InEffect(t time.Time) bool {
	if a.EffectiveFrom != nil && t.Before(*a.EffectiveFrom) {
		return false
	}
	if a.EffectiveTo != nil && t.After(*a.EffectiveTo) {
		return false
	}
	return true
}

type Request struct {
	AddressType   string     `json:"addressType" validate:"required,oneof=CURRENT PERMANENT MAILING WORK TEMPORARY"`
	Line1         string     `json:"line1" validate:"required,max=200"`
	Line2         string     `json:"line2" validate:"max=200"`
	City          string     `json:"city" validate:"required,max=100"`
	State         string     `json:"state" validate:"max=100"`
	PostalCode    string     `json:"postalCode" validate:"max=20"`
	CountryCode   string     `json:"countryCode" validate:"required,len=3"`
	IsPrimary     bool       `json:"isPrimary"`
	EffectiveFrom *time.Time `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo"`
}
