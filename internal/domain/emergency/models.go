package emergency

import "time"

const Category = "emergency_contact"

const (
	RelationshipSpouse   = "SPOUSE"
	RelationshipPartner  = "PARTNER"
	RelationshipParent   = "PARENT"
	RelationshipChild    = "CHILD"
	RelationshipSibling  = "SIBLING"
	RelationshipGuardian = "GUARDIAN"
	RelationshipRelative = "RELATIVE"
	RelationshipFriend   = "FRIEND"
	RelationshipOther    = "OTHER"
)

// Contact is one emergency contact. Active contacts of an employee carry
// priorities 1..N and IsPrimary is true exactly for priority 1.
type Contact struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employeeId"`
	FullName          string    `json:"fullName"`
	Relationship      string    `json:"relationship"`
	RelationshipOther string    `json:"relationshipOther,omitempty"`
	PrimaryPhone      string    `json:"primaryPhone"`
	SecondaryPhone    string    `json:"secondaryPhone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	Priority          int       `json:"priority"`
	IsPrimary         bool      `json:"isPrimary"`
	IsActive          bool      `json:"isActive"`
	CreatedBy         string    `json:"createdBy"`
	UpdatedBy         string    `json:"updatedBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int       `json:"version"`
}

// Request adds or edits a contact. A zero Priority appends the contact
// after the existing ones.
type Request struct {
	FullName          string `json:"fullName" validate:"required,max=200"`
	Relationship      string `json:"relationship" validate:"required,oneof=SPOUSE PARTNER PARENT CHILD SIBLING GUARDIAN RELATIVE FRIEND OTHER"`
	RelationshipOther string `json:"relationshipOther" validate:"required_if=Relationship OTHER,max=100"`
	PrimaryPhone      string `json:"primaryPhone" validate:"required,max=32"`
	SecondaryPhone    string `json:"secondaryPhone" validate:"max=32"`
	Email             string `json:"email" validate:"omitempty,email,max=254"`
	Address           string `json:"address" validate:"max=500"`
	Priority          int    `json:"priority" validate:"gte=0"`
}
