package emergency

import "context"

// StoreAPI persists emergency contacts. SaveEmergencyContacts is an atomic
// batch guarded by record versions, see address.StoreAPI.
type StoreAPI interface {
	EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error)
	GetEmergencyContact(ctx context.Context, tenantID, id string) (Contact, error)
	ListEmergencyContacts(ctx context.Context, tenantID, employeeID string) ([]Contact, error)
	SaveEmergencyContacts(ctx context.Context, tenantID string, contacts []Contact) ([]Contact, error)
}
