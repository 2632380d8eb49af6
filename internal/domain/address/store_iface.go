package address

import "context"

// StoreAPI persists addresses. SaveAddresses writes every record in one
// atomic batch: a record with Version 0 is inserted, any other must still
// carry the stored version or the whole batch fails with apperr.ErrConflict.
type StoreAPI interface {
	EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error)
	GetAddress(ctx context.Context, tenantID, id string) (Address, error)
	ListAddresses(ctx context.Context, tenantID, employeeID string) ([]Address, error)
	SaveAddresses(ctx context.Context, tenantID string, addresses []Address) ([]Address, error)
}
