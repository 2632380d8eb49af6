package banking

import "context"

// StoreAPI persists bank accounts. SaveBankAccounts is an atomic batch
// guarded by record versions.
type StoreAPI interface {
	EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error)
	GetBankAccount(ctx context.Context, tenantID, id string) (Account, error)
	ListBankAccounts(ctx context.Context, tenantID, employeeID string) ([]Account, error)
	SaveBankAccounts(ctx context.Context, tenantID string, accounts []Account) ([]Account, error)
}
