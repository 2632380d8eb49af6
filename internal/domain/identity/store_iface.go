package identity

import "context"

// StoreAPI persists identity documents. SaveIdentityDocuments is an atomic
// batch guarded by record versions.
type StoreAPI interface {
	EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error)
	GetIdentityDocument(ctx context.Context, tenantID, id string) (Document, error)
	ListIdentityDocuments(ctx context.Context, tenantID, employeeID string) ([]Document, error)
	SaveIdentityDocuments(ctx context.Context, tenantID string, docs []Document) ([]Document, error)
}
