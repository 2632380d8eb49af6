package onboarding

//go:generate mockgen -source=store_iface.go -destination=mocks/mocks.go -package=mocks

import "context"

// EmployeeStore persists the employee record. SaveEmployee inserts when
// Version is 0 and otherwise fails with apperr.ErrConflict unless the
// stored version matches.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, tenantID, id string) (Employee, error)
	SaveEmployee(ctx context.Context, tenantID string, e Employee) (Employee, error)
}
