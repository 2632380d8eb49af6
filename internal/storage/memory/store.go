// Package memory is a process-local record store used when no database is
// configured, and by tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"hrcore/internal/domain/address"
	"hrcore/internal/domain/apperr"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
)

var errMissingID = errors.New("memory: record has no id")

var (
	_ address.StoreAPI         = (*Store)(nil)
	_ emergency.StoreAPI       = (*Store)(nil)
	_ identity.StoreAPI        = (*Store)(nil)
	_ banking.StoreAPI         = (*Store)(nil)
	_ onboarding.EmployeeStore = (*Store)(nil)
)

type key struct {
	tenant string
	id     string
}

type row[T any] struct {
	val T
	seq int64
}

// accessor exposes the bookkeeping fields of a record type.
type accessor[T any] struct {
	id         func(T) string
	employee   func(T) string
	version    func(T) int
	setVersion func(*T, int)
}

// Store keeps every record type in maps guarded by one mutex, so a batch
// save is atomic and versions are checked before anything is written.
type Store struct {
	mu        sync.RWMutex
	seq       int64
	employees map[key]row[onboarding.Employee]
	addresses map[key]row[address.Address]
	contacts  map[key]row[emergency.Contact]
	documents map[key]row[identity.Document]
	accounts  map[key]row[banking.Account]
}

func New() *Store {
	return &Store{
		employees: make(map[key]row[onboarding.Employee]),
		addresses: make(map[key]row[address.Address]),
		contacts:  make(map[key]row[emergency.Contact]),
		documents: make(map[key]row[identity.Document]),
		accounts:  make(map[key]row[banking.Account]),
	}
}

var (
	employeeAccess = accessor[onboarding.Employee]{
		id:         func(e onboarding.Employee) string { return e.ID },
		employee:   func(e onboarding.Employee) string { return e.ID },
		version:    func(e onboarding.Employee) int { return e.Version },
		setVersion: func(e *onboarding.Employee, v int) { e.Version = v },
	}
	addressAccess = accessor[address.Address]{
		id:         func(a address.Address) string { return a.ID },
		employee:   func(a address.Address) string { return a.EmployeeID },
		version:    func(a address.Address) int { return a.Version },
		setVersion: func(a *address.Address, v int) { a.Version = v },
	}
	contactAccess = accessor[emergency.Contact]{
		id:         func(c emergency.Contact) string { return c.ID },
		employee:   func(c emergency.Contact) string { return c.EmployeeID },
		version:    func(c emergency.Contact) int { return c.Version },
		setVersion: func(c *emergency.Contact, v int) { c.Version = v },
	}
	documentAccess = accessor[identity.Document]{
		id:         func(d identity.Document) string { return d.ID },
		employee:   func(d identity.Document) string { return d.EmployeeID },
		version:    func(d identity.Document) int { return d.Version },
		setVersion: func(d *identity.Document, v int) { d.Version = v },
	}
	accountAccess = accessor[banking.Account]{
		id:         func(a banking.Account) string { return a.ID },
		employee:   func(a banking.Account) string { return a.EmployeeID },
		version:    func(a banking.Account) int { return a.Version },
		setVersion: func(a *banking.Account, v int) { a.Version = v },
	}
)

func (s *Store) EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.employees[key{tenantID, employeeID}]
	return ok, nil
}

func (s *Store) GetEmployee(ctx context.Context, tenantID, id string) (onboarding.Employee, error) {
	return get(ctx, &s.mu, s.employees, tenantID, id)
}

func (s *Store) SaveEmployee(ctx context.Context, tenantID string, e onboarding.Employee) (onboarding.Employee, error) {
	saved, err := save(ctx, s, s.employees, tenantID, []onboarding.Employee{e}, employeeAccess)
	if err != nil {
		return onboarding.Employee{}, err
	}
	return saved[0], nil
}

func (s *Store) GetAddress(ctx context.Context, tenantID, id string) (address.Address, error) {
	return get(ctx, &s.mu, s.addresses, tenantID, id)
}

func (s *Store) ListAddresses(ctx context.Context, tenantID, employeeID string) ([]address.Address, error) {
	return list(ctx, &s.mu, s.addresses, tenantID, employeeID, addressAccess)
}

func (s *Store) SaveAddresses(ctx context.Context, tenantID string, addresses []address.Address) ([]address.Address, error) {
	return save(ctx, s, s.addresses, tenantID, addresses, addressAccess)
}

func (s *Store) GetEmergencyContact(ctx context.Context, tenantID, id string) (emergency.Contact, error) {
	return get(ctx, &s.mu, s.contacts, tenantID, id)
}

func (s *Store) ListEmergencyContacts(ctx context.Context, tenantID, employeeID string) ([]emergency.Contact, error) {
	return list(ctx, &s.mu, s.contacts, tenantID, employeeID, contactAccess)
}

func (s *Store) SaveEmergencyContacts(ctx context.Context, tenantID string, contacts []emergency.Contact) ([]emergency.Contact, error) {
	return save(ctx, s, s.contacts, tenantID, contacts, contactAccess)
}

func (s *Store) GetIdentityDocument(ctx context.Context, tenantID, id string) (identity.Document, error) {
	return get(ctx, &s.mu, s.documents, tenantID, id)
}

func (s *Store) ListIdentityDocuments(ctx context.Context, tenantID, employeeID string) ([]identity.Document, error) {
	return list(ctx, &s.mu, s.documents, tenantID, employeeID, documentAccess)
}

func (s *Store) SaveIdentityDocuments(ctx context.Context, tenantID string, docs []identity.Document) ([]identity.Document, error) {
	return save(ctx, s, s.documents, tenantID, docs, documentAccess)
}

func (s *Store) GetBankAccount(ctx context.Context, tenantID, id string) (banking.Account, error) {
	return get(ctx, &s.mu, s.accounts, tenantID, id)
}

func (s *Store) ListBankAccounts(ctx context.Context, tenantID, employeeID string) ([]banking.Account, error) {
	return list(ctx, &s.mu, s.accounts, tenantID, employeeID, accountAccess)
}

func (s *Store) SaveBankAccounts(ctx context.Context, tenantID string, accounts []banking.Account) ([]banking.Account, error) {
	return save(ctx, s, s.accounts, tenantID, accounts, accountAccess)
}

func get[T any](ctx context.Context, mu *sync.RWMutex, rows map[key]row[T], tenantID, id string) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	mu.RLock()
	defer mu.RUnlock()
	r, ok := rows[key{tenantID, id}]
	if !ok {
		return zero, apperr.ErrNotFound
	}
	return r.val, nil
}

// list returns an employee's records in insertion order.
func list[T any](ctx context.Context, mu *sync.RWMutex, rows map[key]row[T], tenantID, employeeID string, acc accessor[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mu.RLock()
	var matched []row[T]
	for k, r := range rows {
		if k.tenant == tenantID && acc.employee(r.val) == employeeID {
			matched = append(matched, r)
		}
	}
	mu.RUnlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	out := make([]T, len(matched))
	for i, r := range matched {
		out[i] = r.val
	}
	return out, nil
}

// save writes batch atomically: every version is checked before any row
// changes. Version 0 inserts; otherwise the stored version must match.
func save[T any](ctx context.Context, s *Store, rows map[key]row[T], tenantID string, batch []T, acc accessor[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(batch))
	for _, rec := range batch {
		id := acc.id(rec)
		if id == "" {
			return nil, errMissingID
		}
		if seen[id] {
			return nil, apperr.ErrConflict
		}
		seen[id] = true
		cur, exists := rows[key{tenantID, id}]
		switch v := acc.version(rec); {
		case v == 0 && exists:
			return nil, apperr.ErrConflict
		case v != 0 && (!exists || acc.version(cur.val) != v):
			return nil, apperr.ErrConflict
		}
	}

	out := make([]T, len(batch))
	for i, rec := range batch {
		k := key{tenantID, acc.id(rec)}
		acc.setVersion(&rec, acc.version(rec)+1)
		seq := rows[k].seq
		if seq == 0 {
			s.seq++
			seq = s.seq
		}
		rows[k] = row[T]{val: rec, seq: seq}
		out[i] = rec
	}
	return out, nil
}
