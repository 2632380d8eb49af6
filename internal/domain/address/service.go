package address

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrcore/internal/domain/apperr"
	"hrcore/internal/platform/clock"
	"hrcore/internal/platform/lock"
	"hrcore/internal/platform/metrics"
)

type Service struct {
	store   StoreAPI
	locker  lock.Locker
	clock   clock.Clock
	metrics *metrics.Collector
}

func NewService(store StoreAPI, locker lock.Locker, clk clock.Clock, m *metrics.Collector) *Service {
	return &Service{store: store, locker: locker, clock: clk, metrics: m}
}

// List returns the employee's active addresses, primary first.
func (s *Service) List(ctx context.Context, tenantID, employeeID string) ([]Address, error) {
	all, err := s.listAll(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	active := activeOnly(all)
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].IsPrimary != active[j].IsPrimary {
			return active[i].IsPrimary
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active, nil
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID, id string) (Address, error) {
	a, err := s.store.GetAddress(ctx, tenantID, id)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && a.EmployeeID != employeeID) {
		return Address{}, ErrNotFound
	}
	if err != nil {
		return Address{}, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

func (s *Service) Add(ctx context.Context, tenantID, employeeID string, req Request, actor string) (Address, error) {
	if err := s.check(req); err != nil {
		return Address{}, err
	}
	var created Address
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		all, err := s.listAll(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		active := activeOnly(all)
		if hasType(active, req.AddressType, "") {
			return ErrDuplicateAddressType
		}
		now := s.clock.Now()
		a := Address{
			ID:         uuid.NewString(),
			EmployeeID: employeeID,
			IsActive:   true,
			CreatedBy:  actor,
			CreatedAt:  now,
		}
		apply(&a, req)
		a.UpdatedBy = actor
		a.UpdatedAt = now
		a.IsPrimary = req.IsPrimary || primaryOf(active) == nil

		batch := []Address{a}
		if a.IsPrimary {
			batch = append(batch, demote(active, a.ID, actor, now)...)
		}
		saved, err := s.store.SaveAddresses(ctx, tenantID, batch)
		if err != nil {
			return err
		}
		created = saved[0]
		return nil
	})
	if err != nil {
		return Address{}, err
	}
	slog.Info("address added", "tenant_id", tenantID, "employee_id", employeeID, "address_id", created.ID, "type", created.AddressType)
	return created, nil
}

// Update replaces the address fields. Changing any location field clears
// its verification. IsPrimary can only promote; demotion happens by
// promoting another address.
func (s *Service) Update(ctx context.Context, tenantID, employeeID, id string, req Request, actor string) (Address, error) {
	if err := s.check(req); err != nil {
		return Address{}, err
	}
	var updated Address
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		all, err := s.listAll(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		active := activeOnly(all)
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		if hasType(active, req.AddressType, id) {
			return ErrDuplicateAddressType
		}
		now := s.clock.Now()
		a := active[idx]
		before := a
		apply(&a, req)
		if locationChanged(before, a) {
			a.IsVerified = false
			a.VerifiedBy = ""
			a.VerifiedAt = nil
		}
		a.UpdatedBy = actor
		a.UpdatedAt = now

		batch := []Address{a}
		if req.IsPrimary && !before.IsPrimary {
			a.IsPrimary = true
			batch[0] = a
			batch = append(batch, demote(active, id, actor, now)...)
		}
		saved, err := s.store.SaveAddresses(ctx, tenantID, batch)
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	if err != nil {
		return Address{}, err
	}
	return updated, nil
}

// SetPrimary makes id the employee's only primary address.
func (s *Service) SetPrimary(ctx context.Context, tenantID, employeeID, id, actor string) (Address, error) {
	var updated Address
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		all, err := s.listAll(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		active := activeOnly(all)
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		if active[idx].IsPrimary {
			updated = active[idx]
			return nil
		}
		now := s.clock.Now()
		a := active[idx]
		a.IsPrimary = true
		a.UpdatedBy = actor
		a.UpdatedAt = now
		saved, err := s.store.SaveAddresses(ctx, tenantID, append([]Address{a}, demote(active, id, actor, now)...))
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	return updated, err
}

// Delete deactivates an address. When it was the primary, the oldest
// remaining active address takes over.
func (s *Service) Delete(ctx context.Context, tenantID, employeeID, id, actor string) error {
	return s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		all, err := s.listAll(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		active := activeOnly(all)
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		now := s.clock.Now()
		a := active[idx]
		wasPrimary := a.IsPrimary
		a.IsActive = false
		a.IsPrimary = false
		a.UpdatedBy = actor
		a.UpdatedAt = now
		batch := []Address{a}

		if wasPrimary {
			rest := append(active[:idx:idx], active[idx+1:]...)
			sort.SliceStable(rest, func(i, j int) bool { return rest[i].CreatedAt.Before(rest[j].CreatedAt) })
			if len(rest) > 0 {
				next := rest[0]
				next.IsPrimary = true
				next.UpdatedBy = actor
				next.UpdatedAt = now
				batch = append(batch, next)
			}
		}
		_, err = s.store.SaveAddresses(ctx, tenantID, batch)
		return err
	})
}

// Verify records that actor confirmed the address.
func (s *Service) Verify(ctx context.Context, tenantID, employeeID, id, actor string) (Address, error) {
	var updated Address
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		a, err := s.Get(ctx, tenantID, employeeID, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return ErrNotFound
		}
		now := s.clock.Now()
		a.IsVerified = true
		a.VerifiedBy = actor
		a.VerifiedAt = &now
		a.UpdatedBy = actor
		a.UpdatedAt = now
		saved, err := s.store.SaveAddresses(ctx, tenantID, []Address{a})
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	return updated, err
}

func (s *Service) check(req Request) error {
	if err := apperr.ValidatePayload(req); err != nil {
		s.countFailure(err)
		return err
	}
	if req.EffectiveFrom != nil && req.EffectiveTo != nil && req.EffectiveTo.Before(*req.EffectiveFrom) {
		s.countFailure(ErrInvalidWindow)
		return ErrInvalidWindow
	}
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if err := checkPostalCode(normalizePostal(req.PostalCode), country); err != nil {
		s.countFailure(err)
		return err
	}
	return nil
}

func (s *Service) countFailure(err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		s.metrics.ValidationFailed(Category, e.Field)
	}
}

func (s *Service) guarded(ctx context.Context, tenantID, employeeID string, fn func(context.Context) error) error {
	return lock.With(ctx, s.locker, lock.Key(tenantID, employeeID, Category), func(ctx context.Context) error {
		tries := 0
		return apperr.RetryOnConflict(ctx, func(ctx context.Context) error {
			if tries++; tries > 1 {
				s.metrics.ConflictRetried(Category)
			}
			return fn(ctx)
		})
	})
}

func (s *Service) listAll(ctx context.Context, tenantID, employeeID string) ([]Address, error) {
	ok, err := s.store.EmployeeExists(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("check employee: %w", err)
	}
	if !ok {
		return nil, apperr.ErrEmployeeNotFound
	}
	all, err := s.store.ListAddresses(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return all, nil
}

func apply(a *Address, req Request) {
	a.AddressType = req.AddressType
	a.Line1 = strings.TrimSpace(req.Line1)
	a.Line2 = strings.TrimSpace(req.Line2)
	a.City = strings.TrimSpace(req.City)
	a.State = strings.TrimSpace(req.State)
	a.PostalCode = normalizePostal(req.PostalCode)
	a.CountryCode = strings.ToUpper(strings.TrimSpace(req.CountryCode))
	a.EffectiveFrom = req.EffectiveFrom
	a.EffectiveTo = req.EffectiveTo
}

func locationChanged(a, b Address) bool {
	return a.Line1 != b.Line1 || a.Line2 != b.Line2 || a.City != b.City ||
		a.State != b.State || a.PostalCode != b.PostalCode || a.CountryCode != b.CountryCode
}

// demote clears the primary flag on every active address except keep.
func demote(active []Address, keep, actor string, now time.Time) []Address {
	var out []Address
	for _, a := range active {
		if a.ID == keep || !a.IsPrimary {
			continue
		}
		a.IsPrimary = false
		a.UpdatedBy = actor
		a.UpdatedAt = now
		out = append(out, a)
	}
	return out
}

func activeOnly(all []Address) []Address {
	out := make([]Address, 0, len(all))
	for _, a := range all {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out
}

func primaryOf(active []Address) *Address {
	for i := range active {
		if active[i].IsPrimary {
			return &active[i]
		}
	}
	return nil
}

func hasType(active []Address, addressType, exceptID string) bool {
	for _, a := range active {
		if a.AddressType == addressType && a.ID != exceptID {
			return true
		}
	}
	return false
}

func indexOf(active []Address, id string) int {
	for i, a := range active {
		if a.ID == id {
			return i
		}
	}
	return -1
}
