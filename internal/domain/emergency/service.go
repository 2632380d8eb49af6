package emergency

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

// List returns the active contacts in priority order.
func (s *Service) List(ctx context.Context, tenantID, employeeID string) ([]Contact, error) {
	return s.active(ctx, tenantID, employeeID)
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID, id string) (Contact, error) {
	c, err := s.store.GetEmergencyContact(ctx, tenantID, id)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && c.EmployeeID != employeeID) {
		return Contact{}, ErrNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("get emergency contact: %w", err)
	}
	return c, nil
}

func (s *Service) Add(ctx context.Context, tenantID, employeeID string, req Request, actor string) (Contact, error) {
	if err := s.check(req); err != nil {
		return Contact{}, err
	}
	var created Contact
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		c := Contact{
			ID:         uuid.NewString(),
			EmployeeID: employeeID,
			IsActive:   true,
			CreatedBy:  actor,
			CreatedAt:  now,
		}
		apply(&c, req)
		order := insertAt(active, c, req.Priority)
		saved, err := s.store.SaveEmergencyContacts(ctx, tenantID, resequence(order, c.ID, actor, now))
		if err != nil {
			return err
		}
		created = find(saved, c.ID)
		return nil
	})
	if err != nil {
		return Contact{}, err
	}
	slog.Info("emergency contact added", "tenant_id", tenantID, "employee_id", employeeID, "contact_id", created.ID, "priority", created.Priority)
	return created, nil
}

// Update edits a contact. A non-zero Priority moves it to that position.
func (s *Service) Update(ctx context.Context, tenantID, employeeID, id string, req Request, actor string) (Contact, error) {
	if err := s.check(req); err != nil {
		return Contact{}, err
	}
	var updated Contact
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		c := active[idx]
		apply(&c, req)
		rest := without(active, idx)
		pos := req.Priority
		if pos == 0 {
			pos = c.Priority
		}
		order := insertAt(rest, c, pos)
		saved, err := s.store.SaveEmergencyContacts(ctx, tenantID, resequence(order, id, actor, s.clock.Now()))
		if err != nil {
			return err
		}
		updated = find(saved, id)
		return nil
	})
	return updated, err
}

// Delete deactivates a contact and closes the gap in the priorities. The
// last active contact cannot be deleted.
func (s *Service) Delete(ctx context.Context, tenantID, employeeID, id, actor string) error {
	return s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		if len(active) <= 1 {
			return ErrMinimumContacts
		}
		now := s.clock.Now()
		gone := active[idx]
		gone.IsActive = false
		gone.IsPrimary = false
		gone.UpdatedBy = actor
		gone.UpdatedAt = now
		batch := append([]Contact{gone}, resequence(without(active, idx), "", actor, now)...)
		_, err = s.store.SaveEmergencyContacts(ctx, tenantID, batch)
		return err
	})
}

// Reorder assigns priorities 1..N following ids, which must name every
// active contact exactly once.
func (s *Service) Reorder(ctx context.Context, tenantID, employeeID string, ids []string, actor string) ([]Contact, error) {
	var out []Contact
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		if len(ids) != len(active) {
			return ErrReorderMismatch
		}
		order := make([]Contact, 0, len(ids))
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			idx := indexOf(active, id)
			if idx < 0 || seen[id] {
				return ErrReorderMismatch
			}
			seen[id] = true
			order = append(order, active[idx])
		}
		batch := resequence(order, "", actor, s.clock.Now())
		if len(batch) > 0 {
			if _, err := s.store.SaveEmergencyContacts(ctx, tenantID, batch); err != nil {
				return err
			}
		}
		out, err = s.active(ctx, tenantID, employeeID)
		return err
	})
	return out, err
}

// SetPrimary moves a contact to priority 1, keeping the relative order of
// the others.
func (s *Service) SetPrimary(ctx context.Context, tenantID, employeeID, id, actor string) (Contact, error) {
	var updated Contact
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		if idx == 0 && active[0].IsPrimary {
			updated = active[0]
			return nil
		}
		order := insertAt(without(active, idx), active[idx], 1)
		saved, err := s.store.SaveEmergencyContacts(ctx, tenantID, resequence(order, id, actor, s.clock.Now()))
		if err != nil {
			return err
		}
		updated = find(saved, id)
		return nil
	})
	return updated, err
}

func (s *Service) check(req Request) error {
	err := apperr.ValidatePayload(req)
	if err == nil {
		err = checkPhone("primaryPhone", req.PrimaryPhone)
	}
	if err == nil && strings.TrimSpace(req.SecondaryPhone) != "" {
		err = checkPhone("secondaryPhone", req.SecondaryPhone)
	}
	if err != nil {
		var e *apperr.Error
		if errors.As(err, &e) {
			s.metrics.ValidationFailed(Category, e.Field)
		}
	}
	return err
}

func checkPhone(field, phone string) error {
	digits := 0
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(" +-().", r):
		default:
			return ErrInvalidPhone.WithField(field)
		}
	}
	if digits < 6 || digits > 15 {
		return ErrInvalidPhone.WithField(field)
	}
	return nil
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

// active loads the employee's active contacts sorted by priority.
func (s *Service) active(ctx context.Context, tenantID, employeeID string) ([]Contact, error) {
	ok, err := s.store.EmployeeExists(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("check employee: %w", err)
	}
	if !ok {
		return nil, apperr.ErrEmployeeNotFound
	}
	all, err := s.store.ListEmergencyContacts(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list emergency contacts: %w", err)
	}
	out := make([]Contact, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func apply(c *Contact, req Request) {
	c.FullName = strings.TrimSpace(req.FullName)
	c.Relationship = req.Relationship
	c.RelationshipOther = ""
	if req.Relationship == RelationshipOther {
		c.RelationshipOther = strings.TrimSpace(req.RelationshipOther)
	}
	c.PrimaryPhone = strings.TrimSpace(req.PrimaryPhone)
	c.SecondaryPhone = strings.TrimSpace(req.SecondaryPhone)
	c.Email = strings.ToLower(strings.TrimSpace(req.Email))
	c.Address = strings.TrimSpace(req.Address)
}

// resequence numbers order 1..N and returns the contacts whose priority or
// primary flag changed, plus touched even when it did not.
func resequence(order []Contact, touched, actor string, now time.Time) []Contact {
	var dirty []Contact
	for i, c := range order {
		priority := i + 1
		if c.Priority == priority && c.IsPrimary == (priority == 1) && c.ID != touched {
			continue
		}
		c.Priority = priority
		c.IsPrimary = priority == 1
		c.UpdatedBy = actor
		c.UpdatedAt = now
		dirty = append(dirty, c)
	}
	return dirty
}

// insertAt places c at 1-based position pos; zero or out-of-range
// positions append.
func insertAt(list []Contact, c Contact, pos int) []Contact {
	out := make([]Contact, 0, len(list)+1)
	if pos <= 0 || pos > len(list) {
		return append(append(out, list...), c)
	}
	out = append(out, list[:pos-1]...)
	out = append(out, c)
	return append(out, list[pos-1:]...)
}

func without(list []Contact, idx int) []Contact {
	out := make([]Contact, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

func indexOf(list []Contact, id string) int {
	for i, c := range list {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func find(list []Contact, id string) Contact {
	if idx := indexOf(list, id); idx >= 0 {
		return list[idx]
	}
	return Contact{}
}
