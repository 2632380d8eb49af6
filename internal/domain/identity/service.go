package identity

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
	"hrcore/internal/domain/validation"
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

// List returns the employee's active documents, oldest first.
func (s *Service) List(ctx context.Context, tenantID, employeeID string) ([]Document, error) {
	return s.active(ctx, tenantID, employeeID)
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID, id string) (Document, error) {
	d, err := s.store.GetIdentityDocument(ctx, tenantID, id)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && d.EmployeeID != employeeID) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get identity document: %w", err)
	}
	return d, nil
}

// Expiring returns active documents that expire within days, soonest first.
func (s *Service) Expiring(ctx context.Context, tenantID, employeeID string, days int) ([]Document, error) {
	docs, err := s.active(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var out []Document
	for _, d := range docs {
		if d.IsExpiringWithinDays(now, days) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(*out[j].ExpiryDate) })
	return out, nil
}

func (s *Service) Add(ctx context.Context, tenantID, employeeID string, req Request, actor string) (Document, error) {
	if err := s.countFailure(apperr.ValidatePayload(req)); err != nil {
		return Document{}, err
	}
	t, ok := DocumentTypeByCode(req.DocumentTypeCode)
	if !ok {
		return Document{}, ErrDocumentTypeNotFound
	}
	number := normalizeNumber(req.DocumentNumber)
	if err := s.countFailure(s.checkDocument(t, number, req.IssueDate, req.ExpiryDate)); err != nil {
		return Document{}, err
	}

	var created Document
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		docs, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if d.DocumentTypeCode == t.Code {
				return ErrDuplicateDocumentType
			}
		}
		now := s.clock.Now()
		d := Document{
			ID:                 uuid.NewString(),
			EmployeeID:         employeeID,
			DocumentTypeCode:   t.Code,
			DocumentNumber:     number,
			MaskedNumber:       validation.Mask(number),
			IssueDate:          req.IssueDate,
			ExpiryDate:         req.ExpiryDate,
			VerificationStatus: StatusPending,
			IsActive:           true,
			CreatedBy:          actor,
			UpdatedBy:          actor,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		saved, err := s.store.SaveIdentityDocuments(ctx, tenantID, []Document{d})
		if err != nil {
			return err
		}
		created = saved[0]
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	slog.Info("identity document added", "tenant_id", tenantID, "employee_id", employeeID, "document_id", created.ID, "type", created.DocumentTypeCode, "number", created.MaskedNumber)
	return created, nil
}

// Update edits a document. Changing the number or either date starts a
// fresh verification cycle whatever the current status.
func (s *Service) Update(ctx context.Context, tenantID, employeeID, id string, req UpdateRequest, actor string) (Document, error) {
	if err := s.countFailure(apperr.ValidatePayload(req)); err != nil {
		return Document{}, err
	}
	var updated Document
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		d, err := s.activeByID(ctx, tenantID, employeeID, id)
		if err != nil {
			return err
		}
		t, ok := DocumentTypeByCode(d.DocumentTypeCode)
		if !ok {
			return ErrDocumentTypeNotFound
		}
		number := normalizeNumber(req.DocumentNumber)
		if err := s.countFailure(s.checkDocument(t, number, req.IssueDate, req.ExpiryDate)); err != nil {
			return err
		}
		reopen := number != d.DocumentNumber ||
			!sameDate(d.IssueDate, req.IssueDate) ||
			!sameDate(d.ExpiryDate, req.ExpiryDate)
		d.DocumentNumber = number
		d.MaskedNumber = validation.Mask(number)
		d.IssueDate = req.IssueDate
		d.ExpiryDate = req.ExpiryDate
		if reopen {
			d.VerificationStatus = StatusPending
			d.VerifiedBy = ""
			d.VerifiedAt = nil
			d.RejectionReason = ""
		}
		d.UpdatedBy = actor
		d.UpdatedAt = s.clock.Now()
		saved, err := s.store.SaveIdentityDocuments(ctx, tenantID, []Document{d})
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	return updated, err
}

func (s *Service) Delete(ctx context.Context, tenantID, employeeID, id, actor string) error {
	return s.transition(ctx, tenantID, employeeID, id, func(d *Document, _ time.Time) error {
		d.IsActive = false
		d.UpdatedBy = actor
		return nil
	})
}

// Verify approves or rejects a pending document. Each submission is
// decided once; a rejected document returns to review only when its
// number changes.
func (s *Service) Verify(ctx context.Context, tenantID, employeeID, id string, decision Decision, actor string) (Document, error) {
	if err := apperr.ValidatePayload(decision); err != nil {
		return Document{}, err
	}
	reason := strings.TrimSpace(decision.Reason)
	if !decision.Approve && reason == "" {
		return Document{}, ErrRejectionReason
	}
	var out Document
	err := s.transition(ctx, tenantID, employeeID, id, func(d *Document, now time.Time) error {
		if d.VerificationStatus != StatusPending {
			return ErrInvalidTransition
		}
		if decision.Approve {
			if d.IsExpired(now) {
				return ErrDocumentExpired
			}
			d.VerificationStatus = StatusVerified
			d.RejectionReason = ""
		} else {
			d.VerificationStatus = StatusRejected
			d.RejectionReason = reason
		}
		d.VerifiedBy = actor
		d.VerifiedAt = &now
		d.UpdatedBy = actor
		return nil
	}, &out)
	return out, err
}

// MarkNeedsUpdate flags a document for the employee to resubmit.
func (s *Service) MarkNeedsUpdate(ctx context.Context, tenantID, employeeID, id, reason, actor string) (Document, error) {
	var out Document
	err := s.transition(ctx, tenantID, employeeID, id, func(d *Document, _ time.Time) error {
		d.VerificationStatus = StatusNeedsUpdate
		d.RejectionReason = strings.TrimSpace(reason)
		d.UpdatedBy = actor
		return nil
	}, &out)
	return out, err
}

func (s *Service) MarkExpired(ctx context.Context, tenantID, employeeID, id, actor string) (Document, error) {
	var out Document
	err := s.transition(ctx, tenantID, employeeID, id, func(d *Document, _ time.Time) error {
		d.VerificationStatus = StatusExpired
		d.UpdatedBy = actor
		return nil
	}, &out)
	return out, err
}

// transition applies change to one active document under the category lock
// and stores the result in out when given.
func (s *Service) transition(ctx context.Context, tenantID, employeeID, id string, change func(*Document, time.Time) error, out ...*Document) error {
	return s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		d, err := s.activeByID(ctx, tenantID, employeeID, id)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if err := change(&d, now); err != nil {
			return err
		}
		d.UpdatedAt = now
		saved, err := s.store.SaveIdentityDocuments(ctx, tenantID, []Document{d})
		if err != nil {
			return err
		}
		if len(out) > 0 {
			*out[0] = saved[0]
		}
		return nil
	})
}

func (s *Service) checkDocument(t DocumentType, number string, issue, expiry *time.Time) error {
	if !t.Matches(number) {
		return formatError(fmt.Sprintf("Invalid %s number: expected %s", t.Name, t.Format))
	}
	if t.TaxIDType != "" {
		if o := validation.ValidateTaxID(number, t.CountryCode, t.TaxIDType); !o.Valid {
			return formatError(o.Message)
		}
	}
	if t.ExpiryRequired && expiry == nil {
		return ErrExpiryRequired
	}
	if issue != nil && issue.After(s.clock.Now()) {
		return ErrIssueInFuture
	}
	if issue != nil && expiry != nil && !expiry.After(*issue) {
		return ErrExpiryBeforeIssue
	}
	return nil
}

func formatError(message string) error {
	e := *ErrInvalidDocumentFormat
	e.Message = message
	return &e
}

func (s *Service) countFailure(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindValidation {
		s.metrics.ValidationFailed(Category, e.Field)
	}
	return err
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

func (s *Service) activeByID(ctx context.Context, tenantID, employeeID, id string) (Document, error) {
	d, err := s.Get(ctx, tenantID, employeeID, id)
	if err != nil {
		return Document{}, err
	}
	if !d.IsActive {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (s *Service) active(ctx context.Context, tenantID, employeeID string) ([]Document, error) {
	ok, err := s.store.EmployeeExists(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("check employee: %w", err)
	}
	if !ok {
		return nil, apperr.ErrEmployeeNotFound
	}
	all, err := s.store.ListIdentityDocuments(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list identity documents: %w", err)
	}
	out := make([]Document, 0, len(all))
	for _, d := range all {
		if d.IsActive {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
