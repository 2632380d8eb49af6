package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hrcore/internal/domain/address"
	"hrcore/internal/domain/apperr"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/validation"
	"hrcore/internal/platform/clock"
	"hrcore/internal/platform/lock"
	"hrcore/internal/platform/metrics"
)

const employeeCategory = "employee"

// gateCategories are the sub-record locks Complete holds, in acquisition
// order. Sub-record services take only their own key.
var gateCategories = []string{address.Category, emergency.Category, identity.Category, banking.Category}

type Addresses interface {
	Add(ctx context.Context, tenantID, employeeID string, req address.Request, actor string) (address.Address, error)
	List(ctx context.Context, tenantID, employeeID string) ([]address.Address, error)
}

type EmergencyContacts interface {
	Add(ctx context.Context, tenantID, employeeID string, req emergency.Request, actor string) (emergency.Contact, error)
	List(ctx context.Context, tenantID, employeeID string) ([]emergency.Contact, error)
}

type IdentityDocuments interface {
	Add(ctx context.Context, tenantID, employeeID string, req identity.Request, actor string) (identity.Document, error)
	List(ctx context.Context, tenantID, employeeID string) ([]identity.Document, error)
}

type BankAccounts interface {
	Add(ctx context.Context, tenantID, employeeID string, req banking.Request, actor string) (banking.Account, error)
	List(ctx context.Context, tenantID, employeeID string) ([]banking.Account, error)
}

type Deps struct {
	Employees EmployeeStore
	Addresses Addresses
	Contacts  EmergencyContacts
	Documents IdentityDocuments
	Accounts  BankAccounts
	Locker    lock.Locker
	Clock     clock.Clock
	Metrics   *metrics.Collector
}

// Service drives an employee through onboarding. Every step delegates to
// the owning sub-record service and answers with a fresh Snapshot.
type Service struct {
	employees EmployeeStore
	addresses Addresses
	contacts  EmergencyContacts
	documents IdentityDocuments
	accounts  BankAccounts
	locker    lock.Locker
	clock     clock.Clock
	metrics   *metrics.Collector
}

func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.System{}
	}
	if d.Locker == nil {
		d.Locker = lock.NewKeyedMutex()
	}
	return &Service{
		employees: d.Employees,
		addresses: d.Addresses,
		contacts:  d.Contacts,
		documents: d.Documents,
		accounts:  d.Accounts,
		locker:    d.Locker,
		clock:     d.Clock,
		metrics:   d.Metrics,
	}
}

// Start creates an employee in pending_onboarding.
func (s *Service) Start(ctx context.Context, tenantID string, req StartRequest, actor string) (Employee, Snapshot, error) {
	if err := apperr.ValidatePayload(req); err != nil {
		return Employee{}, Snapshot{}, err
	}
	now := s.clock.Now()
	e := Employee{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		CountryCode: strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		Status:      StatusPendingOnboarding,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	saved, err := s.employees.SaveEmployee(ctx, tenantID, e)
	if errors.Is(err, apperr.ErrConflict) {
		return Employee{}, Snapshot{}, ErrDuplicateEmployee
	}
	if err != nil {
		return Employee{}, Snapshot{}, fmt.Errorf("save employee: %w", err)
	}
	slog.Info("onboarding started", "tenant_id", tenantID, "employee_id", saved.ID)
	snap, err := s.Status(ctx, tenantID, saved.ID)
	return saved, snap, err
}

// UpdateBasicInfo replaces the employee's basic information. A tax id,
// when given, must pass the country's tax id rules.
func (s *Service) UpdateBasicInfo(ctx context.Context, tenantID, employeeID string, req BasicInfoRequest, actor string) (Snapshot, error) {
	if err := apperr.ValidatePayload(req); err != nil {
		return Snapshot{}, err
	}
	if !req.DateOfBirth.Before(clock.Today(s.clock)) {
		return Snapshot{}, ErrInvalidDateOfBirth
	}
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	taxID, taxIDType := "", ""
	if strings.TrimSpace(req.TaxID) != "" {
		taxIDType = strings.ToUpper(strings.TrimSpace(req.TaxIDType))
		if taxIDType == "" {
			if types := validation.TaxIDTypes(country); len(types) > 0 {
				taxIDType = types[0]
			}
		}
		if o := validation.ValidateTaxID(req.TaxID, country, taxIDType); !o.Valid {
			s.metrics.ValidationFailed(employeeCategory, o.Field)
			return Snapshot{}, o.Err()
		}
		taxID = validation.NormalizeTaxID(req.TaxID, country, taxIDType)
	}

	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		e, err := s.employee(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		e.FirstName = strings.TrimSpace(req.FirstName)
		e.LastName = strings.TrimSpace(req.LastName)
		e.Email = strings.ToLower(strings.TrimSpace(req.Email))
		e.Phone = strings.TrimSpace(req.Phone)
		e.DateOfBirth = req.DateOfBirth
		e.CountryCode = country
		e.TaxID = taxID
		e.TaxIDType = taxIDType
		e.MaskedTaxID = validation.Mask(taxID)
		e.UpdatedBy = actor
		e.UpdatedAt = s.clock.Now()
		_, err = s.employees.SaveEmployee(ctx, tenantID, e)
		return err
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.Status(ctx, tenantID, employeeID)
}

func (s *Service) AddAddress(ctx context.Context, tenantID, employeeID string, req address.Request, actor string) (Snapshot, error) {
	if _, err := s.addresses.Add(ctx, tenantID, employeeID, req, actor); err != nil {
		return Snapshot{}, err
	}
	return s.Status(ctx, tenantID, employeeID)
}

func (s *Service) AddEmergencyContact(ctx context.Context, tenantID, employeeID string, req emergency.Request, actor string) (Snapshot, error) {
	if _, err := s.contacts.Add(ctx, tenantID, employeeID, req, actor); err != nil {
		return Snapshot{}, err
	}
	return s.Status(ctx, tenantID, employeeID)
}

func (s *Service) AddIdentityDocument(ctx context.Context, tenantID, employeeID string, req identity.Request, actor string) (Snapshot, error) {
	if _, err := s.documents.Add(ctx, tenantID, employeeID, req, actor); err != nil {
		return Snapshot{}, err
	}
	return s.Status(ctx, tenantID, employeeID)
}

func (s *Service) AddBankAccount(ctx context.Context, tenantID, employeeID string, req banking.Request, actor string) (Snapshot, error) {
	if _, err := s.accounts.Add(ctx, tenantID, employeeID, req, actor); err != nil {
		return Snapshot{}, err
	}
	return s.Status(ctx, tenantID, employeeID)
}

// Status recomputes the onboarding snapshot of an employee.
func (s *Service) Status(ctx context.Context, tenantID, employeeID string) (Snapshot, error) {
	e, err := s.employee(ctx, tenantID, employeeID)
	if err != nil {
		return Snapshot{}, err
	}
	recs, err := s.load(ctx, tenantID, employeeID)
	if err != nil {
		return Snapshot{}, err
	}
	return buildSnapshot(e, recs, s.clock.Now()), nil
}

// Complete moves an employee to active once address, emergency contact,
// identity document and bank account are all on file. It fails naming the
// first missing of those steps, and is a no-op for an active employee.
// The gating categories stay locked until the status is saved.
func (s *Service) Complete(ctx context.Context, tenantID, employeeID, actor string) (Snapshot, error) {
	completed := false
	err := s.guardedAll(ctx, tenantID, employeeID, gateCategories, func(ctx context.Context) error {
		e, err := s.employee(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		if e.Status == StatusActive {
			return nil
		}
		recs, err := s.load(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		snap := buildSnapshot(e, recs, s.clock.Now())
		for _, step := range completionGate {
			if !snap.done(step) {
				return apperr.Incomplete(step)
			}
		}
		now := s.clock.Now()
		e.Status = StatusActive
		e.OnboardedAt = &now
		e.OnboardedBy = actor
		e.UpdatedBy = actor
		e.UpdatedAt = now
		if _, err := s.employees.SaveEmployee(ctx, tenantID, e); err != nil {
			return err
		}
		completed = true
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	if completed {
		s.metrics.OnboardingCompleted()
		slog.Info("onboarding completed", "tenant_id", tenantID, "employee_id", employeeID, "actor", actor)
	}
	return s.Status(ctx, tenantID, employeeID)
}

// records holds the active sub-records of one employee.
type records struct {
	addresses []address.Address
	contacts  []emergency.Contact
	documents []identity.Document
	accounts  []banking.Account
}

// load reads the four sub-record categories concurrently.
func (s *Service) load(ctx context.Context, tenantID, employeeID string) (records, error) {
	var r records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.addresses, err = s.addresses.List(gctx, tenantID, employeeID)
		return err
	})
	g.Go(func() (err error) {
		r.contacts, err = s.contacts.List(gctx, tenantID, employeeID)
		return err
	})
	g.Go(func() (err error) {
		r.documents, err = s.documents.List(gctx, tenantID, employeeID)
		return err
	})
	g.Go(func() (err error) {
		r.accounts, err = s.accounts.List(gctx, tenantID, employeeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return records{}, err
	}
	return r, nil
}

func buildSnapshot(e Employee, r records, now time.Time) Snapshot {
	snap := Snapshot{
		EmployeeID:          e.ID,
		Status:              e.Status,
		HasBasicInfo:        e.HasBasicInfo(),
		HasAddress:          len(r.addresses) > 0,
		HasEmergencyContact: len(r.contacts) > 0,
		HasIdentityDocument: len(r.documents) > 0,
		HasBankAccount:      len(r.accounts) > 0,
		HasTaxInfo:          e.TaxID != "" || hasTaxDocument(r.documents),
		MissingSteps:        []string{},
		ComputedAt:          now,
	}
	done := 0
	for _, step := range stepOrder {
		if snap.done(step) {
			done++
		} else {
			snap.MissingSteps = append(snap.MissingSteps, step)
		}
	}
	snap.Percentage = done * 100 / len(stepOrder)
	snap.MissingRequiredDocuments = missingRequired(e.CountryCode, r.documents)
	snap.CanComplete = e.Status != StatusActive
	for _, step := range completionGate {
		if !snap.done(step) {
			snap.CanComplete = false
		}
	}
	return snap
}

func hasTaxDocument(docs []identity.Document) bool {
	for _, d := range docs {
		if t, ok := identity.DocumentTypeByCode(d.DocumentTypeCode); ok && t.Category == identity.CategoryTaxID {
			return true
		}
	}
	return false
}

func missingRequired(country string, docs []identity.Document) []string {
	onFile := make(map[string]bool, len(docs))
	for _, d := range docs {
		onFile[d.DocumentTypeCode] = true
	}
	out := []string{}
	for _, t := range identity.RequiredDocumentsForOnboarding(country) {
		if !onFile[t.Code] {
			out = append(out, t.Code)
		}
	}
	return out
}

func (s *Service) employee(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	e, err := s.employees.GetEmployee(ctx, tenantID, employeeID)
	if errors.Is(err, apperr.ErrNotFound) {
		return Employee{}, apperr.ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (s *Service) guarded(ctx context.Context, tenantID, employeeID string, fn func(context.Context) error) error {
	return s.guardedAll(ctx, tenantID, employeeID, nil, fn)
}

// guardedAll holds the employee key, then each of extra in order.
func (s *Service) guardedAll(ctx context.Context, tenantID, employeeID string, extra []string, fn func(context.Context) error) error {
	keys := []string{lock.Key(tenantID, employeeID, employeeCategory)}
	for _, category := range extra {
		keys = append(keys, lock.Key(tenantID, employeeID, category))
	}
	return lock.WithAll(ctx, s.locker, keys, func(ctx context.Context) error {
		tries := 0
		return apperr.RetryOnConflict(ctx, func(ctx context.Context) error {
			if tries++; tries > 1 {
				s.metrics.ConflictRetried(employeeCategory)
			}
			return fn(ctx)
		})
	})
}
