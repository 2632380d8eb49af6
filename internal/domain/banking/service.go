package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

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

// List returns the active accounts in priority order.
func (s *Service) List(ctx context.Context, tenantID, employeeID string) ([]Account, error) {
	return s.active(ctx, tenantID, employeeID)
}

func (s *Service) Get(ctx context.Context, tenantID, employeeID, id string) (Account, error) {
	a, err := s.store.GetBankAccount(ctx, tenantID, id)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && a.EmployeeID != employeeID) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

// ForPurpose resolves the account a payout of purpose goes to: the active
// account with the lowest priority whose purpose matches or is ALL.
func (s *Service) ForPurpose(ctx context.Context, tenantID, employeeID, purpose string) (Account, error) {
	purpose = strings.ToUpper(strings.TrimSpace(purpose))
	switch purpose {
	case PurposeSalary, PurposeReimbursement, PurposeBonus, PurposeAll:
	default:
		return Account{}, apperr.Validation("purpose", "Purpose must be one of: SALARY REIMBURSEMENT BONUS ALL")
	}
	accounts, err := s.active(ctx, tenantID, employeeID)
	if err != nil {
		return Account{}, err
	}
	for _, a := range accounts {
		if purpose == PurposeAll || a.Purpose == purpose || a.Purpose == PurposeAll {
			return a, nil
		}
	}
	return Account{}, ErrNoAccountForPurpose
}

// Add validates and stores a new account in PENDING verification. The
// first account of an employee becomes primary.
func (s *Service) Add(ctx context.Context, tenantID, employeeID string, req Request, actor string) (Account, error) {
	var a Account
	if err := s.prepare(&a, req); err != nil {
		return Account{}, err
	}
	var created Account
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		if err := checkUnique(active, a.AccountNumber, req.Priority, ""); err != nil {
			return err
		}
		now := s.clock.Now()
		acct := a
		acct.ID = uuid.NewString()
		acct.EmployeeID = employeeID
		acct.Priority = req.Priority
		if acct.Priority == 0 {
			acct.Priority = maxPriority(active) + 1
		}
		acct.IsPrimary = req.IsPrimary || len(active) == 0
		acct.VerificationStatus = StatusPending
		acct.IsActive = true
		acct.CreatedBy = actor
		acct.UpdatedBy = actor
		acct.CreatedAt = now
		acct.UpdatedAt = now

		batch := []Account{acct}
		if acct.IsPrimary {
			batch = append(batch, demote(active, acct.ID, actor, now)...)
		}
		saved, err := s.store.SaveBankAccounts(ctx, tenantID, batch)
		if err != nil {
			return err
		}
		created = saved[0]
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	field, _ := created.RoutingCode()
	slog.Info("bank account added", "tenant_id", tenantID, "employee_id", employeeID, "account_id", created.ID, "account", created.MaskedNumber, "routing_field", field)
	return created, nil
}

// Update replaces the account details. Any change to the account number,
// country or routing fields sends the account back to PENDING and clears
// the previous verification.
func (s *Service) Update(ctx context.Context, tenantID, employeeID, id string, req Request, actor string) (Account, error) {
	var next Account
	if err := s.prepare(&next, req); err != nil {
		return Account{}, err
	}
	var updated Account
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
		idx := indexOf(active, id)
		if idx < 0 {
			return ErrNotFound
		}
		if err := checkUnique(active, next.AccountNumber, req.Priority, id); err != nil {
			return err
		}
		now := s.clock.Now()
		cur := active[idx]
		acct := cur
		copyDetails(&acct, next)
		if req.Priority > 0 {
			acct.Priority = req.Priority
		}
		if cur.Details() != acct.Details() {
			acct.VerificationStatus = StatusPending
			acct.VerifiedBy = ""
			acct.VerifiedAt = nil
			acct.VerificationNote = ""
		}
		acct.UpdatedBy = actor
		acct.UpdatedAt = now

		batch := []Account{acct}
		if req.IsPrimary && !cur.IsPrimary {
			batch[0].IsPrimary = true
			batch = append(batch, demote(active, id, actor, now)...)
		}
		saved, err := s.store.SaveBankAccounts(ctx, tenantID, batch)
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	return updated, err
}

// Delete deactivates an account. The last active account cannot be
// deleted; deleting the primary promotes the lowest-priority remaining one.
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
			return ErrMinimumBankAccount
		}
		now := s.clock.Now()
		gone := active[idx]
		wasPrimary := gone.IsPrimary
		gone.IsActive = false
		gone.IsPrimary = false
		gone.UpdatedBy = actor
		gone.UpdatedAt = now
		batch := []Account{gone}
		if wasPrimary {
			// active is priority ordered, so the first other record is next.
			for _, a := range active {
				if a.ID == id {
					continue
				}
				a.IsPrimary = true
				a.UpdatedBy = actor
				a.UpdatedAt = now
				batch = append(batch, a)
				break
			}
		}
		_, err = s.store.SaveBankAccounts(ctx, tenantID, batch)
		return err
	})
}

func (s *Service) SetPrimary(ctx context.Context, tenantID, employeeID, id, actor string) (Account, error) {
	var updated Account
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		active, err := s.active(ctx, tenantID, employeeID)
		if err != nil {
			return err
		}
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
		saved, err := s.store.SaveBankAccounts(ctx, tenantID, append([]Account{a}, demote(active, id, actor, now)...))
		if err != nil {
			return err
		}
		updated = saved[0]
		return nil
	})
	return updated, err
}

// RecordVerification stores the outcome of an external verification of a
// pending account.
func (s *Service) RecordVerification(ctx context.Context, tenantID, employeeID, id string, result VerificationResult, actor string) (Account, error) {
	if err := apperr.ValidatePayload(result); err != nil {
		return Account{}, err
	}
	return s.transition(ctx, tenantID, employeeID, id, func(a *Account, now time.Time) error {
		if a.VerificationStatus != StatusPending {
			return ErrInvalidTransition
		}
		a.VerificationStatus = result.Status
		a.VerificationNote = strings.TrimSpace(result.Note)
		a.VerifiedBy = actor
		a.VerifiedAt = &now
		a.UpdatedBy = actor
		return nil
	})
}

// MarkNeedsUpdate flags an account for the employee to correct.
func (s *Service) MarkNeedsUpdate(ctx context.Context, tenantID, employeeID, id, note, actor string) (Account, error) {
	return s.transition(ctx, tenantID, employeeID, id, func(a *Account, _ time.Time) error {
		a.VerificationStatus = StatusNeedsUpdate
		a.VerificationNote = strings.TrimSpace(note)
		a.UpdatedBy = actor
		return nil
	})
}

func (s *Service) transition(ctx context.Context, tenantID, employeeID, id string, change func(*Account, time.Time) error) (Account, error) {
	var out Account
	err := s.guarded(ctx, tenantID, employeeID, func(ctx context.Context) error {
		a, err := s.Get(ctx, tenantID, employeeID, id)
		if err != nil {
			return err
		}
		if !a.IsActive {
			return ErrNotFound
		}
		now := s.clock.Now()
		if err := change(&a, now); err != nil {
			return err
		}
		a.UpdatedAt = now
		saved, err := s.store.SaveBankAccounts(ctx, tenantID, []Account{a})
		if err != nil {
			return err
		}
		out = saved[0]
		return nil
	})
	return out, err
}

// prepare validates req and fills the detail fields of a.
func (s *Service) prepare(a *Account, req Request) error {
	if err := apperr.ValidatePayload(req); err != nil {
		return s.countFailure(err)
	}
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(req.Currency)))
	if err != nil {
		return s.countFailure(ErrInvalidCurrency)
	}
	a.Purpose = req.Purpose
	if a.Purpose == "" {
		a.Purpose = PurposeSalary
	}
	a.BankName = strings.TrimSpace(req.BankName)
	a.AccountHolderName = strings.TrimSpace(req.AccountHolderName)
	a.BankCountryCode = upper(req.BankCountryCode)
	a.Currency = unit.String()
	a.RoutingNumber = upper(req.RoutingNumber)
	a.IFSCCode = upper(req.IFSCCode)
	a.SortCode = upper(req.SortCode)
	a.BSBCode = upper(req.BSBCode)
	a.TransitNumber = upper(req.TransitNumber)
	a.InstitutionNumber = upper(req.InstitutionNumber)
	a.CLABE = upper(req.CLABE)
	a.SwiftCode = upper(req.SwiftCode)
	a.IBAN = validation.NormalizeAccountNumber(req.IBAN)
	a.AccountNumber = validation.NormalizeAccountNumber(req.AccountNumber)
	if a.AccountNumber == "" {
		a.AccountNumber = a.IBAN
	}
	a.MaskedNumber = validation.Mask(a.AccountNumber)

	if o := validation.ValidateBankAccount(a.Details()); !o.Valid {
		s.metrics.ValidationFailed(Category, o.Field)
		return o.Err()
	}
	return nil
}

func (s *Service) countFailure(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
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

// active loads the employee's active accounts sorted by priority.
func (s *Service) active(ctx context.Context, tenantID, employeeID string) ([]Account, error) {
	ok, err := s.store.EmployeeExists(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("check employee: %w", err)
	}
	if !ok {
		return nil, apperr.ErrEmployeeNotFound
	}
	all, err := s.store.ListBankAccounts(ctx, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	out := make([]Account, 0, len(all))
	for _, a := range all {
		if a.IsActive {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

func checkUnique(active []Account, number string, priority int, exceptID string) error {
	for _, a := range active {
		if a.ID == exceptID {
			continue
		}
		if validation.NormalizeAccountNumber(a.AccountNumber) == number {
			return ErrDuplicateBankAccount
		}
		if priority > 0 && a.Priority == priority {
			return ErrPriorityTaken
		}
	}
	return nil
}

func copyDetails(dst *Account, src Account) {
	dst.Purpose = src.Purpose
	dst.BankName = src.BankName
	dst.AccountHolderName = src.AccountHolderName
	dst.BankCountryCode = src.BankCountryCode
	dst.Currency = src.Currency
	dst.AccountNumber = src.AccountNumber
	dst.MaskedNumber = src.MaskedNumber
	dst.RoutingNumber = src.RoutingNumber
	dst.IFSCCode = src.IFSCCode
	dst.SortCode = src.SortCode
	dst.BSBCode = src.BSBCode
	dst.TransitNumber = src.TransitNumber
	dst.InstitutionNumber = src.InstitutionNumber
	dst.CLABE = src.CLABE
	dst.SwiftCode = src.SwiftCode
	dst.IBAN = src.IBAN
}

func demote(active []Account, keep, actor string, now time.Time) []Account {
	var out []Account
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

func maxPriority(active []Account) int {
	highest := 0
	for _, a := range active {
		if a.Priority > highest {
			highest = a.Priority
		}
	}
	return highest
}

func indexOf(list []Account, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func upper(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
