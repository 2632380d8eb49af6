package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrcore/internal/domain/banking"
)

const accountColumns = `tenant_id, id, employee_id, purpose, priority, is_primary, bank_name, account_holder_name,
    bank_country_code, currency, account_number, account_fingerprint, masked_number,
    routing_number, ifsc_code, sort_code, bsb_code, transit_number, institution_number, clabe, swift_code, iban,
    verification_status, verified_by, verified_at, verification_note, is_active,
    updated_by, updated_at, version, created_by, created_at`

func (s *Store) GetBankAccount(ctx context.Context, tenantID, id string) (banking.Account, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+accountColumns+`
    FROM employee_bank_accounts
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	a, err := s.scanAccount(row)
	return a, notFound(err)
}

func (s *Store) ListBankAccounts(ctx context.Context, tenantID, employeeID string) ([]banking.Account, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+accountColumns+`
    FROM employee_bank_accounts
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at, id
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows, s.scanAccount)
}

// SaveBankAccounts seals the account number and IBAN. The fingerprint of
// the account number backs the one-active-account-per-number index.
func (s *Store) SaveBankAccounts(ctx context.Context, tenantID string, accounts []banking.Account) ([]banking.Account, error) {
	return saveAll(ctx, s.DB, accounts, func(ctx context.Context, tx pgx.Tx, a banking.Account) error {
		number, err := s.seal(a.AccountNumber)
		if err != nil {
			return err
		}
		iban, err := s.seal(a.IBAN)
		if err != nil {
			return err
		}
		args := []any{tenantID, a.ID, a.EmployeeID, a.Purpose, a.Priority, a.IsPrimary, a.BankName, a.AccountHolderName,
			a.BankCountryCode, a.Currency, number, s.Crypto.Fingerprint(a.AccountNumber), a.MaskedNumber,
			a.RoutingNumber, a.IFSCCode, a.SortCode, a.BSBCode, a.TransitNumber, a.InstitutionNumber, a.CLABE, a.SwiftCode, iban,
			a.VerificationStatus, a.VerifiedBy, a.VerifiedAt, a.VerificationNote, a.IsActive,
			a.UpdatedBy, a.UpdatedAt, a.Version}
		return writeVersioned(ctx, tx, a.Version, `
      INSERT INTO employee_bank_accounts (`+accountColumns+`)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,
        $23,$24,$25,$26,$27,$28,$29,$30 + 1,$31,$32)
    `, `
      UPDATE employee_bank_accounts SET
        purpose = $4, priority = $5, is_primary = $6, bank_name = $7, account_holder_name = $8,
        bank_country_code = $9, currency = $10, account_number = $11, account_fingerprint = $12, masked_number = $13,
        routing_number = $14, ifsc_code = $15, sort_code = $16, bsb_code = $17, transit_number = $18,
        institution_number = $19, clabe = $20, swift_code = $21, iban = $22,
        verification_status = $23, verified_by = $24, verified_at = $25, verification_note = $26, is_active = $27,
        updated_by = $28, updated_at = $29, version = version + 1
      WHERE tenant_id = $1 AND id = $2 AND employee_id = $3 AND version = $30
    `, args, a.CreatedBy, a.CreatedAt)
	}, func(a *banking.Account) { a.Version++ })
}

func (s *Store) scanAccount(row scanner) (banking.Account, error) {
	var (
		a           banking.Account
		tenantID    string
		number      []byte
		fingerprint string
		iban        []byte
	)
	if err := row.Scan(&tenantID, &a.ID, &a.EmployeeID, &a.Purpose, &a.Priority, &a.IsPrimary, &a.BankName, &a.AccountHolderName,
		&a.BankCountryCode, &a.Currency, &number, &fingerprint, &a.MaskedNumber,
		&a.RoutingNumber, &a.IFSCCode, &a.SortCode, &a.BSBCode, &a.TransitNumber, &a.InstitutionNumber, &a.CLABE, &a.SwiftCode, &iban,
		&a.VerificationStatus, &a.VerifiedBy, &a.VerifiedAt, &a.VerificationNote, &a.IsActive,
		&a.UpdatedBy, &a.UpdatedAt, &a.Version, &a.CreatedBy, &a.CreatedAt); err != nil {
		return banking.Account{}, err
	}
	var err error
	if a.AccountNumber, err = s.open(number); err != nil {
		return banking.Account{}, err
	}
	a.IBAN, err = s.open(iban)
	return a, err
}
