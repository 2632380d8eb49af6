package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrcore/internal/domain/onboarding"
)

const employeeColumns = `tenant_id, id, first_name, last_name, email, phone, date_of_birth, country_code,
    tax_id, tax_id_type, masked_tax_id, status, onboarded_at, onboarded_by,
    updated_by, updated_at, version, created_by, created_at`

func (s *Store) GetEmployee(ctx context.Context, tenantID, id string) (onboarding.Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	e, err := s.scanEmployee(row)
	return e, notFound(err)
}

func (s *Store) SaveEmployee(ctx context.Context, tenantID string, e onboarding.Employee) (onboarding.Employee, error) {
	saved, err := saveAll(ctx, s.DB, []onboarding.Employee{e}, func(ctx context.Context, tx pgx.Tx, e onboarding.Employee) error {
		taxID, err := s.seal(e.TaxID)
		if err != nil {
			return err
		}
		args := []any{tenantID, e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.DateOfBirth, e.CountryCode,
			taxID, e.TaxIDType, e.MaskedTaxID, e.Status, e.OnboardedAt, e.OnboardedBy,
			e.UpdatedBy, e.UpdatedAt, e.Version}
		return writeVersioned(ctx, tx, e.Version, `
      INSERT INTO employees (`+employeeColumns+`)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17 + 1,$18,$19)
    `, `
      UPDATE employees SET
        first_name = $3, last_name = $4, email = $5, phone = $6, date_of_birth = $7, country_code = $8,
        tax_id = $9, tax_id_type = $10, masked_tax_id = $11, status = $12, onboarded_at = $13, onboarded_by = $14,
        updated_by = $15, updated_at = $16, version = version + 1
      WHERE tenant_id = $1 AND id = $2 AND version = $17
    `, args, e.CreatedBy, e.CreatedAt)
	}, func(e *onboarding.Employee) { e.Version++ })
	if err != nil {
		return onboarding.Employee{}, err
	}
	return saved[0], nil
}

func (s *Store) scanEmployee(row scanner) (onboarding.Employee, error) {
	var (
		e        onboarding.Employee
		tenantID string
		taxID    []byte
	)
	if err := row.Scan(&tenantID, &e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.DateOfBirth, &e.CountryCode,
		&taxID, &e.TaxIDType, &e.MaskedTaxID, &e.Status, &e.OnboardedAt, &e.OnboardedBy,
		&e.UpdatedBy, &e.UpdatedAt, &e.Version, &e.CreatedBy, &e.CreatedAt); err != nil {
		return onboarding.Employee{}, err
	}
	var err error
	e.TaxID, err = s.open(taxID)
	return e, err
}
