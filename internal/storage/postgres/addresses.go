package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrcore/internal/domain/address"
)

const addressColumns = `tenant_id, id, employee_id, address_type, line1, line2, city, state, postal_code, country_code,
    is_primary, effective_from, effective_to, is_verified, verified_by, verified_at, is_active,
    updated_by, updated_at, version, created_by, created_at`

func (s *Store) GetAddress(ctx context.Context, tenantID, id string) (address.Address, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+addressColumns+`
    FROM employee_addresses
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	a, err := scanAddress(row)
	return a, notFound(err)
}

func (s *Store) ListAddresses(ctx context.Context, tenantID, employeeID string) ([]address.Address, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+addressColumns+`
    FROM employee_addresses
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at, id
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAddress)
}

func (s *Store) SaveAddresses(ctx context.Context, tenantID string, addresses []address.Address) ([]address.Address, error) {
	return saveAll(ctx, s.DB, addresses, func(ctx context.Context, tx pgx.Tx, a address.Address) error {
		args := []any{tenantID, a.ID, a.EmployeeID, a.AddressType, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.CountryCode,
			a.IsPrimary, a.EffectiveFrom, a.EffectiveTo, a.IsVerified, a.VerifiedBy, a.VerifiedAt, a.IsActive,
			a.UpdatedBy, a.UpdatedAt, a.Version}
		return writeVersioned(ctx, tx, a.Version, `
      INSERT INTO employee_addresses (`+addressColumns+`)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20 + 1,$21,$22)
    `, `
      UPDATE employee_addresses SET
        address_type = $4, line1 = $5, line2 = $6, city = $7, state = $8, postal_code = $9, country_code = $10,
        is_primary = $11, effective_from = $12, effective_to = $13, is_verified = $14, verified_by = $15,
        verified_at = $16, is_active = $17, updated_by = $18, updated_at = $19, version = version + 1
      WHERE tenant_id = $1 AND id = $2 AND employee_id = $3 AND version = $20
    `, args, a.CreatedBy, a.CreatedAt)
	}, func(a *address.Address) { a.Version++ })
}

func scanAddress(row scanner) (address.Address, error) {
	var (
		a        address.Address
		tenantID string
	)
	err := row.Scan(&tenantID, &a.ID, &a.EmployeeID, &a.AddressType, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.CountryCode,
		&a.IsPrimary, &a.EffectiveFrom, &a.EffectiveTo, &a.IsVerified, &a.VerifiedBy, &a.VerifiedAt, &a.IsActive,
		&a.UpdatedBy, &a.UpdatedAt, &a.Version, &a.CreatedBy, &a.CreatedAt)
	return a, err
}
