package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrcore/internal/domain/emergency"
)

const contactColumns = `tenant_id, id, employee_id, full_name, relationship, relationship_other,
    primary_phone, secondary_phone, email, address, priority, is_primary, is_active,
    updated_by, updated_at, version, created_by, created_at`

func (s *Store) GetEmergencyContact(ctx context.Context, tenantID, id string) (emergency.Contact, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+contactColumns+`
    FROM employee_emergency_contacts
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	c, err := scanContact(row)
	return c, notFound(err)
}

func (s *Store) ListEmergencyContacts(ctx context.Context, tenantID, employeeID string) ([]emergency.Contact, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+contactColumns+`
    FROM employee_emergency_contacts
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at, id
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanContact)
}

// SaveEmergencyContacts relies on the deferred priority constraint: a
// renumbering batch may pass through duplicate priorities before commit.
func (s *Store) SaveEmergencyContacts(ctx context.Context, tenantID string, contacts []emergency.Contact) ([]emergency.Contact, error) {
	return saveAll(ctx, s.DB, contacts, func(ctx context.Context, tx pgx.Tx, c emergency.Contact) error {
		args := []any{tenantID, c.ID, c.EmployeeID, c.FullName, c.Relationship, c.RelationshipOther,
			c.PrimaryPhone, c.SecondaryPhone, c.Email, c.Address, c.Priority, c.IsPrimary, c.IsActive,
			c.UpdatedBy, c.UpdatedAt, c.Version}
		return writeVersioned(ctx, tx, c.Version, `
      INSERT INTO employee_emergency_contacts (`+contactColumns+`)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16 + 1,$17,$18)
    `, `
      UPDATE employee_emergency_contacts SET
        full_name = $4, relationship = $5, relationship_other = $6, primary_phone = $7, secondary_phone = $8,
        email = $9, address = $10, priority = $11, is_primary = $12, is_active = $13,
        updated_by = $14, updated_at = $15, version = version + 1
      WHERE tenant_id = $1 AND id = $2 AND employee_id = $3 AND version = $16
    `, args, c.CreatedBy, c.CreatedAt)
	}, func(c *emergency.Contact) { c.Version++ })
}

func scanContact(row scanner) (emergency.Contact, error) {
	var (
		c        emergency.Contact
		tenantID string
	)
	err := row.Scan(&tenantID, &c.ID, &c.EmployeeID, &c.FullName, &c.Relationship, &c.RelationshipOther,
		&c.PrimaryPhone, &c.SecondaryPhone, &c.Email, &c.Address, &c.Priority, &c.IsPrimary, &c.IsActive,
		&c.UpdatedBy, &c.UpdatedAt, &c.Version, &c.CreatedBy, &c.CreatedAt)
	return c, err
}
