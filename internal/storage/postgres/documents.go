package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrcore/internal/domain/identity"
)

const documentColumns = `tenant_id, id, employee_id, document_type_code, document_number, number_fingerprint, masked_number,
    issue_date, expiry_date, verification_status, verified_by, verified_at, rejection_reason, is_active,
    updated_by, updated_at, version, created_by, created_at`

func (s *Store) GetIdentityDocument(ctx context.Context, tenantID, id string) (identity.Document, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM employee_identity_documents
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, id)
	d, err := s.scanDocument(row)
	return d, notFound(err)
}

func (s *Store) ListIdentityDocuments(ctx context.Context, tenantID, employeeID string) ([]identity.Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+documentColumns+`
    FROM employee_identity_documents
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY created_at, id
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	return collect(rows, s.scanDocument)
}

func (s *Store) SaveIdentityDocuments(ctx context.Context, tenantID string, docs []identity.Document) ([]identity.Document, error) {
	return saveAll(ctx, s.DB, docs, func(ctx context.Context, tx pgx.Tx, d identity.Document) error {
		number, err := s.seal(d.DocumentNumber)
		if err != nil {
			return err
		}
		args := []any{tenantID, d.ID, d.EmployeeID, d.DocumentTypeCode, number, s.Crypto.Fingerprint(d.DocumentNumber), d.MaskedNumber,
			d.IssueDate, d.ExpiryDate, d.VerificationStatus, d.VerifiedBy, d.VerifiedAt, d.RejectionReason, d.IsActive,
			d.UpdatedBy, d.UpdatedAt, d.Version}
		return writeVersioned(ctx, tx, d.Version, `
      INSERT INTO employee_identity_documents (`+documentColumns+`)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17 + 1,$18,$19)
    `, `
      UPDATE employee_identity_documents SET
        document_type_code = $4, document_number = $5, number_fingerprint = $6, masked_number = $7,
        issue_date = $8, expiry_date = $9, verification_status = $10, verified_by = $11, verified_at = $12,
        rejection_reason = $13, is_active = $14, updated_by = $15, updated_at = $16, version = version + 1
      WHERE tenant_id = $1 AND id = $2 AND employee_id = $3 AND version = $17
    `, args, d.CreatedBy, d.CreatedAt)
	}, func(d *identity.Document) { d.Version++ })
}

func (s *Store) scanDocument(row scanner) (identity.Document, error) {
	var (
		d           identity.Document
		tenantID    string
		number      []byte
		fingerprint string
	)
	if err := row.Scan(&tenantID, &d.ID, &d.EmployeeID, &d.DocumentTypeCode, &number, &fingerprint, &d.MaskedNumber,
		&d.IssueDate, &d.ExpiryDate, &d.VerificationStatus, &d.VerifiedBy, &d.VerifiedAt, &d.RejectionReason, &d.IsActive,
		&d.UpdatedBy, &d.UpdatedAt, &d.Version, &d.CreatedBy, &d.CreatedAt); err != nil {
		return identity.Document{}, err
	}
	var err error
	d.DocumentNumber, err = s.open(number)
	return d, err
}
