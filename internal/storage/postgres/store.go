// Package postgres stores onboarding records in PostgreSQL through pgx.
// Account, document and tax id numbers are sealed at rest; equality checks
// go through keyed fingerprints.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrcore/internal/domain/address"
	"hrcore/internal/domain/apperr"
	"hrcore/internal/domain/banking"
	"hrcore/internal/domain/emergency"
	"hrcore/internal/domain/identity"
	"hrcore/internal/domain/onboarding"
	"hrcore/internal/platform/crypto"
)

var (
	_ address.StoreAPI         = (*Store)(nil)
	_ emergency.StoreAPI       = (*Store)(nil)
	_ identity.StoreAPI        = (*Store)(nil)
	_ banking.StoreAPI         = (*Store)(nil)
	_ onboarding.EmployeeStore = (*Store)(nil)
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *crypto.Service
}

func NewStore(db *pgxpool.Pool, c *crypto.Service) *Store {
	return &Store{DB: db, Crypto: c}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) EmployeeExists(ctx context.Context, tenantID, employeeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM employees WHERE tenant_id = $1 AND id = $2)
  `, tenantID, employeeID).Scan(&exists)
	return exists, err
}

// saveAll writes batch in one transaction. write must insert records with
// version 0 and otherwise update only when the stored version matches.
func saveAll[T any](ctx context.Context, db *pgxpool.Pool, batch []T, write func(context.Context, pgx.Tx, T) error, bump func(*T)) ([]T, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, rec := range batch {
		if err := write(ctx, tx, rec); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapErr(err)
	}

	out := make([]T, len(batch))
	for i, rec := range batch {
		bump(&rec)
		out[i] = rec
	}
	return out, nil
}

// writeVersioned runs insert for a new record and update otherwise. Both
// statements take args, which end with the current version; insert also
// gets the created fields after it.
func writeVersioned(ctx context.Context, tx pgx.Tx, version int, insert, update string, args []any, created ...any) error {
	if version == 0 {
		_, err := tx.Exec(ctx, insert, append(args, created...)...)
		return mapErr(err)
	}
	tag, err := tx.Exec(ctx, update, args...)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrConflict
	}
	return nil
}

// mapErr turns unique and exclusion violations into apperr.ErrConflict so
// the service retries against fresh state.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23P01") {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperr.ErrConflict)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) seal(value string) ([]byte, error) {
	sealed, err := s.Crypto.SealString(value)
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	return sealed, nil
}

func (s *Store) open(sealed []byte) (string, error) {
	value, err := s.Crypto.OpenString(sealed)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return value, nil
}
