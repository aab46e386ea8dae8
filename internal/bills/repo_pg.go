package bills

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Create(ctx context.Context, bill MedicalBill) error {
	const query = `
INSERT INTO medical_bills (
    id, case_id, user_id, document_id, provider, amount,
    service_date, bill_date, description, insurance, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		bill.ID,
		bill.CaseID,
		bill.UserID,
		nullableStringPtr(bill.DocumentID),
		bill.Provider,
		bill.Amount,
		nullableTimePtr(bill.ServiceDate),
		nullableTimePtr(bill.BillDate),
		nullableString(bill.Description),
		nullableString(bill.Insurance),
		bill.Status,
		bill.CreatedAt,
	)
	return err
}

const selectColumns = `
    id, case_id, user_id, document_id, provider, amount,
    service_date, bill_date, description, insurance, status, created_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, billID string) (MedicalBill, error) {
	query := `SELECT` + selectColumns + `
FROM medical_bills
WHERE id = $1
LIMIT 1`
	bill, err := scanBill(r.DB.QueryRowContext(ctx, query, billID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MedicalBill{}, ErrNotFound
		}
		return MedicalBill{}, err
	}
	return bill, nil
}

func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]MedicalBill, error) {
	query := `SELECT` + selectColumns + `
FROM medical_bills
WHERE case_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MedicalBill, 0)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bill)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, billID, status string) error {
	const query = `
UPDATE medical_bills SET status = $2, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, billID, status)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, billID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM medical_bills WHERE id = $1`, billID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (MedicalBill, error) {
	var bill MedicalBill
	var documentID sql.NullString
	var serviceDate, billDate sql.NullTime
	var description, insurance sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&bill.ID,
		&bill.CaseID,
		&bill.UserID,
		&documentID,
		&bill.Provider,
		&bill.Amount,
		&serviceDate,
		&billDate,
		&description,
		&insurance,
		&bill.Status,
		&bill.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return MedicalBill{}, err
	}
	if documentID.Valid {
		id := documentID.String
		bill.DocumentID = &id
	}
	if serviceDate.Valid {
		t := serviceDate.Time
		bill.ServiceDate = &t
	}
	if billDate.Valid {
		t := billDate.Time
		bill.BillDate = &t
	}
	bill.Description = description.String
	bill.Insurance = insurance.String
	if updatedAt.Valid {
		bill.UpdatedAt = updatedAt.Time
	} else {
		bill.UpdatedAt = time.Now().UTC()
	}
	return bill, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableStringPtr(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}

func nullableTimePtr(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
