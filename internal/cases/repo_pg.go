package cases

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

func (r *PGRepo) Create(ctx context.Context, kase Case) error {
	const query = `
INSERT INTO cases (id, user_id, title, client_name, incident_date, status, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		kase.ID,
		kase.UserID,
		kase.Title,
		kase.ClientName,
		nullableTime(kase.IncidentDate),
		kase.Status,
		nullableString(kase.Description),
		kase.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, caseID string) (Case, error) {
	const query = `
SELECT id, user_id, title, client_name, incident_date, status, description, created_at, updated_at
FROM cases
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, caseID)
	kase, err := scanCase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Case{}, ErrNotFound
		}
		return Case{}, err
	}
	return kase, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Case, error) {
	const query = `
SELECT id, user_id, title, client_name, incident_date, status, description, created_at, updated_at
FROM cases
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Case, 0)
	for rows.Next() {
		kase, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, kase)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, kase Case) error {
	const query = `
UPDATE cases SET
  title = $2,
  client_name = $3,
  incident_date = $4,
  status = $5,
  description = $6,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		kase.ID,
		kase.Title,
		kase.ClientName,
		nullableTime(kase.IncidentDate),
		kase.Status,
		nullableString(kase.Description),
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, caseID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, caseID)
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

func scanCase(row rowScanner) (Case, error) {
	var kase Case
	var incidentDate sql.NullTime
	var description sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&kase.ID,
		&kase.UserID,
		&kase.Title,
		&kase.ClientName,
		&incidentDate,
		&kase.Status,
		&description,
		&kase.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Case{}, err
	}
	if incidentDate.Valid {
		t := incidentDate.Time
		kase.IncidentDate = &t
	}
	kase.Description = description.String
	if updatedAt.Valid {
		kase.UpdatedAt = updatedAt.Time
	} else {
		kase.UpdatedAt = time.Now().UTC()
	}
	return kase, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
