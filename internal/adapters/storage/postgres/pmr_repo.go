package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"healthcare-portal/internal/domain/pmr"
)

type PMRRepo struct {
	db *sql.DB
}

func NewPMRRepo(db *sql.DB) *PMRRepo {
	return &PMRRepo{db: db}
}

func (r *PMRRepo) Get(ctx context.Context, patientID string) (pmr.PMR, error) {
	var (
		p       = pmr.PMR{PatientID: patientID}
		code    sql.NullString
		expires sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT access_code, access_code_expires_at
		FROM pmrs
		WHERE patient_id = $1
	`, patientID).Scan(&code, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pmr.PMR{}, pmr.ErrNotFound
		}
		return pmr.PMR{}, err
	}
	if code.Valid && expires.Valid {
		p.AccessCode = &pmr.AccessCode{Code: code.String, ExpiresAt: expires.Time.UTC()}
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, url
		FROM pmr_files
		WHERE patient_id = $1
		ORDER BY seq ASC
	`, patientID)
	if err != nil {
		return pmr.PMR{}, err
	}
	defer rows.Close()

	p.Files = make([]pmr.File, 0)
	for rows.Next() {
		var (
			f  pmr.File
			ft string
		)
		if err := rows.Scan(&f.ID, &f.Name, &ft, &f.URL); err != nil {
			return pmr.PMR{}, err
		}
		f.Type = pmr.FileType(ft)
		p.Files = append(p.Files, f)
	}
	if err := rows.Err(); err != nil {
		return pmr.PMR{}, err
	}
	return p, nil
}

// Save reemplaza código y archivos en una transacción.
func (r *PMRRepo) Save(ctx context.Context, p pmr.PMR) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var (
		code    sql.NullString
		expires sql.NullTime
	)
	if p.AccessCode != nil {
		code = sql.NullString{String: p.AccessCode.Code, Valid: true}
		expires = sql.NullTime{Time: p.AccessCode.ExpiresAt, Valid: true}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO pmrs (patient_id, access_code, access_code_expires_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (patient_id) DO UPDATE SET
			access_code = EXCLUDED.access_code,
			access_code_expires_at = EXCLUDED.access_code_expires_at
	`, p.PatientID, code, expires); err != nil {
		return fmt.Errorf("upsert pmr: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM pmr_files WHERE patient_id = $1`, p.PatientID); err != nil {
		return fmt.Errorf("clear pmr files: %w", err)
	}
	for _, f := range p.Files {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO pmr_files (id, patient_id, name, type, url)
			VALUES ($1,$2,$3,$4,$5)
		`, f.ID, p.PatientID, f.Name, string(f.Type), f.URL); err != nil {
			return fmt.Errorf("insert pmr file: %w", err)
		}
	}

	return tx.Commit()
}
