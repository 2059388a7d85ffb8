package postgres

import (
	"context"
	"database/sql"
	"errors"

	"healthcare-portal/internal/domain/medicalrecords"

	"github.com/jackc/pgx/v5/pgtype"
)

type MedicalRecordsRepo struct {
	db    *sql.DB
	types *pgtype.Map
}

func NewMedicalRecordsRepo(db *sql.DB) *MedicalRecordsRepo {
	return &MedicalRecordsRepo{db: db, types: pgtype.NewMap()}
}

func (r *MedicalRecordsRepo) Get(ctx context.Context, patientID string) (medicalrecords.MedicalRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			patient_id, diagnoses, medications, allergies,
			blood_group, height_cm, weight_kg
		FROM medical_records
		WHERE patient_id = $1
	`, patientID)

	var (
		rec   medicalrecords.MedicalRecord
		blood string
	)
	if err := row.Scan(
		&rec.PatientID,
		r.types.SQLScanner(&rec.Diagnoses),
		r.types.SQLScanner(&rec.Medications),
		r.types.SQLScanner(&rec.Allergies),
		&blood,
		&rec.HeightCM,
		&rec.WeightKG,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medicalrecords.MedicalRecord{}, medicalrecords.ErrNotFound
		}
		return medicalrecords.MedicalRecord{}, err
	}
	rec.BloodGroup = medicalrecords.BloodGroup(blood)
	return rec, nil
}

func (r *MedicalRecordsRepo) Upsert(ctx context.Context, rec medicalrecords.MedicalRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medical_records (
			patient_id, diagnoses, medications, allergies,
			blood_group, height_cm, weight_kg
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (patient_id) DO UPDATE SET
			diagnoses = EXCLUDED.diagnoses,
			medications = EXCLUDED.medications,
			allergies = EXCLUDED.allergies,
			blood_group = EXCLUDED.blood_group,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg
	`,
		rec.PatientID,
		textArray(rec.Diagnoses),
		textArray(rec.Medications),
		textArray(rec.Allergies),
		string(rec.BloodGroup),
		rec.HeightCM,
		rec.WeightKG,
	)
	return err
}

// textArray evita mandar NULL a columnas TEXT[] NOT NULL.
func textArray(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
