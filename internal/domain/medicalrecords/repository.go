package medicalrecords

import "context"

type Repository interface {
	Get(ctx context.Context, patientID string) (MedicalRecord, error)
	Upsert(ctx context.Context, rec MedicalRecord) error
}
