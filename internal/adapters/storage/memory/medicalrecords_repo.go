package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"healthcare-portal/internal/domain/medicalrecords"
)

type medicalRecordRepo struct {
	mu        sync.RWMutex
	byPatient map[string]medicalrecords.MedicalRecord
}

func NewMedicalRecordRepo() medicalrecords.Repository {
	return &medicalRecordRepo{
		byPatient: make(map[string]medicalrecords.MedicalRecord),
	}
}

func (r *medicalRecordRepo) Get(ctx context.Context, patientID string) (medicalrecords.MedicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byPatient[patientID]
	if !ok {
		return medicalrecords.MedicalRecord{}, medicalrecords.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *medicalRecordRepo) Upsert(ctx context.Context, rec medicalrecords.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.PatientID) == "" {
		return errors.New("patient id required")
	}
	r.byPatient[rec.PatientID] = cloneRecord(rec)
	return nil
}

func cloneRecord(rec medicalrecords.MedicalRecord) medicalrecords.MedicalRecord {
	rec.Diagnoses = slices.Clone(rec.Diagnoses)
	rec.Medications = slices.Clone(rec.Medications)
	rec.Allergies = slices.Clone(rec.Allergies)
	return rec
}
