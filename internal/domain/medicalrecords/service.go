package medicalrecords

import (
	"context"
	"errors"
	"strings"

	"healthcare-portal/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medical record not found")
)

type Service struct {
	repo Repository
	log  logger.Logger
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "medicalrecords"}),
	}
}

func (s *Service) Get(ctx context.Context, patientID string) (MedicalRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	rec, err := s.repo.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return MedicalRecord{}, ErrNotFound
		}
		return MedicalRecord{}, err
	}
	return rec, nil
}

type UpsertInput struct {
	Diagnoses   []string
	Medications []string
	Allergies   []string
	BloodGroup  BloodGroup
	HeightCM    float64
	WeightKG    float64
}

// Upsert reemplaza la ficha completa del paciente (o la crea).
func (s *Service) Upsert(ctx context.Context, patientID string, in UpsertInput) (MedicalRecord, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return MedicalRecord{}, ErrInvalidInput
	}
	if in.BloodGroup != "" && !in.BloodGroup.Valid() {
		return MedicalRecord{}, ErrInvalidInput
	}
	if in.HeightCM < 0 || in.WeightKG < 0 {
		return MedicalRecord{}, ErrInvalidInput
	}

	rec := MedicalRecord{
		PatientID:   patientID,
		Diagnoses:   cleanList(in.Diagnoses),
		Medications: cleanList(in.Medications),
		Allergies:   cleanList(in.Allergies),
		BloodGroup:  in.BloodGroup,
		HeightCM:    in.HeightCM,
		WeightKG:    in.WeightKG,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return MedicalRecord{}, err
	}

	s.log.Info("medical record saved", map[string]any{"patient_id": patientID})
	return rec, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
