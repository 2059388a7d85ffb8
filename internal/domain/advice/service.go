// Package advice responde consultas de salud del paciente a partir de su
// ficha médica, delegando la redacción en un Generator externo.
package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"healthcare-portal/internal/domain/medicalrecords"
	"healthcare-portal/internal/platform/logger"
)

var ErrInvalidInput = errors.New("invalid input")

// Respuestas fijas cuando no se puede consultar al generador.
var (
	MissingRecordAdvice = Advice{
		Advice:               "Could not find your medical records. Please update your profile.",
		ConsultDoctorMessage: "Please ensure your profile is up-to-date before using the chat.",
	}
	UnavailableAdvice = Advice{
		Advice:               "Sorry, I encountered an error and cannot provide advice right now.",
		ConsultDoctorMessage: "Please try again later or consult a doctor directly if your concern is urgent.",
	}
)

type Advice struct {
	Advice               string
	ConsultDoctorMessage string
}

type Prompt struct {
	MedicalRecords string
	PatientQuery   string
}

// Generator produce el consejo (LLM u otro servicio).
type Generator interface {
	Generate(ctx context.Context, p Prompt) (Advice, error)
}

type RecordSource interface {
	Get(ctx context.Context, patientID string) (medicalrecords.MedicalRecord, error)
}

type Service struct {
	records RecordSource
	gen     Generator
	log     logger.Logger
}

// NewService: gen puede ser nil (sin proveedor configurado); en ese caso
// Ask devuelve UnavailableAdvice.
func NewService(records RecordSource, gen Generator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		records: records,
		gen:     gen,
		log:     log.With(map[string]any{"module": "advice"}),
	}
}

func (s *Service) Ask(ctx context.Context, patientID, query string) (Advice, error) {
	patientID = strings.TrimSpace(patientID)
	query = strings.TrimSpace(query)
	if patientID == "" || query == "" {
		return Advice{}, ErrInvalidInput
	}

	rec, err := s.records.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, medicalrecords.ErrNotFound) {
			return MissingRecordAdvice, nil
		}
		return Advice{}, err
	}

	if s.gen == nil {
		s.log.Warn("advice generator not configured", nil)
		return UnavailableAdvice, nil
	}

	out, err := s.gen.Generate(ctx, Prompt{
		MedicalRecords: Summarize(rec),
		PatientQuery:   query,
	})
	if err != nil {
		s.log.Error("advice generation failed", map[string]any{
			"patient_id": patientID,
			"error":      err.Error(),
		})
		return UnavailableAdvice, nil
	}
	return out, nil
}

// Summarize arma el resumen de la ficha que recibe el generador.
func Summarize(rec medicalrecords.MedicalRecord) string {
	return fmt.Sprintf("Diagnoses: %s\nMedications: %s\nAllergies: %s",
		joinOrNone(rec.Diagnoses),
		joinOrNone(rec.Medications),
		joinOrNone(rec.Allergies),
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
