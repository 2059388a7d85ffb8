package medicalrecords

import (
	"errors"
	"net/http"

	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/web"
	"healthcare-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients/{patientID}/medical-record", func(mr chi.Router) {
		mr.Get("/", getRecordHandler(svc))
		mr.Put("/", upsertRecordHandler(svc))
	})
}

type upsertRecordRequest struct {
	Diagnoses   []string   `json:"diagnoses"`
	Medications []string   `json:"medications"`
	Allergies   []string   `json:"allergies"`
	BloodGroup  BloodGroup `json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	HeightCM    float64    `json:"height_cm" validate:"gte=0,lte=300"`
	WeightKG    float64    `json:"weight_kg" validate:"gte=0,lte=700"`
}

type recordResponse struct {
	PatientID   string     `json:"patient_id"`
	Diagnoses   []string   `json:"diagnoses"`
	Medications []string   `json:"medications"`
	Allergies   []string   `json:"allergies"`
	BloodGroup  BloodGroup `json:"blood_group,omitempty"`
	HeightCM    float64    `json:"height_cm,omitempty"`
	WeightKG    float64    `json:"weight_kg,omitempty"`
}

// getRecordHandler godoc
// @Summary Ver ficha médica
// @Description Diagnósticos, medicación, alergias y datos físicos. Visible para el propio paciente, doctores y admin.
// @Tags medical-records
// @Produce json
// @Param patientID path string true "Patient ID"
// @Success 200 {object} recordResponse
// @Failure 404 {string} string "medical record not found"
// @Router /patients/{patientID}/medical-record [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}
		patientID := chi.URLParam(r, "patientID")
		if claims.Role == auth.RolePatient && claims.UserID != patientID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		rec, err := svc.Get(r.Context(), patientID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// upsertRecordHandler godoc
// @Summary Guardar ficha médica
// @Description Reemplaza la ficha completa. Solo el propio paciente (o admin).
// @Tags medical-records
// @Accept json
// @Produce json
// @Param patientID path string true "Patient ID"
// @Param payload body upsertRecordRequest true "Ficha"
// @Success 200 {object} recordResponse
// @Router /patients/{patientID}/medical-record [put]
func upsertRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient, auth.RoleAdmin)
		if !ok {
			return
		}
		patientID := chi.URLParam(r, "patientID")
		if claims.Role == auth.RolePatient && claims.UserID != patientID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req upsertRecordRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		rec, err := svc.Upsert(r.Context(), patientID, UpsertInput{
			Diagnoses:   req.Diagnoses,
			Medications: req.Medications,
			Allergies:   req.Allergies,
			BloodGroup:  req.BloodGroup,
			HeightCM:    req.HeightCM,
			WeightKG:    req.WeightKG,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRecordResponse(rec MedicalRecord) recordResponse {
	return recordResponse{
		PatientID:   rec.PatientID,
		Diagnoses:   nonNil(rec.Diagnoses),
		Medications: nonNil(rec.Medications),
		Allergies:   nonNil(rec.Allergies),
		BloodGroup:  rec.BloodGroup,
		HeightCM:    rec.HeightCM,
		WeightKG:    rec.WeightKG,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
