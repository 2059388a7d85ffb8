// Package seed carga el set de datos inicial del portal (usuarios demo,
// citas, fichas y PMRs). Es idempotente: lo que ya existe no se toca.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthcare-portal/internal/domain/appointments"
	"healthcare-portal/internal/domain/medicalrecords"
	"healthcare-portal/internal/domain/pmr"
	"healthcare-portal/internal/domain/users"
	"healthcare-portal/internal/platform/logger"
	"healthcare-portal/internal/ports/auth"
)

// DefaultPassword de todas las cuentas demo.
const DefaultPassword = "password"

type Hasher interface {
	HashPassword(plain string) (string, error)
}

type Stores struct {
	Users        users.Repository
	Appointments appointments.Repository
	Records      medicalrecords.Repository
	PMRs         pmr.Repository
}

func Load(ctx context.Context, st Stores, hasher Hasher, log logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}

	hash, err := hasher.HashPassword(DefaultPassword)
	if err != nil {
		return err
	}

	created := 0
	for _, u := range Users() {
		if _, err := st.Users.GetByID(ctx, u.ID); err == nil {
			continue
		} else if !errors.Is(err, users.ErrNotFound) {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		u.PasswordHash = hash
		if err := st.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
		created++
	}

	for _, a := range Appointments() {
		if _, err := st.Appointments.GetByID(ctx, a.ID); err == nil {
			continue
		} else if !errors.Is(err, appointments.ErrNotFound) {
			return fmt.Errorf("seed appointment %s: %w", a.ID, err)
		}
		if err := st.Appointments.Create(ctx, a); err != nil {
			return fmt.Errorf("seed appointment %s: %w", a.ID, err)
		}
		created++
	}

	for _, rec := range MedicalRecords() {
		if _, err := st.Records.Get(ctx, rec.PatientID); err == nil {
			continue
		} else if !errors.Is(err, medicalrecords.ErrNotFound) {
			return fmt.Errorf("seed medical record %s: %w", rec.PatientID, err)
		}
		if err := st.Records.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed medical record %s: %w", rec.PatientID, err)
		}
		created++
	}

	for _, p := range PMRs() {
		if _, err := st.PMRs.Get(ctx, p.PatientID); err == nil {
			continue
		} else if !errors.Is(err, pmr.ErrNotFound) {
			return fmt.Errorf("seed pmr %s: %w", p.PatientID, err)
		}
		if err := st.PMRs.Save(ctx, p); err != nil {
			return fmt.Errorf("seed pmr %s: %w", p.PatientID, err)
		}
		created++
	}

	log.Info("seed loaded", map[string]any{"created": created})
	return nil
}

func Users() []users.User {
	return []users.User{
		{
			ID:    "admin-1",
			Name:  "Admin User",
			Email: "admin@webgen.com",
			Role:  auth.RoleAdmin,
		},
		{
			ID:    "doc-1",
			Name:  "Dr. Emily Carter",
			Email: "emily.carter@webgen.com",
			Role:  auth.RoleDoctor,
			Doctor: &users.DoctorProfile{
				Specialty:       "Cardiology",
				Experience:      15,
				Rating:          4.8,
				AvailableHours:  "09:00 - 17:00",
				ConsultationFee: 150,
				LicenseNumber:   "MD-12345",
			},
		},
		{
			ID:    "doc-2",
			Name:  "Dr. Ben Hanson",
			Email: "ben.hanson@webgen.com",
			Role:  auth.RoleDoctor,
			Doctor: &users.DoctorProfile{
				Specialty:       "Neurology",
				Experience:      12,
				Rating:          4.9,
				AvailableHours:  "10:00 - 18:00",
				ConsultationFee: 180,
				LicenseNumber:   "MD-67890",
			},
		},
		{
			ID:    "patient-1",
			Name:  "John Doe",
			Email: "john.doe@email.com",
			Role:  auth.RolePatient,
			Patient: &users.PatientProfile{
				Phone:       "123-456-7890",
				Address:     "123 Main St, Anytown, USA",
				DateOfBirth: "1985-05-20",
				Gender:      users.GenderMale,
			},
		},
		{
			ID:    "patient-2",
			Name:  "Jane Smith",
			Email: "jane.smith@email.com",
			Role:  auth.RolePatient,
			Patient: &users.PatientProfile{
				Phone:       "987-654-3210",
				Address:     "456 Oak Ave, Somecity, USA",
				DateOfBirth: "1992-11-15",
				Gender:      users.GenderFemale,
			},
		},
	}
}

func Appointments() []appointments.Appointment {
	return []appointments.Appointment{
		{
			ID:          "appt-1",
			PatientID:   "patient-1",
			PatientName: "John Doe",
			DoctorID:    "doc-1",
			DoctorName:  "Dr. Emily Carter",
			Date:        mustTime("2024-08-15T10:00:00Z"),
			Reason:      "Annual check-up.",
			Status:      appointments.StatusPending,
		},
		{
			ID:          "appt-2",
			PatientID:   "patient-2",
			PatientName: "Jane Smith",
			DoctorID:    "doc-2",
			DoctorName:  "Dr. Ben Hanson",
			Date:        mustTime("2024-08-16T14:30:00Z"),
			Reason:      "Follow-up for migraines.",
			Status:      appointments.StatusApproved,
		},
		{
			ID:          "appt-3",
			PatientID:   "patient-1",
			PatientName: "John Doe",
			DoctorID:    "doc-2",
			DoctorName:  "Dr. Ben Hanson",
			Date:        mustTime("2024-08-20T09:00:00Z"),
			Reason:      "Consultation about headaches.",
			Status:      appointments.StatusPending,
		},
		{
			ID:          "appt-4",
			PatientID:   "patient-2",
			PatientName: "Jane Smith",
			DoctorID:    "doc-1",
			DoctorName:  "Dr. Emily Carter",
			Date:        mustTime("2024-07-25T11:00:00Z"),
			Reason:      "Chest pain evaluation.",
			Status:      appointments.StatusDenied,
		},
	}
}

func MedicalRecords() []medicalrecords.MedicalRecord {
	return []medicalrecords.MedicalRecord{
		{
			PatientID:   "patient-1",
			Diagnoses:   []string{"Hypertension", "Type 2 Diabetes"},
			Medications: []string{"Lisinopril", "Metformin"},
			Allergies:   []string{"Penicillin"},
			BloodGroup:  medicalrecords.BloodOPos,
			HeightCM:    180,
			WeightKG:    85,
		},
		{
			PatientID:   "patient-2",
			Diagnoses:   []string{"Asthma"},
			Medications: []string{"Albuterol Inhaler"},
			Allergies:   []string{"Pollen", "Dust Mites"},
			BloodGroup:  medicalrecords.BloodANeg,
			HeightCM:    165,
			WeightKG:    60,
		},
	}
}

func PMRs() []pmr.PMR {
	return []pmr.PMR{
		{
			PatientID: "patient-1",
			Files: []pmr.File{
				{ID: "file-1", Name: "Blood_Test_Results.pdf", Type: pmr.FileTypePDF, URL: "/mock-records/blood-test.pdf"},
				{ID: "file-2", Name: "Chest_XRay.jpg", Type: pmr.FileTypeImage, URL: "/mock-records/x-ray.jpg"},
			},
		},
		{
			PatientID: "patient-2",
			Files: []pmr.File{
				{ID: "file-3", Name: "MRI_Scan_Report.pdf", Type: pmr.FileTypePDF, URL: "/mock-records/mri-report.pdf"},
			},
		},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
