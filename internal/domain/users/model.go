package users

import "healthcare-portal/internal/ports/auth"

// Gender del paciente.
// @Enum Male, Female, Other
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// DoctorProfile solo aplica a usuarios con rol doctor.
type DoctorProfile struct {
	Specialty       string
	Experience      int // años
	Rating          float64
	AvailableHours  string // "09:00 - 17:00"
	ConsultationFee float64
	LicenseNumber   string
}

// PatientProfile solo aplica a usuarios con rol patient.
type PatientProfile struct {
	Phone       string
	Address     string
	DateOfBirth string // YYYY-MM-DD
	Gender      Gender
}

type User struct {
	ID    string
	Name  string
	Email string
	Role  auth.Role

	PasswordHash       string
	MustChangePassword bool

	Doctor  *DoctorProfile
	Patient *PatientProfile
}
