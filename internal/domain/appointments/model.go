package appointments

import "time"

// Status es el estado de una cita dentro de su ciclo de vida.
// @Enum pending, approved, denied, rescheduled, cancelled
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDenied      Status = "denied"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusRescheduled, StatusCancelled:
		return true
	default:
		return false
	}
}

// Response es la respuesta del paciente a una propuesta de reprogramación.
type Response string

const (
	ResponseAccept Response = "accept"
	ResponseDeny   Response = "deny"
)

// Appointment representa una cita entre paciente y doctor.
// PatientName y DoctorName se copian al crear la cita y no se actualizan.
type Appointment struct {
	ID string

	PatientID   string
	PatientName string
	DoctorID    string
	DoctorName  string

	Date   time.Time // última fecha confirmada
	Reason string
	Status Status

	SuggestedDate      *time.Time // solo en rescheduled (o pending con contrapropuesta)
	CancellationReason string     // solo en cancelled
}

// Details acompaña a SetStatus. Campos vacíos = no tocar.
type Details struct {
	SuggestedDate      *time.Time
	CancellationReason string
}
