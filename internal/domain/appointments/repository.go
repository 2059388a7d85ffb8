package appointments

import "context"

// Repository es el dueño de la colección de citas.
// List devuelve las citas en orden de inserción.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)
}

// ListFilter: campos vacíos = sin filtro.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Statuses  []Status
}
