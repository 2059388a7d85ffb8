package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"healthcare-portal/internal/domain/appointments"
)

type appointmentRepo struct {
	mu    sync.RWMutex
	order []string // orden de inserción
	byID  map[string]appointments.Appointment
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{
		byID: make(map[string]appointments.Appointment),
	}
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}
	r.byID[a.ID] = cloneAppointment(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *appointmentRepo) Update(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[a.ID]; !exists {
		return appointments.ErrNotFound
	}
	r.byID[a.ID] = cloneAppointment(a)
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return cloneAppointment(a), nil
}

func (r *appointmentRepo) List(ctx context.Context, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]appointments.Appointment, 0, len(r.order))
	for _, id := range r.order {
		a := r.byID[id]
		if filter.PatientID != "" && a.PatientID != filter.PatientID {
			continue
		}
		if filter.DoctorID != "" && a.DoctorID != filter.DoctorID {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, a.Status) {
			continue
		}
		out = append(out, cloneAppointment(a))
	}
	return out, nil
}

func hasStatus(in []appointments.Status, s appointments.Status) bool {
	for _, v := range in {
		if v == s {
			return true
		}
	}
	return false
}

// Copia el puntero de SuggestedDate para que nadie mute el estado del repo.
func cloneAppointment(a appointments.Appointment) appointments.Appointment {
	if a.SuggestedDate != nil {
		t := *a.SuggestedDate
		a.SuggestedDate = &t
	}
	return a
}
