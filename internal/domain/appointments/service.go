package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"healthcare-portal/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("appointment not found")
	ErrBadState           = errors.New("invalid state")
	ErrUnknownParticipant = errors.New("unknown patient or doctor")
)

// DefaultUpcomingLimit es el tope del resumen de próximas citas.
const DefaultUpcomingLimit = 3

// Directory resuelve nombres de pacientes/doctores al crear una cita.
// Evita importar el paquete users.
type Directory interface {
	NameOf(ctx context.Context, userID, role string) (string, error)
}

type Service struct {
	repo Repository
	dir  Directory
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, dir Directory, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		dir:  dir,
		log:  log.With(map[string]any{"module": "appointments"}),
		now:  time.Now,
	}
}

type CreateInput struct {
	PatientID string
	DoctorID  string
	Date      time.Time
	Reason    string
}

// Create registra una solicitud de cita en estado pending.
// No se valida disponibilidad del doctor: se permiten citas superpuestas.
func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	patientID := strings.TrimSpace(in.PatientID)
	doctorID := strings.TrimSpace(in.DoctorID)
	reason := strings.TrimSpace(in.Reason)

	if patientID == "" || doctorID == "" || reason == "" {
		return Appointment{}, ErrInvalidInput
	}
	if in.Date.IsZero() || !in.Date.After(s.now()) {
		return Appointment{}, ErrInvalidInput
	}

	patientName, err := s.dir.NameOf(ctx, patientID, "patient")
	if err != nil {
		return Appointment{}, ErrUnknownParticipant
	}
	doctorName, err := s.dir.NameOf(ctx, doctorID, "doctor")
	if err != nil {
		return Appointment{}, ErrUnknownParticipant
	}

	a := Appointment{
		ID:          uuid.NewString(),
		PatientID:   patientID,
		PatientName: patientName,
		DoctorID:    doctorID,
		DoctorName:  doctorName,
		Date:        in.Date.UTC(),
		Reason:      reason,
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment created", map[string]any{
		"appointment_id": a.ID,
		"patient_id":     a.PatientID,
		"doctor_id":      a.DoctorID,
	})
	return a, nil
}

// SetStatus aplica cualquier transición (no hay tabla de transiciones).
// Los detalles se mezclan sobre la cita; luego se limpian los campos que
// no corresponden al nuevo estado.
func (s *Service) SetStatus(ctx context.Context, id string, status Status, d Details) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" || !status.Valid() {
		return Appointment{}, ErrInvalidInput
	}
	// una fecha sugerida siempre es a futuro, igual que en Create
	if d.SuggestedDate != nil && !d.SuggestedDate.After(s.now()) {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	prev := a.Status

	a.Status = status
	if d.SuggestedDate != nil {
		t := d.SuggestedDate.UTC()
		a.SuggestedDate = &t
	}
	if r := strings.TrimSpace(d.CancellationReason); r != "" {
		a.CancellationReason = r
	}

	if status != StatusCancelled {
		a.CancellationReason = ""
	}
	if status != StatusRescheduled && status != StatusPending {
		a.SuggestedDate = nil
	}
	// pending sin detalles no hereda la sugerencia del doctor
	if status == StatusPending && d.SuggestedDate == nil {
		a.SuggestedDate = nil
	}

	switch status {
	case StatusRescheduled:
		if a.SuggestedDate == nil {
			return Appointment{}, ErrInvalidInput
		}
	case StatusCancelled:
		if a.CancellationReason == "" {
			return Appointment{}, ErrInvalidInput
		}
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("appointment status changed", map[string]any{
		"appointment_id": a.ID,
		"from":           string(prev),
		"to":             string(a.Status),
	})
	return a, nil
}

// ProposeNewDate es la contrapropuesta del paciente a una reprogramación:
// vuelve a pending con fecha sugerida, sin tocar la fecha confirmada.
// Solo aplica sobre citas en rescheduled.
func (s *Service) ProposeNewDate(ctx context.Context, id string, date time.Time) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" || !date.After(s.now()) {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusRescheduled {
		return Appointment{}, ErrBadState
	}
	return s.SetStatus(ctx, id, StatusPending, Details{SuggestedDate: &date})
}

// RespondToReschedule aplica la respuesta del paciente a una reprogramación.
// Requiere estado rescheduled con fecha sugerida.
func (s *Service) RespondToReschedule(ctx context.Context, id string, resp Response) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	if resp != ResponseAccept && resp != ResponseDeny {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusRescheduled || a.SuggestedDate == nil {
		return Appointment{}, ErrBadState
	}

	switch resp {
	case ResponseAccept:
		a.Status = StatusApproved
		a.Date = *a.SuggestedDate
	case ResponseDeny:
		a.Status = StatusDenied
	}
	a.SuggestedDate = nil

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.log.Info("reschedule answered", map[string]any{
		"appointment_id": a.ID,
		"response":       string(resp),
	})
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.get(ctx, id)
}

// List devuelve todas las citas en orden de inserción.
func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx, ListFilter{})
}

// ListByPatient ordena por fecha descendente.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.List(ctx, ListFilter{PatientID: patientID})
	if err != nil {
		return nil, err
	}
	SortByDateDesc(items)
	return items, nil
}

// ListByDoctor ordena por fecha descendente.
func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]Appointment, error) {
	doctorID = strings.TrimSpace(doctorID)
	if doctorID == "" {
		return nil, ErrInvalidInput
	}
	items, err := s.repo.List(ctx, ListFilter{DoctorID: doctorID})
	if err != nil {
		return nil, err
	}
	SortByDateDesc(items)
	return items, nil
}

// UpcomingApproved: citas aprobadas a futuro del paciente, ascendente, primeras n.
func (s *Service) UpcomingApproved(ctx context.Context, patientID string, n int) ([]Appointment, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, ErrInvalidInput
	}
	if n <= 0 {
		n = DefaultUpcomingLimit
	}

	items, err := s.repo.List(ctx, ListFilter{
		PatientID: patientID,
		Statuses:  []Status{StatusApproved},
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]Appointment, 0, len(items))
	for _, a := range items {
		if a.Date.After(now) {
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// SortByDateDesc es el orden por defecto de los listados.
func SortByDateDesc(items []Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

func (s *Service) get(ctx context.Context, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, err
	}
	return a, nil
}
