package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"healthcare-portal/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const appointmentColumns = `
	id, patient_id, patient_name, doctor_id, doctor_name,
	date, reason, status, suggested_date, cancellation_reason`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.PatientID,
		a.PatientName,
		a.DoctorID,
		a.DoctorName,
		a.Date,
		a.Reason,
		string(a.Status),
		toNullTime(a.SuggestedDate),
		a.CancellationReason,
	)
	return err
}

// Update solo toca los campos mutables del ciclo de vida.
func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			date = $2,
			status = $3,
			suggested_date = $4,
			cancellation_reason = $5
		WHERE id = $1
	`,
		a.ID,
		a.Date,
		string(a.Status),
		toNullTime(a.SuggestedDate),
		a.CancellationReason,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) List(ctx context.Context, filter appointments.ListFilter) ([]appointments.Appointment, error) {
	var (
		where []string
		args  []any
	)
	if v := strings.TrimSpace(filter.PatientID); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if v := strings.TrimSpace(filter.DoctorID); v != "" {
		args = append(args, v)
		where = append(where, fmt.Sprintf("doctor_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	q := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(s rowScanner) (appointments.Appointment, error) {
	var (
		a         appointments.Appointment
		status    string
		suggested sql.NullTime
	)
	if err := s.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.DoctorID,
		&a.DoctorName,
		&a.Date,
		&a.Reason,
		&status,
		&suggested,
		&a.CancellationReason,
	); err != nil {
		return appointments.Appointment{}, err
	}
	a.Date = a.Date.UTC()
	a.Status = appointments.Status(status)
	a.SuggestedDate = fromNullTime(suggested)
	return a, nil
}
