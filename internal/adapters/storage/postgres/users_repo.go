package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"healthcare-portal/internal/domain/users"
	"healthcare-portal/internal/ports/auth"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, name, email, role, password_hash, must_change_password,
	doctor_profile, patient_profile`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	doctor, patient, err := marshalProfiles(u)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		u.ID,
		u.Name,
		strings.ToLower(u.Email),
		string(u.Role),
		u.PasswordHash,
		u.MustChangePassword,
		doctor,
		patient,
	)
	if isUniqueViolation(err) {
		return users.ErrConflict
	}
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	doctor, patient, err := marshalProfiles(u)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			name = $2,
			password_hash = $3,
			must_change_password = $4,
			doctor_profile = $5,
			patient_profile = $6
		WHERE id = $1
	`,
		u.ID,
		u.Name,
		u.PasswordHash,
		u.MustChangePassword,
		doctor,
		patient,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, strings.TrimSpace(id))
	return r.scanOne(row)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return r.scanOne(row)
}

func (r *UsersRepo) ListByRole(ctx context.Context, role auth.Role) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE $1::text = '' OR role = $1
		ORDER BY seq ASC
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UsersRepo) scanOne(row *sql.Row) (users.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	return u, nil
}

func scanUser(s rowScanner) (users.User, error) {
	var (
		u       users.User
		role    string
		doctor  []byte
		patient []byte
	)
	if err := s.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&role,
		&u.PasswordHash,
		&u.MustChangePassword,
		&doctor,
		&patient,
	); err != nil {
		return users.User{}, err
	}
	u.Role = auth.Role(role)

	if len(doctor) > 0 {
		u.Doctor = &users.DoctorProfile{}
		if err := json.Unmarshal(doctor, u.Doctor); err != nil {
			return users.User{}, err
		}
	}
	if len(patient) > 0 {
		u.Patient = &users.PatientProfile{}
		if err := json.Unmarshal(patient, u.Patient); err != nil {
			return users.User{}, err
		}
	}
	return u, nil
}

// marshalProfiles: perfil nil => NULL.
func marshalProfiles(u users.User) (doctor, patient []byte, err error) {
	if u.Doctor != nil {
		if doctor, err = json.Marshal(u.Doctor); err != nil {
			return nil, nil, err
		}
	}
	if u.Patient != nil {
		if patient, err = json.Marshal(u.Patient); err != nil {
			return nil, nil, err
		}
	}
	return doctor, patient, nil
}
