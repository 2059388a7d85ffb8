package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"healthcare-portal/internal/platform/logger"
	"healthcare-portal/internal/platform/randcode"
	"healthcare-portal/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrConflict           = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const (
	MinPasswordLength  = 8
	tempPasswordLength = 8
)

type Service struct {
	repo Repository
	log  logger.Logger
	cost int
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "users"}),
		cost: bcrypt.DefaultCost,
	}
}

// HashPassword usa el mismo costo que el servicio; lo usa el seed.
func (s *Service) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Authenticate valida email + contraseña.
// Nunca distingue "no existe" de "contraseña incorrecta".
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("login failed", map[string]any{"user_id": u.ID})
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

type CreateInput struct {
	Name    string
	Email   string
	Role    auth.Role
	Doctor  *DoctorProfile
	Patient *PatientProfile
}

// Create da de alta un usuario (acción de admin) con una contraseña temporal
// que se devuelve una sola vez. El usuario debe cambiarla en el primer login.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if len(name) < 2 || !in.Role.Valid() {
		return User{}, "", ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, "", ErrInvalidInput
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, "", ErrConflict
	}

	temp, err := randcode.Generate(tempPasswordLength, randcode.Alphanumeric)
	if err != nil {
		return User{}, "", err
	}
	hash, err := s.HashPassword(temp)
	if err != nil {
		return User{}, "", err
	}

	u := User{
		ID:                 uuid.NewString(),
		Name:               name,
		Email:              email,
		Role:               in.Role,
		PasswordHash:       hash,
		MustChangePassword: true,
	}
	switch in.Role {
	case auth.RoleDoctor:
		u.Doctor = in.Doctor
		if u.Doctor == nil {
			u.Doctor = &DoctorProfile{}
		}
	case auth.RolePatient:
		u.Patient = in.Patient
		if u.Patient == nil {
			u.Patient = &PatientProfile{}
		}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, "", err
	}

	s.log.Info("user created", map[string]any{"user_id": u.ID, "role": string(u.Role)})
	return u, temp, nil
}

// ChangePassword exige la contraseña actual salvo que el usuario esté
// forzado a cambiarla.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrInvalidInput
	}

	u, err := s.get(ctx, userID)
	if err != nil {
		return err
	}
	if !u.MustChangePassword {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.MustChangePassword = false

	return s.repo.Update(ctx, u)
}

// ResetPassword (admin) genera una nueva contraseña temporal.
func (s *Service) ResetPassword(ctx context.Context, userID string) (string, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}

	temp, err := randcode.Generate(tempPasswordLength, randcode.Alphanumeric)
	if err != nil {
		return "", err
	}
	hash, err := s.HashPassword(temp)
	if err != nil {
		return "", err
	}
	u.PasswordHash = hash
	u.MustChangePassword = true

	if err := s.repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.log.Info("password reset", map[string]any{"user_id": u.ID})
	return temp, nil
}

// UpdateProfileInput: punteros nil = no tocar.
type UpdateProfileInput struct {
	Name    *string
	Doctor  *DoctorProfile
	Patient *PatientProfile
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (User, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 2 {
			return User{}, ErrInvalidInput
		}
		u.Name = name
	}
	if in.Doctor != nil {
		if u.Role != auth.RoleDoctor {
			return User{}, ErrInvalidInput
		}
		u.Doctor = in.Doctor
	}
	if in.Patient != nil {
		if u.Role != auth.RolePatient {
			return User{}, ErrInvalidInput
		}
		if g := in.Patient.Gender; g != "" && g != GenderMale && g != GenderFemale && g != GenderOther {
			return User{}, ErrInvalidInput
		}
		u.Patient = in.Patient
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if _, err := s.get(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user removed", map[string]any{"user_id": userID})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.get(ctx, id)
}

func (s *Service) ListByRole(ctx context.Context, role auth.Role) ([]User, error) {
	if role != "" && !role.Valid() {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByRole(ctx, role)
}

// NameOf implementa appointments.Directory: el usuario debe existir con ese rol.
func (s *Service) NameOf(ctx context.Context, userID, role string) (string, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	if string(u.Role) != role {
		return "", ErrNotFound
	}
	return u.Name, nil
}

// RoleOf implementa auth.RoleLookup para el modo dev.
func (s *Service) RoleOf(ctx context.Context, userID string) (auth.Role, error) {
	u, err := s.get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) get(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
