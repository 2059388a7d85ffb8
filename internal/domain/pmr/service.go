package pmr

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"healthcare-portal/internal/platform/logger"
	"healthcare-portal/internal/platform/randcode"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pmr not found")
	ErrInvalidCode  = errors.New("invalid or expired access code")
)

const CodeLength = 6

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log.With(map[string]any{"module": "pmr"}),
		now:  time.Now,
	}
}

// GenerateCode emite un código nuevo válido por days+hours y reemplaza el anterior.
func (s *Service) GenerateCode(ctx context.Context, patientID string, days, hours int) (AccessCode, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" || days < 0 || hours < 0 {
		return AccessCode{}, ErrInvalidInput
	}
	validity := time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour
	if validity <= 0 {
		return AccessCode{}, ErrInvalidInput
	}

	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return AccessCode{}, err
		}
		// Sin archivos todavía: se crea el PMR vacío.
		p = PMR{PatientID: patientID}
	}

	code, err := randcode.Generate(CodeLength, randcode.Upper)
	if err != nil {
		return AccessCode{}, err
	}
	ac := AccessCode{
		Code:      code,
		ExpiresAt: s.now().UTC().Add(validity),
	}
	p.AccessCode = &ac

	if err := s.repo.Save(ctx, p); err != nil {
		return AccessCode{}, err
	}

	s.log.Info("pmr access code generated", map[string]any{
		"patient_id": patientID,
		"expires_at": ac.ExpiresAt,
	})
	return ac, nil
}

// ActiveCode devuelve el código vigente o ErrNotFound si no hay / expiró.
func (s *Service) ActiveCode(ctx context.Context, patientID string) (AccessCode, error) {
	p, err := s.get(ctx, patientID)
	if err != nil {
		return AccessCode{}, err
	}
	if !s.active(p.AccessCode) {
		return AccessCode{}, ErrNotFound
	}
	return *p.AccessCode, nil
}

// Unlock valida el código de un doctor y devuelve los archivos del paciente
// junto con la expiración del acceso.
func (s *Service) Unlock(ctx context.Context, patientID, code string) ([]File, time.Time, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, time.Time{}, ErrInvalidCode
	}

	p, err := s.get(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, time.Time{}, ErrInvalidCode
		}
		return nil, time.Time{}, err
	}
	if !s.active(p.AccessCode) ||
		subtle.ConstantTimeCompare([]byte(p.AccessCode.Code), []byte(code)) != 1 {
		s.log.Warn("pmr unlock rejected", map[string]any{"patient_id": p.PatientID})
		return nil, time.Time{}, ErrInvalidCode
	}

	return p.Files, p.AccessCode.ExpiresAt, nil
}

// ListFiles: archivos del propio paciente; sin PMR devuelve lista vacía.
func (s *Service) ListFiles(ctx context.Context, patientID string) ([]File, error) {
	p, err := s.get(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []File{}, nil
		}
		return nil, err
	}
	return p.Files, nil
}

func (s *Service) active(ac *AccessCode) bool {
	return ac != nil && s.now().Before(ac.ExpiresAt)
}

func (s *Service) get(ctx context.Context, patientID string) (PMR, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return PMR{}, ErrInvalidInput
	}
	p, err := s.repo.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PMR{}, ErrNotFound
		}
		return PMR{}, err
	}
	return p, nil
}
