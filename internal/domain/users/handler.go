package users

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/web"
	"healthcare-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Post("/auth/login", loginHandler(svc, issuer))

	r.Get("/me", meHandler(svc))
	r.Patch("/me", updateMeHandler(svc))
	r.Post("/me/password", changePasswordHandler(svc))

	// Directorio de doctores (para solicitar citas)
	r.Get("/doctors", listDoctorsHandler(svc))

	// Administración
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc))
		ur.Post("/{userID}/reset-password", resetPasswordHandler(svc))
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type doctorProfileDTO struct {
	Specialty       string  `json:"specialty"`
	Experience      int     `json:"experience" validate:"gte=0"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=5"`
	AvailableHours  string  `json:"available_hours"`
	ConsultationFee float64 `json:"consultation_fee" validate:"gte=0"`
	LicenseNumber   string  `json:"license_number"`
}

type patientProfileDTO struct {
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      Gender `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

type createUserRequest struct {
	Name    string             `json:"name" validate:"required,min=2"`
	Email   string             `json:"email" validate:"required,email"`
	Role    auth.Role          `json:"role" validate:"required,oneof=admin doctor patient"`
	Doctor  *doctorProfileDTO  `json:"doctor,omitempty"`
	Patient *patientProfileDTO `json:"patient,omitempty"`
}

type createUserResponse struct {
	User              userResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password"`
}

type updateMeRequest struct {
	Name    *string            `json:"name" validate:"omitempty,min=2"`
	Doctor  *doctorProfileDTO  `json:"doctor"`
	Patient *patientProfileDTO `json:"patient"`
}

type userResponse struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Role               auth.Role          `json:"role"`
	MustChangePassword bool               `json:"must_change_password"`
	Doctor             *doctorProfileDTO  `json:"doctor,omitempty"`
	Patient            *patientProfileDTO `json:"patient,omitempty"`
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Valida email y contraseña y devuelve un token Bearer.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "invalid credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		token, exp, err := issuer.Issue(r.Context(), auth.Claims{UserID: u.ID, Email: u.Email, Role: u.Role})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		web.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     token,
			ExpiresAt: exp,
			User:      toUserResponse(u),
		})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}
		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// updateMeHandler godoc
// @Summary Editar perfil propio
// @Description Actualiza nombre y el perfil del rol (doctor o paciente). Campos ausentes no se tocan.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body updateMeRequest true "Cambios"
// @Success 200 {object} userResponse
// @Router /me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}

		var req updateMeRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u, err := svc.UpdateProfile(r.Context(), claims.UserID, UpdateProfileInput{
			Name:    req.Name,
			Doctor:  fromDoctorDTO(req.Doctor),
			Patient: fromPatientDTO(req.Patient),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func changePasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}

		var req changePasswordRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listDoctorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireClaims(w, r); !ok {
			return
		}
		items, err := svc.ListByRole(r.Context(), auth.RoleDoctor)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			resp := toUserResponse(u)
			resp.MustChangePassword = false
			out = append(out, resp)
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireRole(w, r, auth.RoleAdmin); !ok {
			return
		}

		role := auth.Role(strings.TrimSpace(r.URL.Query().Get("role")))
		items, err := svc.ListByRole(r.Context(), role)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

// createUserHandler godoc
// @Summary Alta de usuario (admin)
// @Description Crea un doctor, paciente o admin con contraseña temporal; el usuario deberá cambiarla.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body createUserRequest true "Datos del usuario"
// @Success 201 {object} createUserResponse
// @Failure 409 {string} string "email already registered"
// @Router /users [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireRole(w, r, auth.RoleAdmin); !ok {
			return
		}

		var req createUserRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		u, temp, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Email:   req.Email,
			Role:    req.Role,
			Doctor:  fromDoctorDTO(req.Doctor),
			Patient: fromPatientDTO(req.Patient),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, createUserResponse{
			User:              toUserResponse(u),
			TemporaryPassword: temp,
		})
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireRole(w, r, auth.RoleAdmin); !ok {
			return
		}
		u, err := svc.GetByID(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RoleAdmin)
		if !ok {
			return
		}
		id := chi.URLParam(r, "userID")
		if id == claims.UserID {
			http.Error(w, "cannot remove yourself", http.StatusBadRequest)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func resetPasswordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireRole(w, r, auth.RoleAdmin); !ok {
			return
		}
		temp, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, map[string]string{"temporary_password": temp})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toUserResponse(u User) userResponse {
	out := userResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
	}
	if d := u.Doctor; d != nil {
		out.Doctor = &doctorProfileDTO{
			Specialty:       d.Specialty,
			Experience:      d.Experience,
			Rating:          d.Rating,
			AvailableHours:  d.AvailableHours,
			ConsultationFee: d.ConsultationFee,
			LicenseNumber:   d.LicenseNumber,
		}
	}
	if p := u.Patient; p != nil {
		out.Patient = &patientProfileDTO{
			Phone:       p.Phone,
			Address:     p.Address,
			DateOfBirth: p.DateOfBirth,
			Gender:      p.Gender,
		}
	}
	return out
}

func fromDoctorDTO(d *doctorProfileDTO) *DoctorProfile {
	if d == nil {
		return nil
	}
	return &DoctorProfile{
		Specialty:       strings.TrimSpace(d.Specialty),
		Experience:      d.Experience,
		Rating:          d.Rating,
		AvailableHours:  strings.TrimSpace(d.AvailableHours),
		ConsultationFee: d.ConsultationFee,
		LicenseNumber:   strings.TrimSpace(d.LicenseNumber),
	}
}

func fromPatientDTO(p *patientProfileDTO) *PatientProfile {
	if p == nil {
		return nil
	}
	return &PatientProfile{
		Phone:       strings.TrimSpace(p.Phone),
		Address:     strings.TrimSpace(p.Address),
		DateOfBirth: strings.TrimSpace(p.DateOfBirth),
		Gender:      p.Gender,
	}
}
