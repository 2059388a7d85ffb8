package pmr

import (
	"errors"
	"net/http"
	"time"

	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/web"
	"healthcare-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Paciente: sus archivos y su código de acceso
	r.Get("/me/pmr", myPMRHandler(svc))
	r.Post("/me/pmr/access-code", generateCodeHandler(svc))
	r.Get("/me/pmr/access-code", activeCodeHandler(svc))

	// Doctor: desbloquear con el código que le pasó el paciente
	r.Post("/patients/{patientID}/pmr/unlock", unlockHandler(svc))
}

type generateCodeRequest struct {
	Days  int `json:"days" validate:"gte=0,lte=365"`
	Hours int `json:"hours" validate:"gte=0,lte=23"`
}

type unlockRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

type fileResponse struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type FileType `json:"type"`
	URL  string   `json:"url"`
}

type accessCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type myPMRResponse struct {
	Files      []fileResponse      `json:"files"`
	AccessCode *accessCodeResponse `json:"access_code,omitempty"`
}

type unlockResponse struct {
	Files     []fileResponse `json:"files"`
	ExpiresAt time.Time      `json:"expires_at"`
}

func myPMRHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		files, err := svc.ListFiles(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := myPMRResponse{Files: toFileResponses(files)}
		if ac, err := svc.ActiveCode(r.Context(), claims.UserID); err == nil {
			out.AccessCode = &accessCodeResponse{Code: ac.Code, ExpiresAt: ac.ExpiresAt}
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

// generateCodeHandler godoc
// @Summary Generar código de acceso al PMR
// @Description Código de 6 caracteres válido por days+hours (debe ser > 0). Reemplaza el código anterior.
// @Tags pmr
// @Accept json
// @Produce json
// @Param payload body generateCodeRequest true "Vigencia"
// @Success 201 {object} accessCodeResponse
// @Failure 400 {string} string "invalid input"
// @Router /me/pmr/access-code [post]
func generateCodeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		var req generateCodeRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ac, err := svc.GenerateCode(r.Context(), claims.UserID, req.Days, req.Hours)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusCreated, accessCodeResponse{Code: ac.Code, ExpiresAt: ac.ExpiresAt})
	}
}

func activeCodeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		ac, err := svc.ActiveCode(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "no active access code", http.StatusNotFound)
				return
			}
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, accessCodeResponse{Code: ac.Code, ExpiresAt: ac.ExpiresAt})
	}
}

// unlockHandler godoc
// @Summary Desbloquear PMR de un paciente
// @Description El doctor envía el código que le compartió el paciente y recibe los archivos mientras el código siga vigente.
// @Tags pmr
// @Accept json
// @Produce json
// @Param patientID path string true "Patient ID"
// @Param payload body unlockRequest true "Código"
// @Success 200 {object} unlockResponse
// @Failure 403 {string} string "invalid or expired access code"
// @Router /patients/{patientID}/pmr/unlock [post]
func unlockHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.RequireRole(w, r, auth.RoleDoctor); !ok {
			return
		}

		var req unlockRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		files, exp, err := svc.Unlock(r.Context(), chi.URLParam(r, "patientID"), req.Code)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, unlockResponse{Files: toFileResponses(files), ExpiresAt: exp})
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidCode):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toFileResponses(files []File) []fileResponse {
	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileResponse{ID: f.ID, Name: f.Name, Type: f.Type, URL: f.URL})
	}
	return out
}
