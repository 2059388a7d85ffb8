package advice

import (
	"errors"
	"net/http"

	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/web"
	"healthcare-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/me/advice", askHandler(svc))
}

type askRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

type adviceResponse struct {
	Advice               string `json:"advice"`
	ConsultDoctorMessage string `json:"consult_doctor_message"`
}

// askHandler godoc
// @Summary Consultar al asistente médico
// @Description Genera un consejo a partir de la ficha del paciente. Nunca reemplaza la consulta con un doctor.
// @Tags advice
// @Accept json
// @Produce json
// @Param payload body askRequest true "Consulta"
// @Success 200 {object} adviceResponse
// @Router /me/advice [post]
func askHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		var req askRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		out, err := svc.Ask(r.Context(), claims.UserID, req.Query)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		web.WriteJSON(w, http.StatusOK, adviceResponse{
			Advice:               out.Advice,
			ConsultDoctorMessage: out.ConsultDoctorMessage,
		})
	}
}
