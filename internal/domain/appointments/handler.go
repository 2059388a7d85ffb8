package appointments

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/web"
	"healthcare-portal/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, upcomingLimit int) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/upcoming", upcomingHandler(svc, upcomingLimit))

		ar.Route("/{appointmentID}", func(ir chi.Router) {
			ir.Get("/", getAppointmentHandler(svc))
			ir.Post("/status", setStatusHandler(svc))
			ir.Post("/respond", respondHandler(svc))
			ir.Post("/propose", proposeHandler(svc))
		})
	})
}

// createAppointmentRequest es el cuerpo para solicitar una cita.
// PatientID solo lo usa un admin; un paciente siempre reserva para sí mismo.
type createAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id" validate:"required"`
	Date      string `json:"date" validate:"required"` // RFC3339
	Reason    string `json:"reason" validate:"required"`
}

type setStatusRequest struct {
	Status             Status `json:"status" validate:"required,oneof=pending approved denied rescheduled cancelled"`
	SuggestedDate      string `json:"suggested_date"` // RFC3339, requerido en rescheduled
	CancellationReason string `json:"cancellation_reason"`
}

type respondRequest struct {
	Response Response `json:"response" validate:"required,oneof=accept deny"`
}

type proposeRequest struct {
	Date string `json:"date" validate:"required"` // RFC3339
}

// appointmentResponse representa una cita devuelta por la API.
type appointmentResponse struct {
	ID                 string     `json:"id"`
	PatientID          string     `json:"patient_id"`
	PatientName        string     `json:"patient_name"`
	DoctorID           string     `json:"doctor_id"`
	DoctorName         string     `json:"doctor_name"`
	Date               time.Time  `json:"date"`
	Reason             string     `json:"reason"`
	Status             Status     `json:"status"`
	SuggestedDate      *time.Time `json:"suggested_date,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

// createAppointmentHandler godoc
// @Summary Solicitar cita
// @Description El paciente solicita una cita con un doctor; queda en estado `pending`. Un admin puede reservar indicando `patient_id`.
// @Tags appointments
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Doctor, fecha RFC3339 y motivo"
// @Success 201 {object} appointmentResponse
// @Failure 400 {string} string "invalid json / validation failed"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient, auth.RoleAdmin)
		if !ok {
			return
		}

		var req createAppointmentRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		patientID := claims.UserID
		if claims.Role == auth.RoleAdmin {
			patientID = strings.TrimSpace(req.PatientID)
			if patientID == "" {
				http.Error(w, "patient_id required", http.StatusBadRequest)
				return
			}
		}

		date, err := web.ParseTime("date", req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PatientID: patientID,
			DoctorID:  req.DoctorID,
			Date:      date,
			Reason:    req.Reason,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		web.WriteJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar citas
// @Description Paciente: sus citas. Doctor: sus citas (filtro opcional `patient_id`). Admin: todas. Orden por fecha descendente.
// @Tags appointments
// @Produce json
// @Param patient_id query string false "Solo doctor/admin: filtrar por paciente"
// @Success 200 {array} appointmentResponse
// @Failure 401 {string} string "unauthorized"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}

		var (
			items []Appointment
			err   error
		)
		switch claims.Role {
		case auth.RolePatient:
			items, err = svc.ListByPatient(r.Context(), claims.UserID)
		case auth.RoleDoctor:
			items, err = svc.ListByDoctor(r.Context(), claims.UserID)
		case auth.RoleAdmin:
			items, err = svc.List(r.Context())
			if err == nil {
				SortByDateDesc(items)
			}
		default:
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if pid := strings.TrimSpace(r.URL.Query().Get("patient_id")); pid != "" && claims.Role != auth.RolePatient {
			filtered := make([]Appointment, 0, len(items))
			for _, a := range items {
				if a.PatientID == pid {
					filtered = append(filtered, a)
				}
			}
			items = filtered
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

// upcomingHandler godoc
// @Summary Próximas citas aprobadas
// @Description Citas aprobadas a futuro del paciente autenticado, en orden ascendente.
// @Tags appointments
// @Produce json
// @Param limit query int false "Máximo a devolver (por defecto el configurado)"
// @Success 200 {array} appointmentResponse
// @Router /appointments/upcoming [get]
func upcomingHandler(svc *Service, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		limit := defaultLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 50 {
				limit = n
			}
		}

		items, err := svc.UpcomingApproved(r.Context(), claims.UserID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		web.WriteJSON(w, http.StatusOK, out)
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}

		a, err := svc.Get(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !canView(claims, a) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		web.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// setStatusHandler godoc
// @Summary Cambiar estado de una cita
// @Description Doctor de la cita (o admin): aprobar, rechazar, cancelar o proponer reprogramación. El paciente solo puede cancelar. `cancelled` exige `cancellation_reason`; `rescheduled` exige `suggested_date`.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body setStatusRequest true "Nuevo estado y detalles"
// @Success 200 {object} appointmentResponse
// @Failure 400 {string} string "validation failed"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "appointment not found"
// @Router /appointments/{appointmentID}/status [post]
func setStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "appointmentID")
		current, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		var req setStatusRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Permisos:
		// - Doctor de la cita / admin: cualquier estado
		// - Paciente de la cita: solo cancelar
		switch {
		case claims.Role == auth.RoleAdmin:
		case claims.Role == auth.RoleDoctor && current.DoctorID == claims.UserID:
		case claims.Role == auth.RolePatient && current.PatientID == claims.UserID && req.Status == StatusCancelled:
		default:
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var d Details
		d.CancellationReason = req.CancellationReason
		if strings.TrimSpace(req.SuggestedDate) != "" {
			t, err := web.ParseTime("suggested_date", req.SuggestedDate)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			d.SuggestedDate = &t
		}

		a, err := svc.SetStatus(r.Context(), id, req.Status, d)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// respondHandler godoc
// @Summary Responder a una reprogramación
// @Description El paciente acepta (la fecha pasa a ser la sugerida) o rechaza la fecha propuesta por el doctor.
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "ID de la cita"
// @Param payload body respondRequest true "accept | deny"
// @Success 200 {object} appointmentResponse
// @Failure 409 {string} string "invalid state"
// @Router /appointments/{appointmentID}/respond [post]
func respondHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		id := chi.URLParam(r, "appointmentID")
		current, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if current.PatientID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req respondRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.RespondToReschedule(r.Context(), id, req.Response)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// proposeHandler: contrapropuesta del paciente; 409 si la cita no está en rescheduled.
func proposeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireRole(w, r, auth.RolePatient)
		if !ok {
			return
		}

		id := chi.URLParam(r, "appointmentID")
		current, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if current.PatientID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req proposeRequest
		if err := web.Decode(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		date, err := web.ParseTime("date", req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		a, err := svc.ProposeNewDate(r.Context(), id, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		web.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func canView(c auth.Claims, a Appointment) bool {
	switch c.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleDoctor:
		return a.DoctorID == c.UserID
	case auth.RolePatient:
		return a.PatientID == c.UserID
	}
	return false
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownParticipant):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		PatientName:        a.PatientName,
		DoctorID:           a.DoctorID,
		DoctorName:         a.DoctorName,
		Date:               a.Date,
		Reason:             a.Reason,
		Status:             a.Status,
		SuggestedDate:      a.SuggestedDate,
		CancellationReason: a.CancellationReason,
	}
}
