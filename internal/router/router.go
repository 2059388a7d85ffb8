package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"healthcare-portal/docs"
	"healthcare-portal/internal/adapters/auth/jwtauth"
	mem "healthcare-portal/internal/adapters/storage/memory"
	pg "healthcare-portal/internal/adapters/storage/postgres"
	"healthcare-portal/internal/domain/advice"
	"healthcare-portal/internal/domain/appointments"
	"healthcare-portal/internal/domain/medicalrecords"
	"healthcare-portal/internal/domain/pmr"
	"healthcare-portal/internal/domain/users"
	"healthcare-portal/internal/middleware"
	"healthcare-portal/internal/platform/logger"
	"healthcare-portal/internal/ports/auth"
	"healthcare-portal/internal/seed"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger // nil => Nop

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// Seed carga los datos demo al arrancar (idempotente).
	Seed bool

	// DebugAuth acepta X-Debug-User-ID (solo desarrollo).
	DebugAuth bool
	JWTSecret string
	JWTTTL    time.Duration
	AppName   string

	// Advice puede ser nil: /me/advice responde con el mensaje de fallback.
	Advice advice.Generator

	UpcomingLimit int
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	tokens, err := jwtauth.New(jwtauth.Config{
		Secret: opts.JWTSecret,
		TTL:    opts.JWTTTL,
		Issuer: opts.AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	var (
		userRepo   users.Repository
		apptRepo   appointments.Repository
		recordRepo medicalrecords.Repository
		pmrRepo    pmr.Repository
	)
	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		apptRepo = pg.NewAppointmentsRepo(opts.DB)
		recordRepo = pg.NewMedicalRecordsRepo(opts.DB)
		pmrRepo = pg.NewPMRRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		apptRepo = mem.NewAppointmentRepo()
		recordRepo = mem.NewMedicalRecordRepo()
		pmrRepo = mem.NewPMRRepo()
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo, log)
	apptSvc := appointments.NewService(apptRepo, usersSvc, log)
	recordsSvc := medicalrecords.NewService(recordRepo, log)
	pmrSvc := pmr.NewService(pmrRepo, log)
	adviceSvc := advice.NewService(recordsSvc, opts.Advice, log)

	if opts.Seed {
		st := seed.Stores{Users: userRepo, Appointments: apptRepo, Records: recordRepo, PMRs: pmrRepo}
		if err := seed.Load(context.Background(), st, usersSvc, log); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	var debugRoles auth.RoleLookup
	if opts.DebugAuth {
		debugRoles = usersSvc
		log.Warn("debug auth enabled: X-Debug-User-ID is trusted", nil)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.AuthContext(tokens, debugRoles))
	r.Use(middleware.RequestLog(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	))

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, tokens)
	appointments.RegisterRoutes(r, apptSvc, opts.UpcomingLimit)
	medicalrecords.RegisterRoutes(r, recordsSvc)
	pmr.RegisterRoutes(r, pmrSvc)
	advice.RegisterRoutes(r, adviceSvc)

	return r, nil
}
