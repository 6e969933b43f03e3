package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/sitework-erp/labour-ledger-go/internal/domain/user"
	"github.com/sitework-erp/labour-ledger-go/internal/handler/http/middleware"
	"github.com/sitework-erp/labour-ledger-go/internal/pkg/jwt"
)

type RouterOptions struct {
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Penalty    PenaltyHandler
	Report     ReportHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "labour-ledger"),
		slog.String("version", "v1.0.0"),
		slog.String("env", opts.Env),
	)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.List)
				r.With(middleware.RequirePermission(user.PermissionAttendanceMark)).Post("/", h.Attendance.Mark)
				r.With(middleware.RequirePermission(user.PermissionAttendanceConfirm)).Post("/confirm", h.Attendance.ConfirmBulk)

				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.Get)
					r.With(middleware.RequirePermission(user.PermissionAttendanceConfirm)).Post("/confirm", h.Attendance.Confirm)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPaymentView)).Get("/", h.Payroll.ListPayments)
				r.With(middleware.RequirePermission(user.PermissionPaymentRecord)).Post("/", h.Payroll.RecordPayment)
				r.With(middleware.RequirePermission(user.PermissionPaymentView)).Get("/{id}", h.Payroll.GetPayment)
			})

			r.Route("/workers/{workerId}/projects/{projectId}", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPaymentView))
				r.Get("/balance", h.Payroll.WorkerBalance)
				r.Get("/wage-preview", h.Payroll.WagePreview)
			})

			r.Route("/penalties", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionPenaltyView)).Get("/", h.Penalty.List)
				r.With(middleware.RequirePermission(user.PermissionPenaltyRecord)).Post("/", h.Penalty.Record)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionReportsView))
				r.Get("/projects/{projectId}/labour-cost", h.Report.ProjectLabourCost)
			})
		})
	})
	return r
}
