package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/handlers"
	"github.com/Keerthana-MS/medibook-backend/internal/middleware"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, cfg *config.Config,
	booking *services.BookingService, search *services.SearchService, sms *services.SMSService) {

	healthHandler := handlers.NewHealthHandler("1.0.0")
	authHandler := handlers.NewAuthHandler(cfg)
	patientHandler := handlers.NewPatientHandler(store, search, sms)
	doctorHandler := handlers.NewDoctorHandler(store, search, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(booking, store, sms)

	requireAdmin := middleware.RequireRole(cfg.JWTSecret, middleware.RoleAdmin)
	requireStaff := middleware.RequireRole(cfg.JWTSecret, middleware.RoleAdmin, middleware.RoleDoctor)
	requireDoctor := middleware.RequireRole(cfg.JWTSecret, middleware.RoleDoctor)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to MediBook Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":       "/health",
				"api":          "/api",
				"patients":     "/api/patients",
				"doctors":      "/api/doctors",
				"appointments": "/api/appointments",
			},
		})
	})

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/admin/login", authHandler.AdminLogin)

	// Patient routes: registration is open, listings are staff-only so the
	// OTP redaction policy has a role to key on
	patients := api.Group("/patients")
	patients.Post("/", patientHandler.Register)
	patients.Get("/", requireStaff, patientHandler.ListPatients)
	patients.Get("/:id", requireStaff, patientHandler.GetPatient)
	patients.Put("/:id", requireAdmin, patientHandler.UpdatePatient)
	patients.Delete("/:id", requireAdmin, patientHandler.DeletePatient)

	// Doctor routes: the directory is public, management is admin-only.
	// "/me/appointments" must be registered before "/:id".
	doctors := api.Group("/doctors")
	doctors.Post("/login", doctorHandler.Login)
	doctors.Get("/me/appointments", requireDoctor, appointmentHandler.MyAppointments)
	doctors.Post("/", requireAdmin, doctorHandler.Create)
	doctors.Get("/", doctorHandler.ListDoctors)
	doctors.Get("/:id", doctorHandler.GetDoctor)
	doctors.Put("/:id", requireAdmin, doctorHandler.Update)
	doctors.Delete("/:id", requireAdmin, doctorHandler.Delete)

	// Appointment routes: booking and cancellation take an optional admin
	// token (admins skip the OTP check), patients list their own with
	// id + OTP, the rest is admin-only
	appointments := api.Group("/appointments")
	appointments.Post("/", optionalAuth, appointmentHandler.Book)
	appointments.Post("/my", appointmentHandler.PatientAppointments)
	appointments.Post("/:id/cancel", optionalAuth, appointmentHandler.Cancel)
	appointments.Get("/cancelled", requireAdmin, appointmentHandler.ListCancelled)
	appointments.Get("/", requireAdmin, appointmentHandler.List)
	appointments.Delete("/:id", requireAdmin, appointmentHandler.Delete)
}
