package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/handlers"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	prescriptionHandler := handlers.NewPrescriptionHandler(db)

	authLimiter := middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.RateLimit.AuthLimit,
		Window: time.Duration(cfg.RateLimit.AuthWindowMins) * time.Minute,
	})
	bookingLimiter := middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.RateLimit.BookingLimit,
		Window: time.Duration(cfg.RateLimit.BookingWindowMins) * time.Minute,
	})

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authLimiter, authHandler.Register)
			authRoutes.POST("/login", authLimiter, authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Patients browse the doctor directory before logging in
		public.GET("/doctors/all", doctorHandler.GetAllDoctors)

		// Intentionally public: pharmacies verify printed prescriptions by ID
		public.GET("/prescriptions/public/:id", prescriptionHandler.GetPublicPrescription)
	}

	// Authenticated routes
	private := router.Group("/api")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutes := private.Group("/auth")
		{
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/profile", authHandler.GetProfile)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("/user", appointmentHandler.GetUserAppointments)
			appointmentRoutes.POST("/book",
				middleware.RoleAuthMiddleware(models.RolePatient), bookingLimiter,
				appointmentHandler.BookAppointment)
			appointmentRoutes.GET("/available-slots", appointmentHandler.GetAvailableSlots)
			// Ownership and patient cancel-only rules live in the handler
			appointmentRoutes.PUT("/:id/status", appointmentHandler.UpdateAppointmentStatus)
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("/my-patients",
				middleware.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.GetDoctorPatients)
			doctorRoutes.GET("/patient-history/:patientId",
				middleware.RoleAuthMiddleware(models.RoleDoctor), doctorHandler.GetPatientHistory)
		}

		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.POST("/create",
				middleware.RoleAuthMiddleware(models.RoleDoctor), prescriptionHandler.CreatePrescription)
			prescriptionRoutes.GET("/doctor",
				middleware.RoleAuthMiddleware(models.RoleDoctor), prescriptionHandler.GetDoctorPrescriptions)
			prescriptionRoutes.GET("/patient",
				middleware.RoleAuthMiddleware(models.RolePatient), prescriptionHandler.GetPatientPrescriptions)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
