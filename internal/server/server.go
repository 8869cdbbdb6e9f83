package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/Nardos-Amakele/TutorSite/internal/admin"
	"github.com/Nardos-Amakele/TutorSite/internal/auth"
	"github.com/Nardos-Amakele/TutorSite/internal/booking"
	"github.com/Nardos-Amakele/TutorSite/internal/config"
	"github.com/Nardos-Amakele/TutorSite/internal/email"
	"github.com/Nardos-Amakele/TutorSite/internal/resource"
	"github.com/Nardos-Amakele/TutorSite/internal/teacher"
	"github.com/Nardos-Amakele/TutorSite/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, redisClient *redis.Client, cfg *config.Config, emailService *email.Service) *Server {
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(), MetricsMiddleware(), corsMiddleware())

	blacklist := auth.NewBlacklist(redisClient)
	otpStore := auth.NewOTPStore(redisClient)

	userRepo := user.NewRepository(db)
	teacherRepo := teacher.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	resourceRepo := resource.NewRepository(db)
	statsRepo := admin.NewRepository(db)

	userService := user.NewService(userRepo, blacklist, otpStore, emailService,
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	teacherService := teacher.NewService(teacherRepo, userRepo,
		cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	bookingService := booking.NewService(bookingRepo, teacherRepo, userRepo,
		emailService, cfg.StrictAvailability)
	resourceService := resource.NewService(resourceRepo)

	userHandler := user.NewHandler(userService)
	teacherHandler := teacher.NewHandler(teacherService)
	bookingHandler := booking.NewHandler(bookingService)
	resourceHandler := resource.NewHandler(resourceService)
	adminHandler := admin.NewHandler(statsRepo, userRepo, teacherService, bookingService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		public.POST("/register/student", userHandler.Register)
		public.POST("/register/teacher", teacherHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
		public.POST("/otp/send", userHandler.SendOTP)
		public.POST("/otp/verify", userHandler.VerifyOTP)
		public.POST("/reset-password", userHandler.ResetPassword)
	}

	authMiddleware := auth.AuthMiddleware(cfg.AccessTokenSecret, blacklist)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", userHandler.Logout)
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me", userHandler.UpdateMe)

		protected.GET("/teachers", teacherHandler.List)
		protected.GET("/teachers/search", teacherHandler.Search)
		protected.GET("/teachers/:teacherID", teacherHandler.GetByID)
		protected.GET("/teachers/:teacherID/slots", bookingHandler.Slots)

		protected.POST("/bookings", auth.RequireRole(user.RoleStudent), bookingHandler.Book)
		protected.GET("/bookings", bookingHandler.List)
		protected.PATCH("/bookings/:bookingID/confirm", auth.RequireRole(user.RoleTeacher), bookingHandler.Confirm)
		protected.PATCH("/bookings/:bookingID/decline", auth.RequireRole(user.RoleTeacher), bookingHandler.Decline)
		protected.PATCH("/bookings/:bookingID/cancel", bookingHandler.Cancel)
		protected.PATCH("/bookings/:bookingID/complete", bookingHandler.Complete)

		protected.GET("/resources", resourceHandler.List)
		protected.DELETE("/resources/:resourceID", resourceHandler.Delete)
	}

	teacherOnly := router.Group("/teacher")
	teacherOnly.Use(authMiddleware, auth.RequireRole(user.RoleTeacher))
	{
		teacherOnly.GET("/profile", teacherHandler.GetProfile)
		teacherOnly.PATCH("/profile", teacherHandler.UpdateProfile)
		teacherOnly.GET("/availability", teacherHandler.GetAvailability)
		teacherOnly.POST("/availability", teacherHandler.AddAvailability)
		teacherOnly.DELETE("/availability", teacherHandler.RemoveAvailability)
		teacherOnly.POST("/subjects", teacherHandler.AddSubjects)
		teacherOnly.DELETE("/subjects/:subject", teacherHandler.RemoveSubject)
		teacherOnly.POST("/resources", resourceHandler.Add)
	}

	adminGroup := router.Group("/admin")
	adminGroup.Use(authMiddleware, auth.RequireRole(user.RoleAdmin))
	{
		adminGroup.GET("/stats", adminHandler.Stats)
		adminGroup.GET("/teachers", adminHandler.ListTeachers)
		adminGroup.GET("/students", adminHandler.ListStudents)
		adminGroup.PATCH("/users/:role/:userID/ban", adminHandler.SetBanned)
		adminGroup.PATCH("/teachers/:teacherID/verify", adminHandler.SetVerified)
		adminGroup.GET("/bookings", adminHandler.ListBookings)
		adminGroup.PATCH("/bookings/:bookingID/cancel", adminHandler.CancelBooking)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
