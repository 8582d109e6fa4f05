package server

import (
	"net/http"

	"motherguard/internal/handler"
	"motherguard/internal/kickcounter"
	"motherguard/internal/middleware"
	"motherguard/internal/models"
	"motherguard/internal/policy"
	"motherguard/internal/repository"
	"motherguard/internal/risk"
	"motherguard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	log    *logrus.Logger
	logger *zap.Logger

	policyStore *policy.Store
	engine      *risk.Engine
	sessions    *kickcounter.Manager
}

func NewServer(
	db *sqlx.DB,
	policyStore *policy.Store,
	engine *risk.Engine,
	sessions *kickcounter.Manager,
	log *logrus.Logger,
	logger *zap.Logger,
) *Server {
	router := gin.Default()

	s := &Server{
		router:      router,
		db:          db,
		log:         log,
		logger:      logger,
		policyStore: policyStore,
		engine:      engine,
		sessions:    sessions,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	authRepo := repository.NewAuthRepository(s.db, s.log)
	patientRepo := repository.NewPatientRepository(s.db, s.logger)
	observationRepo := repository.NewObservationRepository(s.db, s.logger)
	assessmentRepo := repository.NewAssessmentRepository(s.db, s.logger)

	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)
	assessmentHandler := handler.NewAssessmentHandler(s.engine, assessmentRepo, s.logger)
	alertHandler := handler.NewAlertHandler(assessmentRepo, patientRepo, s.logger)
	policyHandler := handler.NewPolicyHandler(s.policyStore, s.logger)
	kickHandler := handler.NewKickHandler(s.sessions, patientRepo, s.logger)
	observationHandler := handler.NewObservationHandler(observationRepo, patientRepo, s.logger)
	analyticsHandler := handler.NewAnalyticsHandler(assessmentRepo, patientRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	api := s.router.Group("/api")
	api.Use(middleware.AuthMiddleware(s.logger))
	{
		// Patient: kick-counter session and symptom reporting
		patientGroup := api.Group("")
		patientGroup.Use(middleware.RequireRole(models.RolePatient))
		{
			patientGroup.POST("/kicks/session/start", kickHandler.StartSession)
			patientGroup.POST("/kicks/session/kick", kickHandler.RecordKick)
			patientGroup.POST("/kicks/session/save", kickHandler.SaveSession)
			patientGroup.POST("/kicks/session/cancel", kickHandler.CancelSession)
			patientGroup.GET("/kicks/session", kickHandler.GetSessionState)
			patientGroup.POST("/symptoms", observationHandler.ReportSymptom)
		}

		// Doctor: alert surface and patient assessment views
		doctorGroup := api.Group("")
		doctorGroup.Use(middleware.RequireRole(models.RoleDoctor, models.RoleAdmin))
		{
			doctorGroup.GET("/alerts", alertHandler.GetAlerts)
			doctorGroup.GET("/patients", alertHandler.GetPatients)
			doctorGroup.POST("/patients/:id/assessments", assessmentHandler.ComputeAssessment)
			doctorGroup.GET("/patients/:id/assessments", assessmentHandler.GetAssessments)
			doctorGroup.GET("/patients/:id/assessments/latest", assessmentHandler.GetLatestAssessment)
			doctorGroup.GET("/patients/:id/fmc-records", observationHandler.GetFMCRecords)
		}

		// Administrator: threshold policy, manual scan, dashboard
		adminGroup := api.Group("/admin")
		adminGroup.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminGroup.GET("/policy", policyHandler.GetPolicy)
			adminGroup.PUT("/policy", policyHandler.UpdatePolicy)
			adminGroup.POST("/scan", assessmentHandler.RunScan)
			adminGroup.GET("/dashboard", analyticsHandler.GetDashboard)
		}
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
