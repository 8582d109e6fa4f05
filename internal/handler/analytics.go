package handler

import (
	"net/http"
	"time"

	"motherguard/internal/models"
	"motherguard/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler interface {
	GetDashboard(c *gin.Context)
}

type analyticsHandler struct {
	assessmentRepo repository.AssessmentRepository
	patientRepo    repository.PatientRepository
	logger         *zap.Logger
}

func NewAnalyticsHandler(assessmentRepo repository.AssessmentRepository, patientRepo repository.PatientRepository, logger *zap.Logger) AnalyticsHandler {
	return &analyticsHandler{
		assessmentRepo: assessmentRepo,
		patientRepo:    patientRepo,
		logger:         logger,
	}
}

// DashboardStats represents the statistics for the admin dashboard.
type DashboardStats struct {
	TotalPatients    int                      `json:"total_patients"`
	PatientsByLevel  map[models.RiskLevel]int `json:"patients_by_level"`
	CriticalPatients int                      `json:"critical_patients"`
	HighRiskPatients int                      `json:"high_risk_patients"`
	Assessments24h   int                      `json:"assessments_24h"`
}

// GetDashboard handles GET /api/admin/dashboard
func (h *analyticsHandler) GetDashboard(c *gin.Context) {
	totalPatients, err := h.patientRepo.CountPatients()
	if err != nil {
		h.logger.Error("Failed to count patients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	byLevel, err := h.assessmentRepo.CountLatestByLevel()
	if err != nil {
		h.logger.Error("Failed to count assessments by level", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	recent, err := h.assessmentRepo.CountAssessmentsSince(time.Now().Add(-24 * time.Hour))
	if err != nil {
		h.logger.Error("Failed to count recent assessments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	stats := DashboardStats{
		TotalPatients:    totalPatients,
		PatientsByLevel:  byLevel,
		CriticalPatients: byLevel[models.RiskCritical],
		HighRiskPatients: byLevel[models.RiskHigh],
		Assessments24h:   recent,
	}

	c.JSON(http.StatusOK, stats)
}
