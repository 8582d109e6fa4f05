package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"motherguard/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AlertHandler interface {
	GetAlerts(c *gin.Context)
	GetPatients(c *gin.Context)
}

type alertHandler struct {
	assessmentRepo repository.AssessmentRepository
	patientRepo    repository.PatientRepository
	logger         *zap.Logger
}

func NewAlertHandler(assessmentRepo repository.AssessmentRepository, patientRepo repository.PatientRepository, logger *zap.Logger) AlertHandler {
	return &alertHandler{
		assessmentRepo: assessmentRepo,
		patientRepo:    patientRepo,
		logger:         logger,
	}
}

// GetAlerts handles GET /api/alerts. The authenticated doctor receives the
// latest high/critical assessments of their linked patients, critical first,
// newest first within a tier.
func (h *alertHandler) GetAlerts(c *gin.Context) {
	userID := c.GetInt64("user_id")

	doctor, err := h.patientRepo.GetDoctorByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No doctor profile linked to this account"})
			return
		}
		h.logger.Error("Failed to resolve doctor", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	alerts, err := h.assessmentRepo.GetAlertsForDoctor(doctor.ID)
	if err != nil {
		h.logger.Error("Failed to get alerts", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetPatients handles GET /api/patients — the authenticated doctor's patient
// roster.
func (h *alertHandler) GetPatients(c *gin.Context) {
	userID := c.GetInt64("user_id")

	doctor, err := h.patientRepo.GetDoctorByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No doctor profile linked to this account"})
			return
		}
		h.logger.Error("Failed to resolve doctor", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}

	patients, err := h.patientRepo.GetPatientsByDoctor(doctor.ID)
	if err != nil {
		h.logger.Error("Failed to get patients", zap.Int64("doctor_id", doctor.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}
