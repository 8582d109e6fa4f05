package handler

import (
	"net/http"
	"strconv"
	"time"

	"motherguard/internal/models"
	"motherguard/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ObservationHandler interface {
	GetFMCRecords(c *gin.Context)
	ReportSymptom(c *gin.Context)
}

type observationHandler struct {
	observationRepo repository.ObservationRepository
	patientRepo     repository.PatientRepository
	logger          *zap.Logger
}

func NewObservationHandler(observationRepo repository.ObservationRepository, patientRepo repository.PatientRepository, logger *zap.Logger) ObservationHandler {
	return &observationHandler{
		observationRepo: observationRepo,
		patientRepo:     patientRepo,
		logger:          logger,
	}
}

// GetFMCRecords handles GET /api/patients/:id/fmc-records
// Query parameters:
// - days: lookback window in days (optional, default 7)
func (h *observationHandler) GetFMCRecords(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)
	records, err := h.observationRepo.GetFMCRecords(patientID, since)
	if err != nil {
		h.logger.Error("Failed to get FMC records", zap.Int64("patient_id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	todayTotal, err := h.observationRepo.GetDailyKickTotal(patientID, time.Now())
	if err != nil {
		h.logger.Error("Failed to get daily kick total", zap.Int64("patient_id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "today_total": todayTotal})
}

type ReportSymptomRequest struct {
	SymptomType string  `json:"symptom_type" binding:"required"`
	Severity    int     `json:"severity" binding:"required,min=1,max=4"`
	Notes       *string `json:"notes"`
}

// ReportSymptom handles POST /api/symptoms for the authenticated patient.
func (h *observationHandler) ReportSymptom(c *gin.Context) {
	userID := c.GetInt64("user_id")

	patient, err := h.patientRepo.GetPatientByUserID(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No patient profile linked to this account"})
		return
	}

	var req ReportSymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symptom := &models.Symptom{
		PatientID:   patient.ID,
		SymptomType: req.SymptomType,
		Severity:    req.Severity,
		Notes:       req.Notes,
		RecordedAt:  time.Now(),
	}

	if err := h.observationRepo.SaveSymptom(symptom); err != nil {
		h.logger.Error("Failed to save symptom", zap.Int64("patient_id", patient.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save symptom"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"symptom": symptom})
}
