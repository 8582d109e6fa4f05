package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"motherguard/internal/policy"
	"motherguard/internal/repository"
	"motherguard/internal/risk"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssessmentHandler interface {
	ComputeAssessment(c *gin.Context)
	GetAssessments(c *gin.Context)
	GetLatestAssessment(c *gin.Context)
	RunScan(c *gin.Context)
}

type assessmentHandler struct {
	engine         *risk.Engine
	assessmentRepo repository.AssessmentRepository
	logger         *zap.Logger
}

func NewAssessmentHandler(engine *risk.Engine, assessmentRepo repository.AssessmentRepository, logger *zap.Logger) AssessmentHandler {
	return &assessmentHandler{
		engine:         engine,
		assessmentRepo: assessmentRepo,
		logger:         logger,
	}
}

func patientIDParam(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return 0, false
	}
	return id, true
}

// ComputeAssessment handles POST /api/patients/:id/assessments — an on-demand
// scan for one patient.
func (h *assessmentHandler) ComputeAssessment(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	assessment, err := h.engine.ComputeAssessment(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, policy.ErrUnavailable) || errors.Is(err, risk.ErrSignalsUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assessment dependencies unavailable, retry later"})
			return
		}
		h.logger.Error("Failed to compute assessment", zap.Int64("patient_id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute assessment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"assessment": assessment})
}

// GetAssessments handles GET /api/patients/:id/assessments
func (h *assessmentHandler) GetAssessments(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	assessments, err := h.assessmentRepo.GetAssessments(patientID)
	if err != nil {
		h.logger.Error("Failed to get assessments", zap.Int64("patient_id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve assessments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessments": assessments})
}

// GetLatestAssessment handles GET /api/patients/:id/assessments/latest
func (h *assessmentHandler) GetLatestAssessment(c *gin.Context) {
	patientID, ok := patientIDParam(c)
	if !ok {
		return
	}

	assessment, err := h.assessmentRepo.GetLatestAssessment(patientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No assessment found"})
			return
		}
		h.logger.Error("Failed to get latest assessment", zap.Int64("patient_id", patientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve assessment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// RunScan handles POST /api/admin/scan — triggers the batch scan immediately.
func (h *assessmentHandler) RunScan(c *gin.Context) {
	result, err := h.engine.RunDailyScan(c.Request.Context())
	if err != nil {
		if errors.Is(err, risk.ErrDailyScanDisabled) {
			c.JSON(http.StatusConflict, gin.H{"error": "Daily scan is disabled by policy"})
			return
		}
		if errors.Is(err, policy.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Threshold policy unavailable, retry later"})
			return
		}
		h.logger.Error("Failed to run scan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run scan"})
		return
	}

	c.JSON(http.StatusOK, result)
}
