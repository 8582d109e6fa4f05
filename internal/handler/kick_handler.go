package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"motherguard/internal/kickcounter"
	"motherguard/internal/models"
	"motherguard/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type KickHandler interface {
	StartSession(c *gin.Context)
	RecordKick(c *gin.Context)
	SaveSession(c *gin.Context)
	CancelSession(c *gin.Context)
	GetSessionState(c *gin.Context)
}

type kickHandler struct {
	sessions    *kickcounter.Manager
	patientRepo repository.PatientRepository
	logger      *zap.Logger
}

func NewKickHandler(sessions *kickcounter.Manager, patientRepo repository.PatientRepository, logger *zap.Logger) KickHandler {
	return &kickHandler{
		sessions:    sessions,
		patientRepo: patientRepo,
		logger:      logger,
	}
}

// patientSession resolves the authenticated user's kick-counter session.
func (h *kickHandler) patientSession(c *gin.Context) (*kickcounter.Session, *models.Patient, bool) {
	userID := c.GetInt64("user_id")

	patient, err := h.patientRepo.GetPatientByUserID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusForbidden, gin.H{"error": "No patient profile linked to this account"})
			return nil, nil, false
		}
		h.logger.Error("Failed to resolve patient", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve patient"})
		return nil, nil, false
	}

	return h.sessions.Session(patient.ID), patient, true
}

// StartSession handles POST /api/kicks/session/start
func (h *kickHandler) StartSession(c *gin.Context) {
	session, _, ok := h.patientSession(c)
	if !ok {
		return
	}

	if err := session.Start(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A recording session is already active"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// RecordKick handles POST /api/kicks/session/kick. Kicks outside an active
// session are swallowed without error so stray taps cannot fail the client.
func (h *kickHandler) RecordKick(c *gin.Context) {
	session, _, ok := h.patientSession(c)
	if !ok {
		return
	}

	session.RecordKick()

	c.JSON(http.StatusOK, gin.H{
		"state":      session.State(),
		"kick_count": session.KickCount(),
	})
}

type SaveSessionRequest struct {
	Notes *string `json:"notes"`
}

// SaveSession handles POST /api/kicks/session/save
func (h *kickHandler) SaveSession(c *gin.Context) {
	session, _, ok := h.patientSession(c)
	if !ok {
		return
	}

	var req SaveSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	rec, err := session.Save(c.Request.Context(), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, kickcounter.ErrEmptySession):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot save a session with zero kicks"})
		case errors.Is(err, kickcounter.ErrNotRecording):
			c.JSON(http.StatusConflict, gin.H{"error": "No recording session is active"})
		default:
			h.logger.Error("Failed to save kick session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"record":      rec,
		"today_total": session.DailyTotal(),
	})
}

// CancelSession handles POST /api/kicks/session/cancel
func (h *kickHandler) CancelSession(c *gin.Context) {
	session, _, ok := h.patientSession(c)
	if !ok {
		return
	}

	if err := session.Cancel(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No recording session is active"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": session.State()})
}

// GetSessionState handles GET /api/kicks/session. The elapsed value is
// derived from the start timestamp at read time; clients poll this for the
// ticking display.
func (h *kickHandler) GetSessionState(c *gin.Context) {
	session, _, ok := h.patientSession(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":           session.State(),
		"kick_count":      session.KickCount(),
		"elapsed_minutes": session.Elapsed(),
		"today_total":     session.DailyTotal(),
	})
}
