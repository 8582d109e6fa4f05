package handler

import (
	"errors"
	"net/http"

	"motherguard/internal/policy"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PolicyHandler interface {
	GetPolicy(c *gin.Context)
	UpdatePolicy(c *gin.Context)
}

type policyHandler struct {
	store  *policy.Store
	logger *zap.Logger
}

func NewPolicyHandler(store *policy.Store, logger *zap.Logger) PolicyHandler {
	return &policyHandler{store: store, logger: logger}
}

// GetPolicy handles GET /api/admin/policy
func (h *policyHandler) GetPolicy(c *gin.Context) {
	p, err := h.store.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get policy", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Threshold policy unavailable, retry later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": p})
}

// UpdatePolicy handles PUT /api/admin/policy. The request body is a partial
// update; a single invalid threshold rejects the whole update. The returned
// snapshot is the committed state — a racing administrator may find it
// differs from what they submitted and should re-fetch.
func (h *policyHandler) UpdatePolicy(c *gin.Context) {
	var upd policy.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.logger.Error("Failed to bind policy update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.store.Apply(c.Request.Context(), upd)
	if err != nil {
		var vErr *policy.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		if errors.Is(err, policy.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Threshold policy unavailable, retry later"})
			return
		}
		h.logger.Error("Failed to update policy", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update policy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": p})
}
