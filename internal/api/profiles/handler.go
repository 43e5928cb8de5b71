// Package profiles provides REST API handlers for the authenticated
// user's profile and statistics.
package profiles

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-app/skillforge-backend/internal/identity"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/profiles"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Service interface for profile operations.
type Service interface {
	GetProfile(ctx context.Context, userID uint) (*profiles.Snapshot, error)
	UpdateProfile(ctx context.Context, userID uint, input profiles.UpdateInput) (*profiles.Snapshot, error)
	GetStats(ctx context.Context, userID uint) (*profiles.Stats, error)
}

// Handler handles profile API requests.
type Handler struct {
	service  Service
	identity identity.Provider
	log      *logger.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service *profiles.Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// NewHandlerWithInterfaces creates a new profile handler with interface
// dependencies (useful for testing).
func NewHandlerWithInterfaces(service Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// GetProfile returns the authenticated user's profile snapshot.
// GET /api/v1/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	snapshot, err := h.service.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to get profile")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}

// UpdateProfile applies partial edits to the authenticated user's
// profile and returns the refreshed snapshot.
// PUT /api/v1/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var input profiles.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.validationResponse(c, "invalid profile payload", err)
		return
	}

	snapshot, err := h.service.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to update profile")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.log.Info().Uint("user_id", user.ID).Msg("Profile updated")
	c.JSON(http.StatusOK, gin.H{"data": snapshot})
}

// GetStats returns aggregate statistics for the authenticated user.
// GET /api/v1/profile/stats.
func (h *Handler) GetStats(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, profiles.ErrProfileNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Profile not found")
			return
		}
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to get profile stats")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// currentUser resolves the authenticated user or writes the auth error
// response.
func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	user, err := h.identity.UserFromRequest(c)
	if err != nil {
		if errors.Is(err, identity.ErrInactiveUser) {
			h.errorResponse(c, http.StatusForbidden, "User account is inactive")
		} else {
			h.errorResponse(c, http.StatusUnauthorized, "Authentication required")
		}
		return nil, false
	}
	return user, true
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// validationResponse sends a validation error with field details.
func (h *Handler) validationResponse(c *gin.Context, message string, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": message,
		"errors":  gin.H{"detail": err.Error()},
	})
}
