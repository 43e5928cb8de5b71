// Package challenges provides REST API handlers for browsing
// challenges and submitting solutions.
package challenges

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-app/skillforge-backend/internal/identity"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/challenges"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Service interface for challenge operations.
type Service interface {
	SubmitChallenge(ctx context.Context, userID, challengeID uint, code string) (*challenges.SubmissionResult, error)
	ListChallenges(ctx context.Context, difficulty string) ([]models.Challenge, error)
	GetChallengeBySlug(ctx context.Context, slug string) (*models.Challenge, error)
}

// Handler handles challenge API requests.
type Handler struct {
	service  Service
	identity identity.Provider
	log      *logger.Logger
}

// NewHandler creates a new challenge handler.
func NewHandler(service *challenges.Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// NewHandlerWithInterfaces creates a new challenge handler with
// interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// submitRequest is the body of a solution submission.
type submitRequest struct {
	Code string `json:"code" binding:"required"`
}

// ListChallenges returns the published challenge list.
// GET /api/v1/challenges?difficulty=beginner.
func (h *Handler) ListChallenges(c *gin.Context) {
	difficulty := c.Query("difficulty")

	list, err := h.service.ListChallenges(c.Request.Context(), difficulty)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list challenges")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve challenges")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GetChallenge returns one published challenge.
// GET /api/v1/challenges/:slug.
func (h *Handler) GetChallenge(c *gin.Context) {
	slug := c.Param("slug")

	challenge, err := h.service.GetChallengeBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, challenges.ErrChallengeNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Challenge not found")
			return
		}
		h.log.Error().Err(err).Str("slug", slug).Msg("Failed to get challenge")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve challenge")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": challenge})
}

// SubmitChallenge runs the submitted solution through validation and,
// on success, awards XP. A failed validation is a normal 200 response
// with success=false, not an error status.
// POST /api/v1/challenges/:id/submit.
func (h *Handler) SubmitChallenge(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	challengeID, err := h.parseChallengeID(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationResponse(c, "code is required", err)
		return
	}

	result, err := h.service.SubmitChallenge(c.Request.Context(), user.ID, challengeID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, challenges.ErrChallengeNotFound):
			h.errorResponse(c, http.StatusNotFound, "Challenge not found")
		case errors.Is(err, challenges.ErrAlreadyCompleted):
			h.errorResponse(c, http.StatusUnprocessableEntity, "Challenge already completed")
		default:
			h.log.Error().Err(err).
				Uint("user_id", user.ID).
				Uint("challenge_id", challengeID).
				Msg("Challenge submission failed")
			h.errorResponse(c, http.StatusInternalServerError, "Submission failed due to a system error")
		}
		return
	}

	h.log.Info().
		Uint("user_id", user.ID).
		Uint("challenge_id", challengeID).
		Bool("success", result.Success).
		Int("attempts", result.Attempts).
		Msg("Challenge submission processed")

	c.JSON(http.StatusOK, gin.H{"data": result})
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

// parseChallengeID extracts and validates the challenge ID from the URL
// parameter.
func (h *Handler) parseChallengeID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid challenge ID: %s", idStr)
	}
	return uint(id), nil
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
