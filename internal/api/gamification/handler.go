// Package gamification provides REST API handlers for the leaderboard
// and the badge catalog.
package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-app/skillforge-backend/internal/cache"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/gamification"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

const badgeCatalogKey = "gamification:badge_catalog"

// Service interface for gamification read operations.
type Service interface {
	GetLeaderboard(ctx context.Context, limit int) ([]gamification.LeaderboardEntry, error)
	GetBadgeCatalog(ctx context.Context) ([]models.Badge, error)
	GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error)
}

// Handler handles gamification API requests.
type Handler struct {
	service    Service
	cache      cache.Cache
	catalogTTL time.Duration
	log        *logger.Logger
}

// NewHandler creates a new gamification handler. The cache is optional;
// pass nil to serve the badge catalog from the database on every
// request.
func NewHandler(service *gamification.Service, cache cache.Cache, catalogTTL time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		cache:      cache,
		catalogTTL: catalogTTL,
		log:        log,
	}
}

// NewHandlerWithInterfaces creates a new gamification handler with
// interface dependencies (useful for testing).
func NewHandlerWithInterfaces(service Service, cache cache.Cache, catalogTTL time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		cache:      cache,
		catalogTTL: catalogTTL,
		log:        log,
	}
}

// GetLeaderboard returns the top users ranked by total XP.
// GET /api/v1/gamification/leaderboard?limit=10.
//
// The leaderboard is always computed fresh so rank changes are visible
// immediately after an award.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit, err := h.parseLimit(c, 50)
	if err != nil {
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	entries, err := h.service.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get leaderboard")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve leaderboard")
		return
	}

	h.log.Info().
		Int("limit", limit).
		Int("entries", len(entries)).
		Msg("Retrieved leaderboard")

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// GetBadgeCatalog returns every badge definition.
// GET /api/v1/gamification/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, badgeCatalogKey); err == nil {
			var catalog []models.Badge
			if err := json.Unmarshal([]byte(cached), &catalog); err == nil {
				c.JSON(http.StatusOK, gin.H{"data": catalog})
				return
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.log.Warn().Err(err).Msg("Badge catalog cache read failed")
		}
	}

	catalog, err := h.service.GetBadgeCatalog(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get badge catalog")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve badge catalog")
		return
	}

	if h.cache != nil {
		if encoded, err := json.Marshal(catalog); err == nil {
			if err := h.cache.Set(ctx, badgeCatalogKey, string(encoded), h.catalogTTL); err != nil {
				h.log.Warn().Err(err).Msg("Badge catalog cache write failed")
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

// GetUserBadges returns badges earned by a specific user, most recent
// first.
// GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.parseUserID(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	userBadges, err := h.service.GetUserBadges(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", userID).Msg("Failed to get user badges")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve user badges")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": userBadges})
}

// parseUserID extracts and validates the user ID from the URL parameter.
func (h *Handler) parseUserID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %s", idStr)
	}
	return uint(id), nil
}

// parseLimit extracts and validates the limit query parameter.
func (h *Handler) parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}
	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}
	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}
	return limit, nil
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}
