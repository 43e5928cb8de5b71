//nolint:noctx // Test file uses httptest requests directly
package gamification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/skillforge-app/skillforge-backend/internal/cache"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/gamification"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Mock gamification service
type mockService struct {
	leaderboard  []gamification.LeaderboardEntry
	catalog      []models.Badge
	userBadges   map[uint][]models.UserBadge
	catalogCalls int
	failCatalog  bool
}

func newMockService() *mockService {
	return &mockService{userBadges: make(map[uint][]models.UserBadge)}
}

func (m *mockService) GetLeaderboard(ctx context.Context, limit int) ([]gamification.LeaderboardEntry, error) {
	entries := m.leaderboard
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockService) GetBadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	m.catalogCalls++
	if m.failCatalog {
		return nil, fmt.Errorf("database down")
	}
	return m.catalog, nil
}

func (m *mockService) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return m.userBadges[userID], nil
}

func setupRouter(handler *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/gamification/leaderboard", handler.GetLeaderboard)
	router.GET("/gamification/badges", handler.GetBadgeCatalog)
	router.GET("/users/:id/badges", handler.GetUserBadges)
	return router
}

func TestGetLeaderboard(t *testing.T) {
	service := newMockService()
	service.leaderboard = []gamification.LeaderboardEntry{
		{Rank: 1, UserID: 1, Name: "alice", CurrentXP: 300},
		{Rank: 2, UserID: 3, Name: "carol", CurrentXP: 300},
		{Rank: 3, UserID: 2, Name: "bob", CurrentXP: 100},
	}
	handler := NewHandlerWithInterfaces(service, nil, 0, logger.Nop())
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/gamification/leaderboard?limit=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []gamification.LeaderboardEntry `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "alice", resp.Data[0].Name)
	assert.Equal(t, "carol", resp.Data[1].Name)
}

func TestGetLeaderboard_InvalidLimit(t *testing.T) {
	handler := NewHandlerWithInterfaces(newMockService(), nil, 0, logger.Nop())
	router := setupRouter(handler)

	for _, limit := range []string{"abc", "0", "-5", "5000"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/gamification/leaderboard?limit="+limit, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "limit=%s", limit)
	}
}

func TestGetBadgeCatalog(t *testing.T) {
	service := newMockService()
	service.catalog = []models.Badge{
		{ID: 1, Name: "First Steps", RequirementType: models.RequirementChallenges, RequirementValue: 1},
	}
	handler := NewHandlerWithInterfaces(service, nil, 0, logger.Nop())
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/gamification/badges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Badge `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "First Steps", resp.Data[0].Name)
}

func TestGetBadgeCatalog_ServesFromCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	catalogCache := cache.NewRedisCacheFromClient(client)

	service := newMockService()
	service.catalog = []models.Badge{{ID: 1, Name: "First Steps"}}
	handler := NewHandlerWithInterfaces(service, catalogCache, time.Minute, logger.Nop())
	router := setupRouter(handler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/gamification/badges", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Only the first request hits the service; the rest come from Redis.
	assert.Equal(t, 1, service.catalogCalls)
}

func TestGetBadgeCatalog_ServiceError(t *testing.T) {
	service := newMockService()
	service.failCatalog = true
	handler := NewHandlerWithInterfaces(service, nil, 0, logger.Nop())
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/gamification/badges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestGetUserBadges(t *testing.T) {
	service := newMockService()
	service.userBadges[7] = []models.UserBadge{
		{ID: 1, UserID: 7, BadgeID: 1, EarnedAt: time.Now()},
	}
	handler := NewHandlerWithInterfaces(service, nil, 0, logger.Nop())
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/users/7/badges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.UserBadge `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestGetUserBadges_InvalidID(t *testing.T) {
	handler := NewHandlerWithInterfaces(newMockService(), nil, 0, logger.Nop())
	router := setupRouter(handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/users/abc/badges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
