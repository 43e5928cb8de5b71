//nolint:noctx // Test file uses httptest requests directly
package challenges

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/skillforge-app/skillforge-backend/internal/identity"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/challenges"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Mock challenge service
type mockService struct {
	challenges []models.Challenge
	submitFn   func(userID, challengeID uint, code string) (*challenges.SubmissionResult, error)
}

func (m *mockService) SubmitChallenge(ctx context.Context, userID, challengeID uint, code string) (*challenges.SubmissionResult, error) {
	return m.submitFn(userID, challengeID, code)
}

func (m *mockService) ListChallenges(ctx context.Context, difficulty string) ([]models.Challenge, error) {
	return m.challenges, nil
}

func (m *mockService) GetChallengeBySlug(ctx context.Context, slug string) (*models.Challenge, error) {
	for i := range m.challenges {
		if m.challenges[i].Slug == slug {
			return &m.challenges[i], nil
		}
	}
	return nil, challenges.ErrChallengeNotFound
}

func setupRouter(service Service, provider identity.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandlerWithInterfaces(service, provider, logger.Nop())
	router := gin.New()
	router.GET("/challenges", handler.ListChallenges)
	router.GET("/challenges/:slug", handler.GetChallenge)
	router.POST("/challenges/:id/submit", handler.SubmitChallenge)
	return router
}

func studentProvider() identity.Provider {
	return &identity.StaticProvider{
		User: &models.User{ID: 1, Name: "alice", Role: models.RoleStudent, IsActive: true},
	}
}

func submitBody(t *testing.T, code string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]string{"code": code})
	assert.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestSubmitChallenge_Success(t *testing.T) {
	service := &mockService{
		submitFn: func(userID, challengeID uint, code string) (*challenges.SubmissionResult, error) {
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, uint(5), challengeID)
			return &challenges.SubmissionResult{
				Success:  true,
				Status:   models.ProgressCompleted,
				Attempts: 1,
				XPEarned: 50,
			}, nil
		},
	}
	router := setupRouter(service, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", submitBody(t, "a perfectly valid solution"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data challenges.SubmissionResult `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Success)
	assert.Equal(t, 50, resp.Data.XPEarned)
}

func TestSubmitChallenge_IncorrectSolutionIsNotAnError(t *testing.T) {
	service := &mockService{
		submitFn: func(userID, challengeID uint, code string) (*challenges.SubmissionResult, error) {
			return &challenges.SubmissionResult{
				Success:  false,
				Status:   models.ProgressFailed,
				Attempts: 1,
				Message:  "Solution incorrect. Review the challenge requirements and try again.",
			}, nil
		},
	}
	router := setupRouter(service, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", submitBody(t, "hi"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// A wrong answer is a normal result, not an HTTP error.
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data challenges.SubmissionResult `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Success)
	assert.Contains(t, resp.Data.Message, "Solution incorrect")
}

func TestSubmitChallenge_NotFound(t *testing.T) {
	service := &mockService{
		submitFn: func(userID, challengeID uint, code string) (*challenges.SubmissionResult, error) {
			return nil, challenges.ErrChallengeNotFound
		},
	}
	router := setupRouter(service, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/999/submit", submitBody(t, "some solution"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitChallenge_AlreadyCompleted(t *testing.T) {
	service := &mockService{
		submitFn: func(userID, challengeID uint, code string) (*challenges.SubmissionResult, error) {
			return nil, challenges.ErrAlreadyCompleted
		},
	}
	router := setupRouter(service, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", submitBody(t, "some solution"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "already completed")
}

func TestSubmitChallenge_MissingCode(t *testing.T) {
	router := setupRouter(&mockService{}, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmitChallenge_Unauthenticated(t *testing.T) {
	provider := &identity.StaticProvider{Err: identity.ErrUnauthenticated}
	router := setupRouter(&mockService{}, provider)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", submitBody(t, "some solution"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitChallenge_InactiveUser(t *testing.T) {
	provider := &identity.StaticProvider{Err: identity.ErrInactiveUser}
	router := setupRouter(&mockService{}, provider)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/challenges/5/submit", submitBody(t, "some solution"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListChallenges(t *testing.T) {
	service := &mockService{
		challenges: []models.Challenge{
			{ID: 1, Title: "Hello World", Slug: "hello-world", Difficulty: models.DifficultyBeginner},
		},
	}
	router := setupRouter(service, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/challenges", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.Challenge `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func TestGetChallenge_NotFound(t *testing.T) {
	router := setupRouter(&mockService{}, studentProvider())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/challenges/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
