// Package projects provides REST API handlers for project browsing,
// submission, and the admin review queue.
package projects

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillforge-app/skillforge-backend/internal/identity"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/service/projects"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Service interface for project operations.
type Service interface {
	SubmitProject(ctx context.Context, userID, projectID uint, input projects.SubmissionInput) (*models.ProjectSubmission, error)
	ReviewSubmission(ctx context.Context, submissionID, reviewerID uint, input projects.ReviewInput) (*projects.ReviewResult, error)
	ListPendingSubmissions(ctx context.Context) ([]models.ProjectSubmission, error)
	ListUserSubmissions(ctx context.Context, userID uint) ([]models.ProjectSubmission, error)
	ListProjects(ctx context.Context, difficulty string) ([]models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
}

// Handler handles project API requests.
type Handler struct {
	service  Service
	identity identity.Provider
	log      *logger.Logger
}

// NewHandler creates a new project handler.
func NewHandler(service *projects.Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// NewHandlerWithInterfaces creates a new project handler with interface
// dependencies (useful for testing).
func NewHandlerWithInterfaces(service Service, identity identity.Provider, log *logger.Logger) *Handler {
	return &Handler{service: service, identity: identity, log: log}
}

// submitRequest is the body of a project submission.
type submitRequest struct {
	RepositoryURL string `json:"repository_url" binding:"required"`
	LiveDemoURL   string `json:"live_demo_url"`
	Description   string `json:"description"`
}

// reviewRequest is the body of an admin review decision.
type reviewRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
}

// ListProjects returns the published project list.
// GET /api/v1/projects?difficulty=intermediate.
func (h *Handler) ListProjects(c *gin.Context) {
	difficulty := c.Query("difficulty")

	list, err := h.service.ListProjects(c.Request.Context(), difficulty)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list projects")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GetProject returns one published project.
// GET /api/v1/projects/:slug.
func (h *Handler) GetProject(c *gin.Context) {
	slug := c.Param("slug")

	project, err := h.service.GetProjectBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, projects.ErrProjectNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Project not found")
			return
		}
		h.log.Error().Err(err).Str("slug", slug).Msg("Failed to get project")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": project})
}

// SubmitProject records a new submission for review.
// POST /api/v1/projects/:id/submissions.
func (h *Handler) SubmitProject(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	projectID, err := h.parseID(c, "project")
	if err != nil {
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationResponse(c, "repository_url is required", err)
		return
	}

	submission, err := h.service.SubmitProject(c.Request.Context(), user.ID, projectID, projects.SubmissionInput{
		RepositoryURL: req.RepositoryURL,
		LiveDemoURL:   req.LiveDemoURL,
		Description:   req.Description,
	})
	if err != nil {
		if errors.Is(err, projects.ErrProjectNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Project not found")
			return
		}
		h.log.Error().Err(err).
			Uint("user_id", user.ID).
			Uint("project_id", projectID).
			Msg("Failed to submit project")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to submit project")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": submission})
}

// ListMySubmissions returns the authenticated user's submissions.
// GET /api/v1/submissions.
func (h *Handler) ListMySubmissions(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	list, err := h.service.ListUserSubmissions(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to list submissions")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve submissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ListPendingSubmissions returns the review queue, oldest first.
// Admin only.
// GET /api/v1/submissions/pending.
func (h *Handler) ListPendingSubmissions(c *gin.Context) {
	if _, ok := h.currentAdmin(c); !ok {
		return
	}

	list, err := h.service.ListPendingSubmissions(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list pending submissions")
		h.errorResponse(c, http.StatusInternalServerError, "Failed to retrieve pending submissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ReviewSubmission applies an admin decision to a pending submission.
// Admin only.
// PUT /api/v1/submissions/:id/review.
func (h *Handler) ReviewSubmission(c *gin.Context) {
	admin, ok := h.currentAdmin(c)
	if !ok {
		return
	}

	submissionID, err := h.parseID(c, "submission")
	if err != nil {
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.validationResponse(c, "status is required", err)
		return
	}

	result, err := h.service.ReviewSubmission(c.Request.Context(), submissionID, admin.ID, projects.ReviewInput{
		Status:   req.Status,
		Feedback: req.Feedback,
	})
	if err != nil {
		switch {
		case errors.Is(err, projects.ErrSubmissionNotFound):
			h.errorResponse(c, http.StatusNotFound, "Submission not found")
		case errors.Is(err, projects.ErrInvalidDecision):
			h.errorResponse(c, http.StatusUnprocessableEntity, "Invalid review decision")
		case errors.Is(err, projects.ErrAlreadyReviewed):
			h.errorResponse(c, http.StatusUnprocessableEntity, "Submission already reviewed")
		default:
			h.log.Error().Err(err).
				Uint("submission_id", submissionID).
				Uint("reviewer_id", admin.ID).
				Msg("Failed to review submission")
			h.errorResponse(c, http.StatusInternalServerError, "Failed to review submission")
		}
		return
	}

	h.log.Info().
		Uint("submission_id", submissionID).
		Uint("reviewer_id", admin.ID).
		Str("status", result.Status).
		Int("xp_awarded", result.XPAwarded).
		Msg("Submission reviewed")

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

// currentAdmin resolves the authenticated user and requires the admin
// role.
func (h *Handler) currentAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	if user.Role != models.RoleAdmin {
		h.errorResponse(c, http.StatusForbidden, "Admin access required")
		return nil, false
	}
	return user, true
}

// parseID extracts and validates a numeric ID from the URL parameter.
func (h *Handler) parseID(c *gin.Context, kind string) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %s", kind, idStr)
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
