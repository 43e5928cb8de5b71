// Package projects implements project submission and the admin review
// workflow.
package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/metrics"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/internal/service/gamification"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Sentinel errors surfaced to callers.
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidDecision    = errors.New("invalid review decision")
	// ErrAlreadyReviewed guards the state machine: approved, rejected
	// and revision_needed are all terminal for a submission row.
	ErrAlreadyReviewed = errors.New("submission already reviewed")
)

// SubmissionInput carries a new project attempt.
type SubmissionInput struct {
	RepositoryURL string `json:"repository_url"`
	LiveDemoURL   string `json:"live_demo_url"`
	Description   string `json:"description"`
}

// ReviewInput carries an admin decision for a pending submission.
type ReviewInput struct {
	Status   string `json:"status"` // 'approved', 'rejected', 'revision_needed'
	Feedback string `json:"feedback"`
}

// ReviewResult reports the outcome of a review.
type ReviewResult struct {
	SubmissionID uint                      `json:"submission_id"`
	Status       string                    `json:"status"`
	XPAwarded    int                       `json:"xp_awarded"`
	Award        *gamification.AwardResult `json:"award,omitempty"`
}

// Service handles project listing, submission and review.
type Service struct {
	store  *repository.Store
	engine *gamification.Service
	log    *logger.Logger
}

// NewService creates a project service.
func NewService(store *repository.Store, engine *gamification.Service, log *logger.Logger) *Service {
	return &Service{store: store, engine: engine, log: log}
}

// SubmitProject records a new submission attempt. Every attempt is an
// independent pending row; earlier decisions on the same project do not
// constrain it.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) SubmitProject(ctx context.Context, userID, projectID uint, input SubmissionInput) (*models.ProjectSubmission, error) {
	project, err := s.store.Projects.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	submission := &models.ProjectSubmission{
		UserID:        userID,
		ProjectID:     project.ID,
		RepositoryURL: input.RepositoryURL,
		LiveDemoURL:   input.LiveDemoURL,
		Description:   input.Description,
		Status:        models.SubmissionPending,
		SubmittedAt:   time.Now(),
	}
	if err := s.store.Projects.CreateSubmission(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.log.Info().
		Uint("user_id", userID).
		Uint("project_id", projectID).
		Uint("submission_id", submission.ID).
		Msg("Project submitted for review")
	return submission, nil
}

// ReviewSubmission applies an admin decision to a pending submission.
// Approval awards the project's XP and bumps the completion counter in
// the same transaction as the status change.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ReviewSubmission(ctx context.Context, submissionID, reviewerID uint, input ReviewInput) (*ReviewResult, error) {
	if !isValidDecision(input.Status) {
		return nil, ErrInvalidDecision
	}

	var result *ReviewResult
	err := s.store.Transaction(func(tx *repository.Store) error {
		submission, err := tx.Projects.GetSubmissionByID(submissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubmissionNotFound
			}
			return fmt.Errorf("failed to load submission: %w", err)
		}
		if submission.Status != models.SubmissionPending {
			return ErrAlreadyReviewed
		}

		now := time.Now()
		submission.Status = input.Status
		submission.AdminFeedback = input.Feedback
		submission.ReviewedAt = &now
		submission.ReviewedBy = &reviewerID

		result = &ReviewResult{
			SubmissionID: submission.ID,
			Status:       submission.Status,
		}

		if input.Status == models.SubmissionApproved {
			project := submission.Project
			if project == nil {
				return fmt.Errorf("submission %d has no project loaded", submission.ID)
			}
			submission.XPAwarded = project.XPReward

			profile, err := tx.Profiles.GetByUserIDForUpdate(submission.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return gamification.ErrProfileNotFound
				}
				return fmt.Errorf("failed to load profile: %w", err)
			}
			profile.TotalProjectsCompleted++
			if err := tx.Profiles.Save(profile); err != nil {
				return fmt.Errorf("failed to save profile: %w", err)
			}

			award, err := s.engine.AwardInTx(tx, submission.UserID, project.XPReward,
				models.SourceProject, &project.ID,
				fmt.Sprintf("Completed project: %s", project.Title))
			if err != nil {
				return err
			}
			result.XPAwarded = project.XPReward
			result.Award = award
		}

		if err := tx.Projects.SaveSubmission(submission); err != nil {
			return fmt.Errorf("failed to save submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordProjectReview(result.Status)
	if result.Award != nil {
		gamification.RecordAwardMetrics(models.SourceProject, result.Award)
	}

	s.log.Info().
		Uint("submission_id", submissionID).
		Uint("reviewer_id", reviewerID).
		Str("decision", result.Status).
		Int("xp_awarded", result.XPAwarded).
		Msg("Submission reviewed")

	return result, nil
}

// ListPendingSubmissions returns the review queue, oldest first.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListPendingSubmissions(ctx context.Context) ([]models.ProjectSubmission, error) {
	return s.store.Projects.ListPendingSubmissions()
}

// ListUserSubmissions returns a user's submissions, newest first.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListUserSubmissions(ctx context.Context, userID uint) ([]models.ProjectSubmission, error) {
	return s.store.Projects.ListSubmissionsByUser(userID)
}

// ListProjects returns published projects, optionally filtered by
// difficulty.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListProjects(ctx context.Context, difficulty string) ([]models.Project, error) {
	return s.store.Projects.ListPublished(difficulty)
}

// GetProjectBySlug returns a published project.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.store.Projects.GetBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	return project, err
}

func isValidDecision(status string) bool {
	switch status {
	case models.SubmissionApproved, models.SubmissionRejected, models.SubmissionRevisionNeeded:
		return true
	default:
		return false
	}
}
