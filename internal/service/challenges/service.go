// Package challenges implements the challenge submission workflow.
package challenges

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
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrAlreadyCompleted rejects resubmission of a completed
	// challenge: a completed progress row is terminal, so XP is never
	// awarded twice for the same challenge.
	ErrAlreadyCompleted = errors.New("challenge already completed")
)

// SubmissionResult distinguishes an incorrect solution (Success false,
// no error) from a system failure (error return).
type SubmissionResult struct {
	Success  bool                      `json:"success"`
	Status   string                    `json:"status"`
	Attempts int                       `json:"attempts"`
	XPEarned int                       `json:"xp_earned"`
	Message  string                    `json:"message"`
	Award    *gamification.AwardResult `json:"award,omitempty"`
}

// Service handles challenge listing and submission.
type Service struct {
	store     *repository.Store
	engine    *gamification.Service
	validator Validator
	log       *logger.Logger
}

// NewService creates a challenge service with the default validator.
func NewService(store *repository.Store, engine *gamification.Service, log *logger.Logger) *Service {
	return NewServiceWithValidator(store, engine, DefaultValidator(), log)
}

// NewServiceWithValidator creates a challenge service with a custom
// grading strategy.
func NewServiceWithValidator(store *repository.Store, engine *gamification.Service, validator Validator, log *logger.Logger) *Service {
	return &Service{store: store, engine: engine, validator: validator, log: log}
}

// SubmitChallenge records an attempt and, when the validator passes,
// completes the challenge and awards its XP. The progress update,
// counter increment and XP award commit or roll back together.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) SubmitChallenge(ctx context.Context, userID, challengeID uint, code string) (*SubmissionResult, error) {
	var (
		result     *SubmissionResult
		sourceType string
	)
	err := s.store.Transaction(func(tx *repository.Store) error {
		challenge, err := tx.Challenges.GetByID(challengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChallengeNotFound
			}
			return fmt.Errorf("failed to load challenge: %w", err)
		}

		progress, err := tx.Challenges.GetOrCreateProgress(userID, challengeID)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if progress.Status == models.ProgressCompleted {
			return ErrAlreadyCompleted
		}

		progress.Attempts++
		progress.SubmittedCode = code

		if !s.validator.Validate(code, challenge) {
			progress.Status = models.ProgressFailed
			if err := tx.Challenges.SaveProgress(progress); err != nil {
				return fmt.Errorf("failed to save progress: %w", err)
			}
			result = &SubmissionResult{
				Success:  false,
				Status:   progress.Status,
				Attempts: progress.Attempts,
				Message:  "Solution incorrect. Review the challenge requirements and try again.",
			}
			return nil
		}

		now := time.Now()
		progress.Status = models.ProgressCompleted
		progress.XPEarned = challenge.XPReward
		progress.CompletedAt = &now
		if err := tx.Challenges.SaveProgress(progress); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		profile, err := tx.Profiles.GetByUserIDForUpdate(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gamification.ErrProfileNotFound
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}
		profile.TotalChallengesCompleted++
		if err := tx.Profiles.Save(profile); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		sourceType = models.SourceChallenge
		award, err := s.engine.AwardInTx(tx, userID, challenge.XPReward, sourceType,
			&challenge.ID, fmt.Sprintf("Completed challenge: %s", challenge.Title))
		if err != nil {
			return err
		}

		result = &SubmissionResult{
			Success:  true,
			Status:   progress.Status,
			Attempts: progress.Attempts,
			XPEarned: challenge.XPReward,
			Message:  "Challenge completed!",
			Award:    award,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			metrics.RecordChallengeSubmission("rejected")
		}
		return nil, err
	}

	if result.Success {
		metrics.RecordChallengeSubmission("passed")
		gamification.RecordAwardMetrics(sourceType, result.Award)
	} else {
		metrics.RecordChallengeSubmission("failed")
	}

	s.log.Info().
		Uint("user_id", userID).
		Uint("challenge_id", challengeID).
		Bool("success", result.Success).
		Int("attempts", result.Attempts).
		Msg("Challenge submission processed")

	return result, nil
}

// ListChallenges returns published challenges, optionally filtered by
// difficulty.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) ListChallenges(ctx context.Context, difficulty string) ([]models.Challenge, error) {
	return s.store.Challenges.ListPublished(difficulty)
}

// GetChallengeBySlug returns a published challenge.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetChallengeBySlug(ctx context.Context, slug string) (*models.Challenge, error) {
	challenge, err := s.store.Challenges.GetBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChallengeNotFound
	}
	return challenge, err
}
