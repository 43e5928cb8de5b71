package repository

import (
	"errors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// ChallengeRepository handles challenge and per-user progress
// database operations.
type ChallengeRepository struct {
	db *DB
}

// NewChallengeRepository creates a new challenge repository.
func NewChallengeRepository(db *DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// Create creates a challenge, deriving the slug from the title when
// none is supplied.
func (r *ChallengeRepository) Create(challenge *models.Challenge) error {
	if challenge.Slug == "" {
		challenge.Slug = slug.Make(challenge.Title)
	}
	return r.db.Create(challenge).Error
}

// GetByID retrieves a challenge by ID.
func (r *ChallengeRepository) GetByID(id uint) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.First(&challenge, id).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetBySlug retrieves a published challenge by slug, with its lesson.
func (r *ChallengeRepository) GetBySlug(slug string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.
		Where("slug = ? AND is_published = ?", slug, true).
		Preload("Lesson").
		First(&challenge).Error
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// ListPublished retrieves published challenges, optionally filtered by
// difficulty.
func (r *ChallengeRepository) ListPublished(difficulty string) ([]models.Challenge, error) {
	var challenges []models.Challenge
	q := r.db.Where("is_published = ?", true).Preload("Lesson").Order("id ASC")
	if difficulty != "" {
		q = q.Where("difficulty = ?", difficulty)
	}
	err := q.Find(&challenges).Error
	return challenges, err
}

// GetOrCreateProgress returns the progress row for (user, challenge),
// creating it in 'in_progress' state on the first attempt.
func (r *ChallengeRepository) GetOrCreateProgress(userID, challengeID uint) (*models.UserChallengeProgress, error) {
	var progress models.UserChallengeProgress
	err := r.db.
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.UserChallengeProgress{
			UserID:      userID,
			ChallengeID: challengeID,
			Status:      models.ProgressInProgress,
			Attempts:    0,
		}
		if err := r.db.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// SaveProgress persists progress mutations.
func (r *ChallengeRepository) SaveProgress(progress *models.UserChallengeProgress) error {
	return r.db.Save(progress).Error
}

// CountCompletedByUser returns how many challenges a user has completed.
func (r *ChallengeRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserChallengeProgress{}).
		Where("user_id = ? AND status = ?", userID, models.ProgressCompleted).
		Count(&count).Error
	return count, err
}

// Count returns the number of challenges.
func (r *ChallengeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Challenge{}).Count(&count).Error
	return count, err
}
