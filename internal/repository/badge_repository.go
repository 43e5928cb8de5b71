package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// ErrBadgeAlreadyEarned is returned by Award when the (user, badge)
// pair already exists. Callers treat it as benign.
var ErrBadgeAlreadyEarned = errors.New("badge already earned")

// BadgeRepository handles badge-related database operations.
type BadgeRepository struct {
	db *DB
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db *DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Create creates a new badge definition.
func (r *BadgeRepository) Create(badge *models.Badge) error {
	return r.db.Create(badge).Error
}

// GetByID retrieves a badge by its ID.
func (r *BadgeRepository) GetByID(id uint) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.First(&badge, id).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// GetAll retrieves all badge definitions.
func (r *BadgeRepository) GetAll() ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.Order("id ASC").Find(&badges).Error
	return badges, err
}

// ListUnearned retrieves badges the user does not hold yet.
func (r *BadgeRepository) ListUnearned(userID uint) ([]models.Badge, error) {
	var badges []models.Badge
	err := r.db.
		Where("id NOT IN (?)",
			r.db.Model(&models.UserBadge{}).Select("badge_id").Where("user_id = ?", userID)).
		Order("id ASC").
		Find(&badges).Error
	return badges, err
}

// Award grants a badge to a user. The unique (user_id, badge_id) index
// is the real guard: a duplicate insert surfaces as
// ErrBadgeAlreadyEarned rather than relying on a racy pre-check.
func (r *BadgeRepository) Award(userID, badgeID uint, earnedAt time.Time) error {
	userBadge := &models.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: earnedAt,
	}
	err := r.db.Create(userBadge).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrBadgeAlreadyEarned
	}
	return err
}

// HasUserEarnedBadge checks if a user has earned a specific badge.
func (r *BadgeRepository) HasUserEarnedBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserBadges retrieves all badges earned by a user, newest first.
func (r *BadgeRepository) GetUserBadges(userID uint) ([]models.UserBadge, error) {
	var userBadges []models.UserBadge
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Badge").
		Order("earned_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

// CountUserBadges returns the number of badges a user has earned.
func (r *BadgeRepository) CountUserBadges(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// HoldersCount returns the number of users holding a badge.
func (r *BadgeRepository) HoldersCount(badgeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserBadge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	return count, err
}

// Count returns the number of badge definitions.
func (r *BadgeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Badge{}).Count(&count).Error
	return count, err
}
