package repository

import (
	"gorm.io/gorm/clause"

	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// ProfileRepository handles progression profile database operations.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a profile.
func (r *ProfileRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// GetByUserID retrieves the profile owned by a user.
func (r *ProfileRepository) GetByUserID(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDForUpdate retrieves the profile with a row lock so two
// concurrent XP awards for the same user serialize instead of losing an
// update. SQLite serializes writers on its own; the lock clause is a
// Postgres concern.
func (r *ProfileRepository) GetByUserIDForUpdate(userID uint) (*models.UserProfile, error) {
	q := r.db.DB
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var profile models.UserProfile
	if err := q.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Save persists profile mutations.
func (r *ProfileRepository) Save(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

// TopByXP returns profiles ordered by XP descending, ties broken by
// owner ID ascending (stable insertion order), truncated to limit.
func (r *ProfileRepository) TopByXP(limit int) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	q := r.db.
		Preload("User").
		Order("current_xp DESC").
		Order("user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&profiles).Error
	return profiles, err
}
