package repository

import (
	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// LevelRepository handles level table database operations. The level
// table is seeded once and read-only at runtime.
type LevelRepository struct {
	db *DB
}

// NewLevelRepository creates a new level repository.
func NewLevelRepository(db *DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// Create creates a level row. Seed-time only.
func (r *LevelRepository) Create(level *models.Level) error {
	return r.db.Create(level).Error
}

// GetAllOrdered returns all levels sorted ascending by XP threshold.
func (r *LevelRepository) GetAllOrdered() ([]models.Level, error) {
	var levels []models.Level
	err := r.db.Order("xp_required ASC").Find(&levels).Error
	return levels, err
}

// Count returns the number of seeded levels.
func (r *LevelRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Level{}).Count(&count).Error
	return count, err
}
