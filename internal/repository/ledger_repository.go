package repository

import (
	"github.com/skillforge-app/skillforge-backend/internal/models"
)

// LedgerRepository handles the append-only XP transaction ledger.
// Entries are never updated or deleted.
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository.
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append writes a ledger entry.
func (r *LedgerRepository) Append(entry *models.XpTransaction) error {
	return r.db.Create(entry).Error
}

// SumByUser returns the sum of all ledger amounts for a user.
func (r *LedgerRepository) SumByUser(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.XpTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// RecentByUser returns the newest ledger entries for a user.
func (r *LedgerRepository) RecentByUser(userID uint, limit int) ([]models.XpTransaction, error) {
	var entries []models.XpTransaction
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// CountByUser returns the number of ledger entries for a user.
func (r *LedgerRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.XpTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
