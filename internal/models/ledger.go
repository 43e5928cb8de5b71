package models

import (
	"time"
)

// XpTransaction is an append-only ledger entry recording a single XP
// grant. Rows are immutable once written (no update timestamp); the sum
// of a user's amounts must reconcile with UserProfile.CurrentXP.
type XpTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount      int       `gorm:"not null" json:"amount"`
	SourceType  string    `gorm:"not null;size:50" json:"source_type"` // 'challenge', 'project', 'bonus', 'penalty'
	SourceID    *uint     `gorm:"index" json:"source_id"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for XpTransaction model.
func (XpTransaction) TableName() string {
	return "xp_transactions"
}

// XP source types.
const (
	SourceChallenge = "challenge"
	SourceProject   = "project"
	SourceBonus     = "bonus"
	SourcePenalty   = "penalty"
)
