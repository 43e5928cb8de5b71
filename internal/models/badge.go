package models

import (
	"time"
)

// Badge represents a one-time achievement unlocked by crossing a
// threshold on XP or completion counters.
type Badge struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	Icon             string    `gorm:"size:50" json:"icon"`
	RequirementType  string    `gorm:"not null;size:50" json:"requirement_type"` // 'xp', 'challenges', 'projects', 'streak'
	RequirementValue int       `gorm:"not null" json:"requirement_value"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for Badge model.
func (Badge) TableName() string {
	return "badges"
}

// UserBadge records a badge earned by a user. The composite unique
// index is the store-level guard against double-granting under races.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	Badge    *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`
}

// TableName specifies the table name for UserBadge model.
func (UserBadge) TableName() string {
	return "user_badges"
}

// Badge requirement types.
const (
	RequirementXP         = "xp"
	RequirementChallenges = "challenges"
	RequirementProjects   = "projects"
	RequirementStreak     = "streak" // defined in data, predicate intentionally unimplemented
)
