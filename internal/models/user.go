// Package models defines domain models for the SkillForge learning platform.
package models

import (
	"time"
)

// User represents a platform account. Authentication happens upstream;
// the core only needs the identity and active flag.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Role      string    `gorm:"size:50;default:student" json:"role"` // 'student' or 'admin'
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// TableName specifies the table name for User model.
func (User) TableName() string {
	return "users"
}

// UserProfile is the per-user progression record, created alongside the
// user. XP and level fields are mutated only by the gamification engine;
// the completion counters only by the challenge/project workflows.
type UserProfile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio         string `gorm:"type:text" json:"bio"`
	Avatar      string `gorm:"size:255" json:"avatar"`
	GithubURL   string `gorm:"size:255" json:"github_url"`
	LinkedinURL string `gorm:"size:255" json:"linkedin_url"`

	CurrentXP                int `gorm:"column:current_xp;not null;default:0" json:"current_xp"`
	CurrentLevel             int `gorm:"not null;default:1" json:"current_level"`
	TotalChallengesCompleted int `gorm:"not null;default:0" json:"total_challenges_completed"`
	TotalProjectsCompleted   int `gorm:"not null;default:0" json:"total_projects_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for UserProfile model.
func (UserProfile) TableName() string {
	return "user_profiles"
}

// User roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)
