package models

import (
	"encoding/json"
	"time"
)

// Project is a free-form deliverable reviewed by an admin rather than
// validated automatically.
type Project struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"not null;size:255" json:"title"`
	Slug           string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description    string          `gorm:"type:text" json:"description"`
	Requirements   string          `gorm:"type:text" json:"requirements"`
	Difficulty     string          `gorm:"not null;size:50" json:"difficulty"`
	XPReward       int             `gorm:"column:xp_reward;not null" json:"xp_reward"`
	EstimatedHours int             `gorm:"default:0" json:"estimated_hours"`
	Technologies   json.RawMessage `gorm:"type:jsonb" json:"technologies"`
	IsPublished    bool            `gorm:"default:false" json:"is_published"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Project model.
func (Project) TableName() string {
	return "projects"
}

// ProjectSubmission is one attempt at a project. Unlike challenge
// progress there is no per-user uniqueness: every attempt is a new row,
// reviewed independently, and review decisions are terminal per row.
type ProjectSubmission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID     uint       `gorm:"not null;index" json:"project_id"`
	Project       *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RepositoryURL string     `gorm:"size:255;not null" json:"repository_url"`
	LiveDemoURL   string     `gorm:"size:255" json:"live_demo_url"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"not null;size:50;default:pending;index" json:"status"`
	AdminFeedback string     `gorm:"type:text" json:"admin_feedback"`
	XPAwarded     int        `gorm:"column:xp_awarded;not null;default:0" json:"xp_awarded"`
	SubmittedAt   time.Time  `gorm:"not null" json:"submitted_at"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	ReviewedBy    *uint      `json:"reviewed_by"`
	Reviewer      *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for ProjectSubmission model.
func (ProjectSubmission) TableName() string {
	return "project_submissions"
}

// Project submission statuses.
const (
	SubmissionPending        = "pending"
	SubmissionApproved       = "approved"
	SubmissionRejected       = "rejected"
	SubmissionRevisionNeeded = "revision_needed"
)
