package models

import (
	"encoding/json"
	"time"
)

// Lesson is the content parent a challenge may belong to. Lesson
// authoring is plain content management; the model exists so challenges
// can reference it.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;size:255" json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	Difficulty  string    `gorm:"size:50" json:"difficulty"`
	XPReward    int       `gorm:"column:xp_reward;default:0" json:"xp_reward"`
	OrderIndex  int       `gorm:"default:0" json:"order_index"`
	IsPublished bool      `gorm:"default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Lesson model.
func (Lesson) TableName() string {
	return "lessons"
}

// Challenge is a coding exercise worth a fixed XP reward.
type Challenge struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	LessonID         *uint           `gorm:"index" json:"lesson_id"`
	Lesson           *Lesson         `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
	Title            string          `gorm:"not null;size:255" json:"title"`
	Slug             string          `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description      string          `gorm:"type:text" json:"description"`
	Difficulty       string          `gorm:"not null;size:50" json:"difficulty"` // 'beginner', 'intermediate', 'advanced'
	ChallengeType    string          `gorm:"size:50" json:"challenge_type"`
	XPReward         int             `gorm:"column:xp_reward;not null" json:"xp_reward"`
	TimeLimitMinutes int             `gorm:"default:0" json:"time_limit_minutes"`
	StarterCode      string          `gorm:"type:text" json:"starter_code"`
	SolutionCode     string          `gorm:"type:text" json:"solution_code,omitempty"`
	Hints            json.RawMessage `gorm:"type:jsonb" json:"hints"`      // ordered list of strings
	TestCases        json.RawMessage `gorm:"type:jsonb" json:"test_cases"` // structured, unused by the default validator
	IsPublished      bool            `gorm:"default:false" json:"is_published"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Challenge model.
func (Challenge) TableName() string {
	return "challenges"
}

// UserChallengeProgress tracks one user's attempts at one challenge.
// One row per (user, challenge) pair, created lazily on first
// submission. Once Status is 'completed' the row is terminal.
type UserChallengeProgress struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ChallengeID   uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	Challenge     *Challenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	Status        string     `gorm:"not null;size:50;default:not_started" json:"status"`
	SubmittedCode string     `gorm:"type:text" json:"submitted_code"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	XPEarned      int        `gorm:"column:xp_earned;not null;default:0" json:"xp_earned"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName specifies the table name for UserChallengeProgress model.
func (UserChallengeProgress) TableName() string {
	return "user_challenge_progress"
}

// Challenge progress statuses.
const (
	ProgressNotStarted = "not_started"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
	ProgressFailed     = "failed"
)

// Challenge difficulties.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)
