// Package profiles serves the profile snapshot and statistics read
// models combining the account, progression and ledger data.
package profiles

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// ErrProfileNotFound is returned when the user or profile is missing.
var ErrProfileNotFound = errors.New("profile not found")

// LevelProgress describes how far into the current level a profile is.
type LevelProgress struct {
	CurrentLevel    int     `json:"current_level"`
	NextLevel       *int    `json:"next_level,omitempty"`
	XPIntoLevel     int     `json:"xp_into_level"`
	XPForNextLevel  int     `json:"xp_for_next_level"`
	ProgressPercent float64 `json:"progress_percent"`
}

// Snapshot is the full profile view returned by GET /profile.
type Snapshot struct {
	User         UserInfo           `json:"user"`
	Profile      ProfileInfo        `json:"profile"`
	Gamification GamificationInfo   `json:"gamification"`
	Badges       []models.UserBadge `json:"badges"`
}

// UserInfo is the account block of a snapshot.
type UserInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileInfo is the editable block of a snapshot.
type ProfileInfo struct {
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
	GithubURL   string `json:"github_url"`
	LinkedinURL string `json:"linkedin_url"`
}

// GamificationInfo is the progression block of a snapshot.
type GamificationInfo struct {
	CurrentXP                int           `json:"current_xp"`
	CurrentLevel             int           `json:"current_level"`
	LevelProgress            LevelProgress `json:"level_progress"`
	TotalChallengesCompleted int           `json:"total_challenges_completed"`
	TotalProjectsCompleted   int           `json:"total_projects_completed"`
}

// UpdateInput carries profile edits; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	GithubURL   *string `json:"github_url"`
	LinkedinURL *string `json:"linkedin_url"`
}

// Stats is the aggregate view returned by GET /profile/stats.
type Stats struct {
	CurrentXP           int                    `json:"current_xp"`
	CurrentLevel        int                    `json:"current_level"`
	TotalXPEarned       int64                  `json:"total_xp_earned"`
	ChallengesCompleted int                    `json:"challenges_completed"`
	ProjectsCompleted   int                    `json:"projects_completed"`
	BadgesEarned        int64                  `json:"badges_earned"`
	RecentActivity      []models.XpTransaction `json:"recent_activity"`
}

// Service reads and updates profile data.
type Service struct {
	store *repository.Store
	log   *logger.Logger
}

// NewService creates a profile service.
func NewService(store *repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// GetProfile builds the profile snapshot for a user.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetProfile(ctx context.Context, userID uint) (*Snapshot, error) {
	user, err := s.store.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	profile, err := s.store.Profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	badges, err := s.store.Badges.GetUserBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	levels, err := s.store.Levels.GetAllOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load level table: %w", err)
	}

	return &Snapshot{
		User: UserInfo{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		Profile: ProfileInfo{
			Bio:         profile.Bio,
			Avatar:      profile.Avatar,
			GithubURL:   profile.GithubURL,
			LinkedinURL: profile.LinkedinURL,
		},
		Gamification: GamificationInfo{
			CurrentXP:                profile.CurrentXP,
			CurrentLevel:             profile.CurrentLevel,
			LevelProgress:            progressToNextLevel(levels, profile),
			TotalChallengesCompleted: profile.TotalChallengesCompleted,
			TotalProjectsCompleted:   profile.TotalProjectsCompleted,
		},
		Badges: badges,
	}, nil
}

// UpdateProfile applies partial edits to the account name and profile
// links. Progression fields are not editable here.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input UpdateInput) (*Snapshot, error) {
	err := s.store.Transaction(func(tx *repository.Store) error {
		if input.Name != nil {
			user, err := tx.Users.GetByID(userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProfileNotFound
				}
				return fmt.Errorf("failed to load user: %w", err)
			}
			user.Name = *input.Name
			if err := tx.DB().Save(user).Error; err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}
		}

		profile, err := tx.Profiles.GetByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if input.Bio != nil {
			profile.Bio = *input.Bio
		}
		if input.GithubURL != nil {
			profile.GithubURL = *input.GithubURL
		}
		if input.LinkedinURL != nil {
			profile.LinkedinURL = *input.LinkedinURL
		}
		return tx.Profiles.Save(profile)
	})
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// GetStats builds the statistics view for a user.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetStats(ctx context.Context, userID uint) (*Stats, error) {
	profile, err := s.store.Profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	totalEarned, err := s.store.Ledger.SumByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger: %w", err)
	}
	badgeCount, err := s.store.Badges.CountUserBadges(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count badges: %w", err)
	}
	recent, err := s.store.Ledger.RecentByUser(userID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	return &Stats{
		CurrentXP:           profile.CurrentXP,
		CurrentLevel:        profile.CurrentLevel,
		TotalXPEarned:       totalEarned,
		ChallengesCompleted: profile.TotalChallengesCompleted,
		ProjectsCompleted:   profile.TotalProjectsCompleted,
		BadgesEarned:        badgeCount,
		RecentActivity:      recent,
	}, nil
}

// progressToNextLevel computes how far the profile is between its
// current level threshold and the next one. At the top level progress
// is pinned to 100%.
func progressToNextLevel(levels []models.Level, profile *models.UserProfile) LevelProgress {
	progress := LevelProgress{
		CurrentLevel:    profile.CurrentLevel,
		ProgressPercent: 100,
	}

	currentThreshold := 0
	for i, l := range levels {
		if l.LevelNumber != profile.CurrentLevel {
			continue
		}
		currentThreshold = l.XPRequired
		if i+1 < len(levels) {
			next := levels[i+1]
			progress.NextLevel = &next.LevelNumber
			progress.XPIntoLevel = profile.CurrentXP - currentThreshold
			progress.XPForNextLevel = next.XPRequired - currentThreshold
			if progress.XPForNextLevel > 0 {
				progress.ProgressPercent = 100 * float64(progress.XPIntoLevel) / float64(progress.XPForNextLevel)
			}
		}
		break
	}
	return progress
}
