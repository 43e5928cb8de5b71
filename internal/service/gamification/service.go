// Package gamification implements the progression engine: XP awards,
// level transitions, badge evaluation and the leaderboard projection.
package gamification

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/metrics"
	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Sentinel errors surfaced to callers.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrZeroAmount      = errors.New("xp amount must be non-zero")
)

// AwardResult is returned by AwardXP and embedded in workflow results.
type AwardResult struct {
	XPAwarded int            `json:"xp_awarded"`
	TotalXP   int            `json:"total_xp"`
	LeveledUp bool           `json:"leveled_up"`
	OldLevel  int            `json:"old_level"`
	NewLevel  int            `json:"new_level"`
	NewBadges []models.Badge `json:"new_badges"`
}

// LeaderboardEntry is one ranked row of the leaderboard projection.
type LeaderboardEntry struct {
	Rank                int    `json:"rank"`
	UserID              uint   `json:"user_id"`
	Name                string `json:"name"`
	Avatar              string `json:"avatar"`
	CurrentXP           int    `json:"current_xp"`
	CurrentLevel        int    `json:"current_level"`
	ChallengesCompleted int    `json:"challenges_completed"`
	ProjectsCompleted   int    `json:"projects_completed"`
}

// Service is the gamification engine.
type Service struct {
	store *repository.Store
	log   *logger.Logger
}

// NewService creates a new gamification service.
func NewService(store *repository.Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// AwardXP appends a ledger entry, adds XP to the user's profile,
// recomputes the level from the level table and evaluates badges, all
// in one transaction. Any failure rolls the whole award back.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) AwardXP(ctx context.Context, userID uint, amount int, sourceType string, sourceID *uint, description string) (*AwardResult, error) {
	var result *AwardResult
	err := s.store.Transaction(func(tx *repository.Store) error {
		var err error
		result, err = s.AwardInTx(tx, userID, amount, sourceType, sourceID, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	RecordAwardMetrics(sourceType, result)
	s.log.Info().
		Uint("user_id", userID).
		Int("amount", amount).
		Str("source_type", sourceType).
		Int("total_xp", result.TotalXP).
		Bool("leveled_up", result.LeveledUp).
		Int("new_badges", len(result.NewBadges)).
		Msg("XP awarded")

	return result, nil
}

// AwardInTx runs the award sequence against an already-open
// transaction. Workflow services use it so the award commits or rolls
// back together with their own writes. Metrics are the caller's
// responsibility (record only after commit).
func (s *Service) AwardInTx(tx *repository.Store, userID uint, amount int, sourceType string, sourceID *uint, description string) (*AwardResult, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}

	profile, err := tx.Profiles.GetByUserIDForUpdate(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	oldLevel := profile.CurrentLevel

	if description == "" {
		description = fmt.Sprintf("Earned %d XP from %s", amount, sourceType)
	}
	entry := &models.XpTransaction{
		UserID:      userID,
		Amount:      amount,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Description: description,
	}
	if err := tx.Ledger.Append(entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	profile.CurrentXP += amount

	levels, err := tx.Levels.GetAllOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load level table: %w", err)
	}
	profile.CurrentLevel = levelForXP(levels, profile.CurrentXP)

	if err := tx.Profiles.Save(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	newBadges, err := s.checkAndAwardBadges(tx, profile)
	if err != nil {
		return nil, err
	}

	return &AwardResult{
		XPAwarded: amount,
		TotalXP:   profile.CurrentXP,
		LeveledUp: profile.CurrentLevel > oldLevel,
		OldLevel:  oldLevel,
		NewLevel:  profile.CurrentLevel,
		NewBadges: newBadges,
	}, nil
}

// RecordAwardMetrics publishes the Prometheus counters for a committed
// award. Callers of AwardInTx invoke it after their transaction commits
// so rolled-back awards never show up in metrics.
func RecordAwardMetrics(sourceType string, result *AwardResult) {
	metrics.RecordXPAwarded(sourceType, result.XPAwarded)
	if result.LeveledUp {
		metrics.RecordLevelUp()
	}
	for _, badge := range result.NewBadges {
		metrics.RecordBadgeAwarded(badge.Name)
	}
}

// CheckAndAwardBadges evaluates all unearned badges against the user's
// current profile and grants the qualifying ones. Re-invoking it with
// no intervening state change yields an empty result.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) CheckAndAwardBadges(ctx context.Context, userID uint) ([]models.Badge, error) {
	var newBadges []models.Badge
	err := s.store.Transaction(func(tx *repository.Store) error {
		profile, err := tx.Profiles.GetByUserID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to load profile: %w", err)
		}
		newBadges, err = s.checkAndAwardBadges(tx, profile)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, badge := range newBadges {
		metrics.RecordBadgeAwarded(badge.Name)
	}
	return newBadges, nil
}

// GetLeaderboard returns all profiles ranked descending by XP, ties in
// insertion order, truncated to limit. Recomputed on every call.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	profiles, err := s.store.Profiles.TopByXP(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, profile := range profiles {
		entry := LeaderboardEntry{
			Rank:                i + 1,
			UserID:              profile.UserID,
			Avatar:              profile.Avatar,
			CurrentXP:           profile.CurrentXP,
			CurrentLevel:        profile.CurrentLevel,
			ChallengesCompleted: profile.TotalChallengesCompleted,
			ProjectsCompleted:   profile.TotalProjectsCompleted,
		}
		if profile.User != nil {
			entry.Name = profile.User.Name
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetBadgeCatalog retrieves all badge definitions.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetBadgeCatalog(ctx context.Context) ([]models.Badge, error) {
	return s.store.Badges.GetAll()
}

// GetUserBadges retrieves all badges earned by a user.
//
//nolint:revive // ctx reserved for future context-aware operations
func (s *Service) GetUserBadges(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	return s.store.Badges.GetUserBadges(userID)
}

// EvaluateAllBadges re-evaluates every user's badges. Run from the
// nightly sweep; safe because awarding is idempotent and requirements
// are monotonic. Returns the number of badges awarded.
func (s *Service) EvaluateAllBadges(ctx context.Context) (int, error) {
	users, err := s.store.Users.List("")
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	awarded := 0
	for _, user := range users {
		badges, err := s.CheckAndAwardBadges(ctx, user.ID)
		if err != nil {
			s.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to evaluate badges")
			continue
		}
		awarded += len(badges)
	}

	s.refreshBadgeHolderGauges()

	s.log.Info().
		Int("users_evaluated", len(users)).
		Int("badges_awarded", awarded).
		Msg("Badge sweep complete")
	return awarded, nil
}

// refreshBadgeHolderGauges republishes the holders-per-badge gauge.
func (s *Service) refreshBadgeHolderGauges() {
	badges, err := s.store.Badges.GetAll()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load badges for holder gauges")
		return
	}
	for _, badge := range badges {
		count, err := s.store.Badges.HoldersCount(badge.ID)
		if err != nil {
			s.log.Error().Err(err).Str("badge", badge.Name).Msg("Failed to count badge holders")
			continue
		}
		metrics.SetBadgeHolders(badge.Name, int(count))
	}
}

// levelForXP returns the highest level whose threshold is within xp.
// Levels are sorted ascending by XPRequired; level 1 has threshold 0.
func levelForXP(levels []models.Level, xp int) int {
	level := 1
	for _, l := range levels {
		if l.XPRequired <= xp {
			level = l.LevelNumber
		} else {
			break
		}
	}
	return level
}
