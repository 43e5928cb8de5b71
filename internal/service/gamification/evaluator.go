package gamification

import (
	"errors"
	"fmt"
	"time"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
)

// requirementPredicates maps a badge requirement type to a pure
// predicate over the profile. Adding a requirement type means adding an
// entry here; types without an entry never qualify. 'streak' is defined
// in data but deliberately has no predicate yet.
var requirementPredicates = map[string]func(profile *models.UserProfile, threshold int) bool{
	models.RequirementXP: func(p *models.UserProfile, threshold int) bool {
		return p.CurrentXP >= threshold
	},
	models.RequirementChallenges: func(p *models.UserProfile, threshold int) bool {
		return p.TotalChallengesCompleted >= threshold
	},
	models.RequirementProjects: func(p *models.UserProfile, threshold int) bool {
		return p.TotalProjectsCompleted >= threshold
	},
}

// qualifiesForBadge evaluates a badge's requirement against a profile.
func qualifiesForBadge(badge *models.Badge, profile *models.UserProfile) bool {
	predicate, ok := requirementPredicates[badge.RequirementType]
	if !ok {
		return false
	}
	return predicate(profile, badge.RequirementValue)
}

// checkAndAwardBadges grants every unearned badge the profile now
// qualifies for, inside the caller's transaction. A concurrent grant of
// the same badge (unique-index violation) is benign: the badge is
// simply not reported as new.
func (s *Service) checkAndAwardBadges(tx *repository.Store, profile *models.UserProfile) ([]models.Badge, error) {
	candidates, err := tx.Badges.ListUnearned(profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unearned badges: %w", err)
	}

	newBadges := make([]models.Badge, 0)
	for _, badge := range candidates {
		if !qualifiesForBadge(&badge, profile) {
			continue
		}
		err := tx.Badges.Award(profile.UserID, badge.ID, time.Now())
		if errors.Is(err, repository.ErrBadgeAlreadyEarned) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to award badge %q: %w", badge.Name, err)
		}
		newBadges = append(newBadges, badge)

		s.log.Info().
			Uint("user_id", profile.UserID).
			Str("badge", badge.Name).
			Msg("Badge earned")
	}
	return newBadges, nil
}
