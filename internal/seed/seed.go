// Package seed loads reference data (levels, badges, content) from a
// YAML file into an empty database.
package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// Data is the parsed seed file.
type Data struct {
	Levels     []LevelSeed     `yaml:"levels"`
	Badges     []BadgeSeed     `yaml:"badges"`
	Lessons    []LessonSeed    `yaml:"lessons"`
	Challenges []ChallengeSeed `yaml:"challenges"`
	Projects   []ProjectSeed   `yaml:"projects"`
	Users      []UserSeed      `yaml:"users"`
}

// LevelSeed is one level table row.
type LevelSeed struct {
	LevelNumber int    `yaml:"level_number"`
	Name        string `yaml:"name"`
	XPRequired  int    `yaml:"xp_required"`
	BadgeIcon   string `yaml:"badge_icon"`
}

// BadgeSeed is one badge definition.
type BadgeSeed struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	Icon             string `yaml:"icon"`
	RequirementType  string `yaml:"requirement_type"`
	RequirementValue int    `yaml:"requirement_value"`
}

// LessonSeed is one lesson.
type LessonSeed struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	Difficulty  string `yaml:"difficulty"`
	XPReward    int    `yaml:"xp_reward"`
	OrderIndex  int    `yaml:"order_index"`
}

// ChallengeSeed is one challenge; the slug is derived from the title
// when omitted.
type ChallengeSeed struct {
	Title         string   `yaml:"title"`
	Slug          string   `yaml:"slug"`
	LessonSlug    string   `yaml:"lesson_slug"`
	Description   string   `yaml:"description"`
	Difficulty    string   `yaml:"difficulty"`
	ChallengeType string   `yaml:"challenge_type"`
	XPReward      int      `yaml:"xp_reward"`
	StarterCode   string   `yaml:"starter_code"`
	SolutionCode  string   `yaml:"solution_code"`
	Hints         []string `yaml:"hints"`
	IsPublished   bool     `yaml:"is_published"`
}

// ProjectSeed is one project.
type ProjectSeed struct {
	Title          string   `yaml:"title"`
	Slug           string   `yaml:"slug"`
	Description    string   `yaml:"description"`
	Requirements   string   `yaml:"requirements"`
	Difficulty     string   `yaml:"difficulty"`
	XPReward       int      `yaml:"xp_reward"`
	EstimatedHours int      `yaml:"estimated_hours"`
	Technologies   []string `yaml:"technologies"`
	IsPublished    bool     `yaml:"is_published"`
}

// UserSeed is one demo account.
type UserSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// Load parses a seed file.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// Apply inserts the seed data. Each section is skipped when its table
// already has rows, so re-running at startup is harmless.
func Apply(data *Data, store *repository.Store, log *logger.Logger) error {
	if err := applyLevels(data.Levels, store); err != nil {
		return err
	}
	if err := applyBadges(data.Badges, store); err != nil {
		return err
	}
	lessonIDs, err := applyLessons(data.Lessons, store)
	if err != nil {
		return err
	}
	if err := applyChallenges(data.Challenges, lessonIDs, store); err != nil {
		return err
	}
	if err := applyProjects(data.Projects, store); err != nil {
		return err
	}
	if err := applyUsers(data.Users, store); err != nil {
		return err
	}

	log.Info().
		Int("levels", len(data.Levels)).
		Int("badges", len(data.Badges)).
		Int("lessons", len(data.Lessons)).
		Int("challenges", len(data.Challenges)).
		Int("projects", len(data.Projects)).
		Int("users", len(data.Users)).
		Msg("Seed data applied")
	return nil
}

func applyLevels(seeds []LevelSeed, store *repository.Store) error {
	count, err := store.Levels.Count()
	if err != nil || count > 0 || len(seeds) == 0 {
		return err
	}
	for _, s := range seeds {
		level := &models.Level{
			LevelNumber: s.LevelNumber,
			Name:        s.Name,
			XPRequired:  s.XPRequired,
			BadgeIcon:   s.BadgeIcon,
		}
		if err := store.Levels.Create(level); err != nil {
			return fmt.Errorf("failed to seed level %d: %w", s.LevelNumber, err)
		}
	}
	return nil
}

func applyBadges(seeds []BadgeSeed, store *repository.Store) error {
	count, err := store.Badges.Count()
	if err != nil || count > 0 || len(seeds) == 0 {
		return err
	}
	for _, s := range seeds {
		badge := &models.Badge{
			Name:             s.Name,
			Description:      s.Description,
			Icon:             s.Icon,
			RequirementType:  s.RequirementType,
			RequirementValue: s.RequirementValue,
		}
		if err := store.Badges.Create(badge); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", s.Name, err)
		}
	}
	return nil
}

func applyLessons(seeds []LessonSeed, store *repository.Store) (map[string]uint, error) {
	ids := make(map[string]uint)
	var count int64
	if err := store.DB().Model(&models.Lesson{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 || len(seeds) == 0 {
		// Build the slug map from existing rows for challenge linking.
		var existing []models.Lesson
		if err := store.DB().Find(&existing).Error; err != nil {
			return nil, err
		}
		for _, l := range existing {
			ids[l.Slug] = l.ID
		}
		return ids, nil
	}
	for _, s := range seeds {
		lesson := &models.Lesson{
			Title:       s.Title,
			Slug:        s.Slug,
			Description: s.Description,
			Content:     s.Content,
			Difficulty:  s.Difficulty,
			XPReward:    s.XPReward,
			OrderIndex:  s.OrderIndex,
			IsPublished: true,
		}
		if err := store.DB().Create(lesson).Error; err != nil {
			return nil, fmt.Errorf("failed to seed lesson %q: %w", s.Title, err)
		}
		ids[lesson.Slug] = lesson.ID
	}
	return ids, nil
}

func applyChallenges(seeds []ChallengeSeed, lessonIDs map[string]uint, store *repository.Store) error {
	count, err := store.Challenges.Count()
	if err != nil || count > 0 || len(seeds) == 0 {
		return err
	}
	for _, s := range seeds {
		hints, err := json.Marshal(s.Hints)
		if err != nil {
			return fmt.Errorf("failed to encode hints for %q: %w", s.Title, err)
		}
		challenge := &models.Challenge{
			Title:         s.Title,
			Slug:          s.Slug,
			Description:   s.Description,
			Difficulty:    s.Difficulty,
			ChallengeType: s.ChallengeType,
			XPReward:      s.XPReward,
			StarterCode:   s.StarterCode,
			SolutionCode:  s.SolutionCode,
			Hints:         hints,
			IsPublished:   s.IsPublished,
		}
		if id, ok := lessonIDs[s.LessonSlug]; ok {
			challenge.LessonID = &id
		}
		if err := store.Challenges.Create(challenge); err != nil {
			return fmt.Errorf("failed to seed challenge %q: %w", s.Title, err)
		}
	}
	return nil
}

func applyProjects(seeds []ProjectSeed, store *repository.Store) error {
	count, err := store.Projects.Count()
	if err != nil || count > 0 || len(seeds) == 0 {
		return err
	}
	for _, s := range seeds {
		technologies, err := json.Marshal(s.Technologies)
		if err != nil {
			return fmt.Errorf("failed to encode technologies for %q: %w", s.Title, err)
		}
		project := &models.Project{
			Title:          s.Title,
			Slug:           s.Slug,
			Description:    s.Description,
			Requirements:   s.Requirements,
			Difficulty:     s.Difficulty,
			XPReward:       s.XPReward,
			EstimatedHours: s.EstimatedHours,
			Technologies:   technologies,
			IsPublished:    s.IsPublished,
		}
		if err := store.Projects.Create(project); err != nil {
			return fmt.Errorf("failed to seed project %q: %w", s.Title, err)
		}
	}
	return nil
}

func applyUsers(seeds []UserSeed, store *repository.Store) error {
	count, err := store.Users.Count()
	if err != nil || count > 0 || len(seeds) == 0 {
		return err
	}
	for _, s := range seeds {
		user := &models.User{
			Name:     s.Name,
			Email:    s.Email,
			Role:     s.Role,
			IsActive: true,
		}
		if err := store.Users.Create(user); err != nil {
			return fmt.Errorf("failed to seed user %q: %w", s.Email, err)
		}
	}
	return nil
}
