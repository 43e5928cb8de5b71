package seed

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

const testSeed = `
levels:
  - { level_number: 1, name: Beginner, xp_required: 0 }
  - { level_number: 2, name: Novice, xp_required: 100 }

badges:
  - name: First Steps
    description: Complete your first challenge
    icon: "🎯"
    requirement_type: challenges
    requirement_value: 1

lessons:
  - title: Intro
    slug: intro
    difficulty: beginner
    xp_reward: 10
    order_index: 1

challenges:
  - title: Hello World
    lesson_slug: intro
    difficulty: beginner
    challenge_type: coding
    xp_reward: 25
    hints: [match the output exactly]
    is_published: true

projects:
  - title: Portfolio
    difficulty: beginner
    xp_reward: 200
    technologies: [html, css]
    is_published: true

users:
  - name: Ada Admin
    email: admin@example.com
    role: admin
`

func setupTestStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Level{},
		&models.Badge{},
		&models.Lesson{},
		&models.Challenge{},
		&models.Project{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}
	return repository.NewStore(&repository.DB{DB: db})
}

func writeSeedFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(testSeed), 0o600); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	data, err := Load(writeSeedFile(t))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(data.Levels) != 2 {
		t.Errorf("Expected 2 levels, got %d", len(data.Levels))
	}
	if len(data.Badges) != 1 || data.Badges[0].RequirementType != "challenges" {
		t.Errorf("Unexpected badges: %+v", data.Badges)
	}
	if len(data.Challenges) != 1 || data.Challenges[0].XPReward != 25 {
		t.Errorf("Unexpected challenges: %+v", data.Challenges)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/seed.yaml"); err == nil {
		t.Error("Expected error for missing seed file")
	}
}

func TestApply(t *testing.T) {
	store := setupTestStore(t)

	data, err := Load(writeSeedFile(t))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := Apply(data, store, logger.Nop()); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	levels, err := store.Levels.GetAllOrdered()
	if err != nil {
		t.Fatalf("GetAllOrdered() failed: %v", err)
	}
	if len(levels) != 2 {
		t.Errorf("Expected 2 levels, got %d", len(levels))
	}

	// Challenge slug is derived and the lesson link resolved.
	challenge, err := store.Challenges.GetBySlug("hello-world")
	if err != nil {
		t.Fatalf("GetBySlug() failed: %v", err)
	}
	if challenge.LessonID == nil {
		t.Error("Expected challenge linked to its lesson")
	}

	users, err := store.Users.List("admin")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 admin user, got %d", len(users))
	}
}

func TestApply_Idempotent(t *testing.T) {
	store := setupTestStore(t)

	data, err := Load(writeSeedFile(t))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := Apply(data, store, logger.Nop()); err != nil {
		t.Fatalf("First Apply() failed: %v", err)
	}
	if err := Apply(data, store, logger.Nop()); err != nil {
		t.Fatalf("Second Apply() failed: %v", err)
	}

	count, err := store.Badges.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 badge after re-applying, got %d", count)
	}

	userCount, err := store.Users.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if userCount != 1 {
		t.Errorf("Expected 1 user after re-applying, got %d", userCount)
	}
}
