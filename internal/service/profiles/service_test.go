package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillforge-app/skillforge-backend/internal/models"
	"github.com/skillforge-app/skillforge-backend/internal/repository"
	"github.com/skillforge-app/skillforge-backend/pkg/logger"
)

// setupTestStore creates a Store over an in-memory SQLite database with
// the default level thresholds seeded.
func setupTestStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Level{},
		&models.Badge{},
		&models.UserBadge{},
		&models.XpTransaction{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	store := repository.NewStore(&repository.DB{DB: db})
	for i, xp := range []int{0, 100, 300} {
		if err := store.Levels.Create(&models.Level{LevelNumber: i + 1, Name: "Level", XPRequired: xp}); err != nil {
			t.Fatalf("Failed to seed level: %v", err)
		}
	}
	return store
}

func createTestUser(t *testing.T, store *repository.Store, email string) *models.User {
	t.Helper()

	user := &models.User{Name: "Alice", Email: email, Role: models.RoleStudent, IsActive: true}
	if err := store.Users.Create(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func TestGetProfile(t *testing.T) {
	store := setupTestStore(t)
	service := NewService(store, logger.Nop())

	user := createTestUser(t, store, "alice@example.com")
	profile, err := store.Profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	profile.CurrentXP = 150
	profile.CurrentLevel = 2
	profile.Bio = "hello"
	if err := store.Profiles.Save(profile); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	snapshot, err := service.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}

	if snapshot.User.Email != "alice@example.com" {
		t.Errorf("Unexpected user email %q", snapshot.User.Email)
	}
	if snapshot.Profile.Bio != "hello" {
		t.Errorf("Unexpected bio %q", snapshot.Profile.Bio)
	}
	if snapshot.Gamification.CurrentXP != 150 || snapshot.Gamification.CurrentLevel != 2 {
		t.Errorf("Unexpected gamification block %+v", snapshot.Gamification)
	}

	lp := snapshot.Gamification.LevelProgress
	if lp.NextLevel == nil || *lp.NextLevel != 3 {
		t.Fatalf("Expected next level 3, got %v", lp.NextLevel)
	}
	// 50 XP into the 200 XP span between thresholds 100 and 300.
	if lp.XPIntoLevel != 50 || lp.XPForNextLevel != 200 {
		t.Errorf("Expected 50/200 into level, got %d/%d", lp.XPIntoLevel, lp.XPForNextLevel)
	}
	if lp.ProgressPercent != 25 {
		t.Errorf("Expected 25%% progress, got %v", lp.ProgressPercent)
	}
}

func TestGetProfile_TopLevelPinned(t *testing.T) {
	store := setupTestStore(t)
	service := NewService(store, logger.Nop())

	user := createTestUser(t, store, "alice@example.com")
	profile, err := store.Profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	profile.CurrentXP = 5000
	profile.CurrentLevel = 3
	if err := store.Profiles.Save(profile); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	snapshot, err := service.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetProfile() failed: %v", err)
	}

	lp := snapshot.Gamification.LevelProgress
	if lp.NextLevel != nil {
		t.Errorf("Expected no next level at the top, got %v", *lp.NextLevel)
	}
	if lp.ProgressPercent != 100 {
		t.Errorf("Expected progress pinned at 100%%, got %v", lp.ProgressPercent)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	store := setupTestStore(t)
	service := NewService(store, logger.Nop())

	_, err := service.GetProfile(context.Background(), 999)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("GetProfile() error = %v, want ErrProfileNotFound", err)
	}
}

func TestUpdateProfile_PartialEdits(t *testing.T) {
	store := setupTestStore(t)
	service := NewService(store, logger.Nop())

	user := createTestUser(t, store, "alice@example.com")
	profile, err := store.Profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	profile.Bio = "original bio"
	profile.GithubURL = "https://github.com/alice"
	if err := store.Profiles.Save(profile); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	name := "Alice Cooper"
	bio := "updated bio"
	snapshot, err := service.UpdateProfile(context.Background(), user.ID, UpdateInput{
		Name: &name,
		Bio:  &bio,
	})
	if err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}

	if snapshot.User.Name != "Alice Cooper" {
		t.Errorf("Expected updated name, got %q", snapshot.User.Name)
	}
	if snapshot.Profile.Bio != "updated bio" {
		t.Errorf("Expected updated bio, got %q", snapshot.Profile.Bio)
	}
	// Fields not present in the input stay as they were.
	if snapshot.Profile.GithubURL != "https://github.com/alice" {
		t.Errorf("Expected GitHub URL untouched, got %q", snapshot.Profile.GithubURL)
	}
}

func TestGetStats(t *testing.T) {
	store := setupTestStore(t)
	service := NewService(store, logger.Nop())

	user := createTestUser(t, store, "alice@example.com")
	profile, err := store.Profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	profile.CurrentXP = 75
	profile.TotalChallengesCompleted = 2
	if err := store.Profiles.Save(profile); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	for _, amount := range []int{50, 25} {
		if err := store.Ledger.Append(&models.XpTransaction{
			UserID:     user.ID,
			Amount:     amount,
			SourceType: models.SourceChallenge,
		}); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	badge := &models.Badge{Name: "First Steps", RequirementType: models.RequirementChallenges, RequirementValue: 1}
	if err := store.Badges.Create(badge); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := store.Badges.Award(user.ID, badge.ID, time.Now()); err != nil {
		t.Fatalf("Award() failed: %v", err)
	}

	stats, err := service.GetStats(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetStats() failed: %v", err)
	}

	if stats.CurrentXP != 75 {
		t.Errorf("Expected current XP 75, got %d", stats.CurrentXP)
	}
	if stats.TotalXPEarned != 75 {
		t.Errorf("Expected total XP earned 75, got %d", stats.TotalXPEarned)
	}
	if stats.ChallengesCompleted != 2 {
		t.Errorf("Expected 2 challenges completed, got %d", stats.ChallengesCompleted)
	}
	if stats.BadgesEarned != 1 {
		t.Errorf("Expected 1 badge earned, got %d", stats.BadgesEarned)
	}
	if len(stats.RecentActivity) != 2 {
		t.Errorf("Expected 2 recent ledger entries, got %d", len(stats.RecentActivity))
	}
}
