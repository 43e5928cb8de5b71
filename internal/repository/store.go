package repository

import (
	"gorm.io/gorm"
)

// Store bundles all repositories over one connection so a caller can
// run them against a single transaction.
type Store struct {
	db *DB

	Users      *UserRepository
	Profiles   *ProfileRepository
	Levels     *LevelRepository
	Badges     *BadgeRepository
	Ledger     *LedgerRepository
	Challenges *ChallengeRepository
	Projects   *ProjectRepository
}

// NewStore creates a store with all repositories bound to db.
func NewStore(db *DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Profiles:   NewProfileRepository(db),
		Levels:     NewLevelRepository(db),
		Badges:     NewBadgeRepository(db),
		Ledger:     NewLedgerRepository(db),
		Challenges: NewChallengeRepository(db),
		Projects:   NewProjectRepository(db),
	}
}

// Transaction runs fn inside a database transaction. The store passed
// to fn is bound to that transaction; any error rolls everything back.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.DB.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(&DB{tx}))
	})
}

// DB exposes the underlying connection, mainly for health checks.
func (s *Store) DB() *DB {
	return s.db
}
