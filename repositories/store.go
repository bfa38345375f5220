package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the catalog repositories over one database handle so
// services can run multi-repository work inside a single transaction.
type Store struct {
	DB         *gorm.DB
	Techniques TechniqueRepository
	Taxonomy   TaxonomyRepository
	Users      UserRepository
	Sessions   SessionRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		DB:         db,
		Techniques: NewTechniqueRepository(db),
		Taxonomy:   NewTaxonomyRepository(db),
		Users:      NewUserRepository(db),
		Sessions:   NewSessionRepository(db),
	}
}

// Transaction runs fn with every repository bound to the same database
// transaction. Any error rolls the whole transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
