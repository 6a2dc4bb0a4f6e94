package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// violationBatch is the number of violation rows per INSERT.
const violationBatch = 500

// Store persists integrity runs through GORM.
type Store struct {
	db *gorm.DB
}

// New creates a store on db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the history tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate history tables: %w", err)
	}
	return nil
}

// Save inserts run and its violations in one transaction. Violation
// positions and run ids are assigned from run.
func (s *Store) Save(ctx context.Context, run *Run) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Violations").Create(run).Error; err != nil {
			return fmt.Errorf("insert run %s: %w", run.ID, err)
		}
		if len(run.Violations) == 0 {
			return nil
		}

		for i := range run.Violations {
			run.Violations[i].RunID = run.ID
			run.Violations[i].Position = i
		}
		if err := tx.CreateInBatches(run.Violations, violationBatch).Error; err != nil {
			return fmt.Errorf("insert violations of run %s: %w", run.ID, err)
		}
		return nil
	})
}

// List returns the most recent runs without their violations.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []Run
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with id and its violations in respondent order.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Violations", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}
