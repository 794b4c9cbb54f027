package repository

import (
	"context"
	"fmt"

	"github.com/contentclicks/dashboard/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository stores the last synchronized view per customer.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save upserts a customer's view snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snap *domain.ViewSnapshot) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			UpdateAll: true,
		}).
		Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to save view snapshot: %w", err)
	}
	return nil
}

// Get returns the stored snapshot for a customer.
func (r *SnapshotRepository) Get(ctx context.Context, customerID string) (*domain.ViewSnapshot, error) {
	var snap domain.ViewSnapshot
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&snap).Error
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes a customer's snapshot, if present.
func (r *SnapshotRepository) Delete(ctx context.Context, customerID string) error {
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&domain.ViewSnapshot{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete view snapshot: %w", err)
	}
	return nil
}
