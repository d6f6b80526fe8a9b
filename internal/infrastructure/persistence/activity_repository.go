package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestium/backend/internal/domain/activity"
)

// GormActivityRepository implements the activity Repository using GORM.
// The table is append-only: this type exposes no update or delete.
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Append persists a new activity record
func (r *GormActivityRepository) Append(ctx context.Context, record *activity.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByOrganization returns records newest first with the total count
func (r *GormActivityRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID, filter activity.Filter, limit, offset int) ([]*activity.Record, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&activity.Record{}).Where("organization_id = ?", orgID), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*activity.Record
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByKindAndAction aggregates record counts grouped by entity kind and action
func (r *GormActivityRepository) CountByKindAndAction(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]activity.StatCount, error) {
	var counts []activity.StatCount
	if err := r.db.WithContext(ctx).
		Model(&activity.Record{}).
		Select("entity_kind, action, COUNT(*) AS count").
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", orgID, from, to).
		Group("entity_kind, action").
		Order("entity_kind ASC, action ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter activity.Filter) *gorm.DB {
	if filter.EntityKind != "" {
		query = query.Where("entity_kind = ?", filter.EntityKind)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	return query
}

var _ activity.Repository = (*GormActivityRepository)(nil)
